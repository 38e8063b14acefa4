package doctree

import (
	"fmt"
	"strings"
)

// MessageLevel grades system messages from debug chatter to severe
// errors that halt processing.
type MessageLevel int

const (
	LevelDebug MessageLevel = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelSevere
)

var levelNames = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "SEVERE"}

func (l MessageLevel) String() string {
	if l < LevelDebug || l > LevelSevere {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// ParseMessageLevel reads a level name ("warning") or digit ("2").
func ParseMessageLevel(s string) (MessageLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "0":
		return LevelDebug, nil
	case "INFO", "1":
		return LevelInfo, nil
	case "WARNING", "2":
		return LevelWarning, nil
	case "ERROR", "3":
		return LevelError, nil
	case "SEVERE", "4":
		return LevelSevere, nil
	}
	return 0, fmt.Errorf("unknown message level %q", s)
}

// MessageOption configures a system message built by a Reporter.
type MessageOption func(*messageParams)

type messageParams struct {
	base     Node
	backrefs []string
	source   string
	line     int
	children []Node
}

// WithBaseNode attributes the message to a node; its source and line
// are used unless overridden.
func WithBaseNode(n Node) MessageOption {
	return func(p *messageParams) { p.base = n }
}

// WithBackrefs links the message back to the ids of the nodes that
// triggered it.
func WithBackrefs(ids ...string) MessageOption {
	return func(p *messageParams) { p.backrefs = append(p.backrefs, ids...) }
}

// WithSource overrides the message provenance.
func WithSource(source string, line int) MessageOption {
	return func(p *messageParams) {
		p.source = source
		p.line = line
	}
}

// WithChildren adds body children after the message paragraph.
func WithChildren(children ...Node) MessageOption {
	return func(p *messageParams) { p.children = append(p.children, children...) }
}

// Reporter issues system messages. Report returns the constructed
// system_message element so callers can attach it to the tree.
type Reporter interface {
	Report(level MessageLevel, message string, opts ...MessageOption) *Element
	// Threshold returns the level below which messages are dropped
	// from output.
	Threshold() MessageLevel
}

// NewSystemMessage builds a system_message element: a paragraph holding
// the message text plus any extra children, with level, type, and
// provenance attributes filled in.
func NewSystemMessage(level MessageLevel, message string, opts ...MessageOption) *Element {
	var p messageParams
	for _, opt := range opts {
		opt(&p)
	}
	msg := NewElement(KindSystemMessage)
	if message != "" {
		msg.Append(NewTextElement(KindParagraph, message))
	}
	msg.Extend(p.children...)
	msg.Set("level", int(level))
	msg.Set("type", level.String())
	if len(p.backrefs) > 0 {
		msg.Set("backrefs", p.backrefs)
	}
	source, line := p.source, p.line
	if p.base != nil && source == "" {
		source, line = p.base.Source(), p.base.Line()
	}
	if source != "" {
		msg.Set("source", source)
		msg.SetSource(source)
	}
	if line != 0 {
		msg.Set("line", line)
		msg.SetLine(line)
	}
	return msg
}

// Settings carries the runtime configuration the tree machinery needs:
// id generation, reporting thresholds, and transform switches.
type Settings struct {
	// IDPrefix is prepended to every generated id.
	IDPrefix string
	// AutoIDPrefix names automatically generated ids. A trailing "%"
	// is replaced with the element kind.
	AutoIDPrefix string
	LanguageCode string

	ReportLevel MessageLevel
	HaltLevel   MessageLevel

	// StrictVisitor makes dispatching visitors fail on unhandled
	// kinds instead of falling back to the default handler.
	StrictVisitor bool

	StripComments bool
	// StripClasses lists class values removed from all elements.
	StripClasses []string
	// StripElements lists class values whose elements are removed
	// entirely.
	StripElements []string
	// ExposeInternals lists internal node attributes (line, source,
	// rawsource) copied into "internal:"-prefixed tree attributes.
	ExposeInternals []string
	SmartQuotes     bool

	Generator  bool
	Datestamp  string
	SourceLink bool
	SourceURL  string
}

// DefaultSettings returns the settings used when none are supplied.
func DefaultSettings() Settings {
	return Settings{
		AutoIDPrefix: "%",
		LanguageCode: "en",
		ReportLevel:  LevelWarning,
		HaltLevel:    LevelSevere,
	}
}

// Transform mutates a finished document. Implementations are collected
// and ordered by a scheduler before being applied.
type Transform interface {
	// Priority orders transforms; lower runs first.
	Priority() int
	// Apply runs the transform. The pending argument is non-nil when
	// the transform was attached to a pending placeholder node.
	Apply(doc *Document, pending *Pending) error
}

// PendingScheduler queues transforms carried by pending nodes. The
// document delegates NotePending here.
type PendingScheduler interface {
	AddPending(p *Pending, priority int)
}

// Document is the tree root. Beyond its element behavior it owns the
// settings, the reporter, and the identity indices that map ids and
// names to elements.
type Document struct {
	Element

	Settings Settings
	Reporter Reporter

	// IDs maps each registered id to its element.
	IDs map[string]*Element
	// NameIDs maps names to ids. An empty string marks a name that
	// has become ambiguous through duplication.
	NameIDs map[string]string
	// NameTypes records whether a name was explicitly assigned.
	NameTypes map[string]bool

	// RefNames and RefIDs index references by target name and id.
	RefNames map[string][]*Element
	RefIDs   map[string][]*Element

	SubstitutionDefs  map[string]*Element
	SubstitutionNames map[string]string

	Footnotes          []*Element
	Citations          []*Element
	Autofootnotes      []*Element
	SymbolFootnotes    []*Element
	FootnoteRefs       map[string][]*Element
	CitationRefs       map[string][]*Element
	AutofootnoteRefs   []*Element
	SymbolFootnoteRefs []*Element
	IndirectTargets    []*Element

	AutofootnoteStart   int
	SymbolFootnoteStart int

	// idCounter numbers automatically generated ids per prefix.
	idCounter map[string]int

	ParseMessages     []*Element
	TransformMessages []*Element

	// Transformer receives transforms attached via NotePending.
	Transformer PendingScheduler

	// CurrentSource and CurrentLine track the ingest position; newly
	// adopted children inherit them.
	CurrentSource string
	CurrentLine   int
}

// NewDocument returns an empty document with the given settings and
// reporter. The reporter may be nil; messages are then built but not
// logged.
func NewDocument(settings Settings, reporter Reporter) *Document {
	d := &Document{
		Settings:            settings,
		Reporter:            reporter,
		IDs:                 make(map[string]*Element),
		NameIDs:             make(map[string]string),
		NameTypes:           make(map[string]bool),
		RefNames:            make(map[string][]*Element),
		RefIDs:              make(map[string][]*Element),
		SubstitutionDefs:    make(map[string]*Element),
		SubstitutionNames:   make(map[string]string),
		FootnoteRefs:        make(map[string][]*Element),
		CitationRefs:        make(map[string][]*Element),
		idCounter:           make(map[string]int),
		AutofootnoteStart:   1,
		SymbolFootnoteStart: 0,
	}
	d.Element.kind = KindDocument
	d.Element.initAttributes()
	d.Element.owner = d
	return d
}

func (d *Document) element() *Element { return &d.Element }

// report issues a message through the reporter, or builds it directly
// when no reporter is attached.
func (d *Document) report(level MessageLevel, message string, opts ...MessageOption) *Element {
	if d.Reporter != nil {
		return d.Reporter.Report(level, message, opts...)
	}
	return NewSystemMessage(level, message, opts...)
}

// SetID assigns an id to the node and registers it, generating one
// from the node's names (or the automatic prefix) when the node has
// none. Returns the effective id.
func (d *Document) SetID(node *Element, msgnode *Element) string {
	if ids := node.IDs(); len(ids) > 0 {
		var last string
		for _, id := range ids {
			if old, ok := d.IDs[id]; ok && old != node {
				msg := d.report(LevelSevere, fmt.Sprintf("Duplicate ID: %q.", id),
					WithBaseNode(node))
				if msgnode != nil {
					msgnode.Append(msg)
				}
			} else {
				d.IDs[id] = node
			}
			last = id
		}
		return last
	}
	var id, base string
	found := false
	for _, name := range node.Names() {
		if d.Settings.IDPrefix != "" {
			// a prefixed id may start with a digit
			base = MakeID("x" + name)[1:]
		} else {
			base = MakeID(name)
		}
		id = d.Settings.IDPrefix + base
		if base != "" {
			if _, taken := d.IDs[id]; !taken {
				found = true
				break
			}
		}
	}
	if !found {
		var prefix string
		if base != "" && strings.HasSuffix(d.Settings.AutoIDPrefix, "%") {
			// disambiguate the name-derived id with a number
			prefix = id + "-"
		} else {
			prefix = d.Settings.IDPrefix + d.Settings.AutoIDPrefix
			if strings.HasSuffix(prefix, "%") {
				prefix = prefix[:len(prefix)-1] + MakeID(string(node.Kind())) + "-"
			}
		}
		for {
			d.idCounter[prefix]++
			id = fmt.Sprintf("%s%d", prefix, d.idCounter[prefix])
			if _, taken := d.IDs[id]; !taken {
				break
			}
		}
	}
	d.IDs[id] = node
	node.AppendToList("ids", id)
	return id
}

// SetNameIDMap registers the node's names against the id, resolving
// collisions between explicit and implicit targets.
func (d *Document) SetNameIDMap(node *Element, id string, msgnode *Element, explicit bool) {
	for _, name := range node.Names() {
		if _, known := d.NameIDs[name]; known {
			d.setDuplicateNameID(node, id, name, msgnode, explicit)
		} else {
			d.NameIDs[name] = id
			d.NameTypes[name] = explicit
		}
	}
}

// setDuplicateNameID applies the duplicate-name rules: explicit beats
// implicit, two explicits invalidate the name unless they are external
// targets with identical refuris, two implicits invalidate the name.
// An empty id in NameIDs marks an already-invalidated name.
func (d *Document) setDuplicateNameID(node *Element, id, name string, msgnode *Element, explicit bool) {
	oldID := d.NameIDs[name]
	oldExplicit := d.NameTypes[name]
	d.NameTypes[name] = oldExplicit || explicit
	if explicit {
		if oldExplicit {
			level := LevelWarning
			if oldID != "" {
				oldNode := d.IDs[oldID]
				if node.Has("refuri") && oldNode != nil &&
					len(oldNode.Names()) > 0 && oldNode.Has("refuri") &&
					oldNode.GetString("refuri") == node.GetString("refuri") {
					level = LevelInfo // identical external targets, keep the old one
				}
				if level > LevelInfo {
					d.dupname(oldNode, name)
					d.NameIDs[name] = ""
				}
			}
			msg := d.report(level,
				fmt.Sprintf("Duplicate explicit target name: %q.", name),
				WithBaseNode(node), WithBackrefs(id))
			if msgnode != nil {
				msgnode.Append(msg)
			}
			d.dupname(node, name)
		} else {
			// explicit supersedes implicit
			d.NameIDs[name] = id
			d.dupname(d.IDs[oldID], name)
		}
	} else {
		if oldID != "" && !oldExplicit {
			d.NameIDs[name] = ""
			d.dupname(d.IDs[oldID], name)
		}
		d.dupname(node, name)
	}
	if !explicit || (!oldExplicit && oldID != "") {
		msg := d.report(LevelInfo,
			fmt.Sprintf("Duplicate implicit target name: %q.", name),
			WithBaseNode(node), WithBackrefs(id))
		if msgnode != nil {
			msgnode.Append(msg)
		}
	}
}

// dupname moves a name to the node's dupnames. The node still counts
// as referenced so unreferenced-target checks stay quiet.
func (d *Document) dupname(node *Element, name string) {
	if node == nil {
		return
	}
	node.AppendToList("dupnames", name)
	node.removeFromList("names", name)
	node.Referenced = true
}

// HasName reports whether a name is registered (even if ambiguous).
func (d *Document) HasName(name string) bool {
	_, ok := d.NameIDs[name]
	return ok
}

// NoteImplicitTarget registers a target created by structure (for
// example a section title).
func (d *Document) NoteImplicitTarget(target, msgnode *Element) {
	id := d.SetID(target, msgnode)
	d.SetNameIDMap(target, id, msgnode, false)
}

// NoteExplicitTarget registers a target named by the author.
func (d *Document) NoteExplicitTarget(target, msgnode *Element) {
	id := d.SetID(target, msgnode)
	d.SetNameIDMap(target, id, msgnode, true)
}

// NoteRefname indexes a reference by its target name.
func (d *Document) NoteRefname(node *Element) {
	name := node.GetString("refname")
	d.RefNames[name] = append(d.RefNames[name], node)
}

// NoteRefID indexes a reference by its target id.
func (d *Document) NoteRefID(node *Element) {
	id := node.GetString("refid")
	d.RefIDs[id] = append(d.RefIDs[id], node)
}

// NoteIndirectTarget records a target that refers to another target.
func (d *Document) NoteIndirectTarget(target *Element) {
	d.IndirectTargets = append(d.IndirectTargets, target)
	if len(target.Names()) > 0 {
		d.NoteRefname(target)
	}
}

// NoteAnonymousTarget assigns an id to an unnamed target.
func (d *Document) NoteAnonymousTarget(target *Element) {
	d.SetID(target, nil)
}

// NoteAutofootnote registers an automatically numbered footnote.
func (d *Document) NoteAutofootnote(fn *Element) {
	d.SetID(fn, nil)
	d.Autofootnotes = append(d.Autofootnotes, fn)
}

// NoteAutofootnoteRef registers a reference to an automatically
// numbered footnote.
func (d *Document) NoteAutofootnoteRef(ref *Element) {
	d.SetID(ref, nil)
	d.AutofootnoteRefs = append(d.AutofootnoteRefs, ref)
}

// NoteSymbolFootnote registers a symbol footnote.
func (d *Document) NoteSymbolFootnote(fn *Element) {
	d.SetID(fn, nil)
	d.SymbolFootnotes = append(d.SymbolFootnotes, fn)
}

// NoteSymbolFootnoteRef registers a reference to a symbol footnote.
func (d *Document) NoteSymbolFootnoteRef(ref *Element) {
	d.SetID(ref, nil)
	d.SymbolFootnoteRefs = append(d.SymbolFootnoteRefs, ref)
}

// NoteFootnote registers a manually labelled footnote.
func (d *Document) NoteFootnote(fn *Element) {
	d.SetID(fn, nil)
	d.Footnotes = append(d.Footnotes, fn)
}

// NoteFootnoteRef registers a reference to a labelled footnote.
func (d *Document) NoteFootnoteRef(ref *Element) {
	d.SetID(ref, nil)
	name := ref.GetString("refname")
	d.FootnoteRefs[name] = append(d.FootnoteRefs[name], ref)
	d.NoteRefname(ref)
}

// NoteCitation registers a citation. Citations get their ids when the
// references are resolved, not here.
func (d *Document) NoteCitation(cit *Element) {
	d.Citations = append(d.Citations, cit)
}

// NoteCitationRef registers a reference to a citation.
func (d *Document) NoteCitationRef(ref *Element) {
	d.SetID(ref, nil)
	name := ref.GetString("refname")
	d.CitationRefs[name] = append(d.CitationRefs[name], ref)
	d.NoteRefname(ref)
}

// NoteSubstitutionDef registers a substitution definition under its
// whitespace-normalized name. A redefinition replaces the old one with
// an error message.
func (d *Document) NoteSubstitutionDef(subdef *Element, defName string, msgnode *Element) {
	name := WhitespaceNormalizeName(defName)
	if old, ok := d.SubstitutionDefs[name]; ok {
		msg := d.report(LevelError,
			fmt.Sprintf("Duplicate substitution definition name: %q.", name),
			WithBaseNode(subdef))
		if msgnode != nil {
			msgnode.Append(msg)
		}
		d.dupname(old, name)
	}
	// last definition wins
	d.SubstitutionDefs[name] = subdef
	d.SubstitutionNames[FullyNormalizeName(name)] = name
}

// NoteSubstitutionRef records the normalized name on a substitution
// reference.
func (d *Document) NoteSubstitutionRef(ref *Element, refname string) {
	ref.Set("refname", WhitespaceNormalizeName(refname))
}

// NotePending queues the pending node's transform with the scheduler.
// Priority 0 defers to the transform's own priority.
func (d *Document) NotePending(p *Pending, priority int) {
	if d.Transformer != nil {
		d.Transformer.AddPending(p, priority)
	}
}

// NoteParseMessage collects a message produced while building the tree.
func (d *Document) NoteParseMessage(msg *Element) {
	d.ParseMessages = append(d.ParseMessages, msg)
}

// NoteTransformMessage collects a message produced by a transform.
func (d *Document) NoteTransformMessage(msg *Element) {
	d.TransformMessages = append(d.TransformMessages, msg)
}

// NoteSource records the ingest position. Offset is the zero-based
// line offset within the source; pass a negative offset when the line
// is unknown.
func (d *Document) NoteSource(source string, offset int) {
	d.CurrentSource = source
	if offset < 0 {
		d.CurrentLine = 0
	} else {
		d.CurrentLine = offset + 1
	}
}

// GetDecoration returns the document's decoration element, creating
// and placing it after any title material when absent.
func (d *Document) GetDecoration() *Element {
	if i := d.FirstChildMatching(Class{Kinds: []Kind{KindDecoration}}); i >= 0 {
		return AsElement(d.children[i])
	}
	dec := NewElement(KindDecoration)
	i := d.FirstChildNotMatching(Class{Categories: Titular, Kinds: []Kind{KindMeta}})
	if i < 0 {
		d.Append(dec)
	} else {
		d.Insert(i, dec)
	}
	return dec
}

// GetHeader returns the decoration's header, creating it first.
func (d *Document) GetHeader() *Element {
	dec := d.GetDecoration()
	if len(dec.children) > 0 && dec.children[0].Kind() == KindHeader {
		return AsElement(dec.children[0])
	}
	header := NewElement(KindHeader)
	dec.Insert(0, header)
	return header
}

// GetFooter returns the decoration's footer, creating it first.
func (d *Document) GetFooter() *Element {
	dec := d.GetDecoration()
	if n := len(dec.children); n > 0 && dec.children[n-1].Kind() == KindFooter {
		return AsElement(dec.children[n-1])
	}
	footer := NewElement(KindFooter)
	dec.Append(footer)
	return footer
}

// Copy returns an empty document sharing settings and reporter, with
// the attributes duplicated.
func (d *Document) Copy() Node {
	dup := NewDocument(d.Settings, d.Reporter)
	dup.Element.attributes = copyAttributes(d.Element.attributes)
	dup.Element.source = d.Element.source
	dup.Element.line = d.Element.line
	return dup
}

// DeepCopy copies the document and its whole subtree. The identity
// indices are not rebuilt; re-register nodes as needed.
func (d *Document) DeepCopy() Node {
	dup := d.Copy().(*Document)
	for _, child := range d.children {
		dup.Append(child.DeepCopy())
	}
	return dup
}

func (d *Document) AsText() string    { return d.Element.AsText() }
func (d *Document) ShortRepr() string { return d.Element.ShortRepr() }
