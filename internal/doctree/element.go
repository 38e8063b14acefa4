package doctree

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Element is a node with typed attributes and ordered children.
// Specialized elements (Document, Pending) embed it.
//
// Attribute values are strings, ints, bools, or []string list
// attributes. The universal attributes "ids", "classes", "names", and
// "dupnames" are initialized to empty lists on construction (plus
// "backrefs" for back-linkable kinds).
type Element struct {
	kind       Kind
	rawsource  string
	parent     *Element
	owner      *Document
	source     string
	line       int
	children   []Node
	attributes map[string]any

	// Referenced is set once the element has been referenced by name
	// or id, or once one of its names was invalidated by a duplicate.
	Referenced bool
}

// NewElement returns a detached element of the given kind, adopting any
// children passed.
func NewElement(kind Kind, children ...Node) *Element {
	e := &Element{kind: kind}
	e.initAttributes()
	e.Extend(children...)
	return e
}

// NewTextElement returns an element of a text-container kind with the
// raw text as its single Text child (omitted when empty).
func NewTextElement(kind Kind, text string, children ...Node) *Element {
	e := &Element{kind: kind, rawsource: text}
	e.initAttributes()
	if text != "" {
		e.Append(NewText(text))
	}
	e.Extend(children...)
	return e
}

func (e *Element) initAttributes() {
	e.attributes = make(map[string]any)
	for _, att := range listAttributesFor(e.kind) {
		e.attributes[att] = []string{}
	}
}

func (e *Element) Kind() Kind       { return e.kind }
func (e *Element) Parent() *Element { return e.parent }

// RawSource returns the raw text this element was constructed from,
// for diagnostics only.
func (e *Element) RawSource() string     { return e.rawsource }
func (e *Element) SetRawSource(s string) { e.rawsource = s }

func (e *Element) Document() *Document {
	if e.owner != nil {
		return e.owner
	}
	if e.parent != nil {
		return e.parent.Document()
	}
	return nil
}

func (e *Element) Source() string     { return e.source }
func (e *Element) SetSource(s string) { e.source = s }
func (e *Element) Line() int          { return e.line }
func (e *Element) SetLine(l int)      { e.line = l }

func (e *Element) Children() []Node { return e.children }
func (e *Element) Len() int         { return len(e.children) }

// Child returns the i-th child or nil when out of range.
func (e *Element) Child(i int) Node {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

func (e *Element) setParent(p *Element) { e.parent = p }
func (e *Element) setOwner(d *Document) { e.owner = d }
func (e *Element) element() *Element    { return e }

// setupChild is the single adoption path used by every insertion: it
// reparents the child and, when the element belongs to a document,
// propagates the owner and backfills unset provenance.
func (e *Element) setupChild(child Node) {
	child.setParent(e)
	if doc := e.Document(); doc != nil {
		child.setOwner(doc)
		if child.Source() == "" {
			child.SetSource(doc.CurrentSource)
		}
		if child.Line() == 0 {
			child.SetLine(doc.CurrentLine)
		}
	}
}

// Append adds a child at the end, adopting it. A child that already
// has a parent is reparented (but not removed from the old parent's
// child list; callers move nodes via Remove+Append or Replace).
func (e *Element) Append(child Node) {
	e.setupChild(child)
	e.children = append(e.children, child)
}

// Extend appends each node in order.
func (e *Element) Extend(children ...Node) {
	for _, child := range children {
		e.Append(child)
	}
}

// Insert adds a child at index i.
func (e *Element) Insert(i int, child Node) {
	e.setupChild(child)
	e.children = slices.Insert(e.children, i, child)
}

// InsertAll adds multiple children at index i, keeping their order.
func (e *Element) InsertAll(i int, children ...Node) {
	for _, child := range children {
		e.setupChild(child)
	}
	e.children = slices.Insert(e.children, i, children...)
}

// SetChild replaces the child at index i.
func (e *Element) SetChild(i int, child Node) {
	e.setupChild(child)
	e.children[i] = child
}

// Pop removes and returns the last child.
func (e *Element) Pop() Node {
	n := e.children[len(e.children)-1]
	e.children = e.children[:len(e.children)-1]
	return n
}

// RemoveChild removes the child at index i.
func (e *Element) RemoveChild(i int) {
	e.children = slices.Delete(e.children, i, i+1)
}

// Remove removes the first occurrence of the child (compared by node
// identity). Removing an absent child is a no-op.
func (e *Element) Remove(child Node) {
	if i := e.Index(child); i >= 0 {
		e.RemoveChild(i)
	}
}

// Clear removes all children.
func (e *Element) Clear() { e.children = nil }

// Index returns the position of the child, or -1. Children are
// compared by node identity, never by value.
func (e *Element) Index(child Node) int {
	for i, c := range e.children {
		if sameNode(c, child) {
			return i
		}
	}
	return -1
}

// Replace substitutes one child with zero or more nodes.
func (e *Element) Replace(old Node, new ...Node) {
	i := e.Index(old)
	if i < 0 {
		return
	}
	for _, n := range new {
		e.setupChild(n)
	}
	e.children = slices.Concat(e.children[:i], new, e.children[i+1:])
}

// ReplaceSelf substitutes this element in its parent with the given
// nodes. The basic attributes (ids, names, classes, dupnames) are
// carried over to the first replacement when it is an element.
func (e *Element) ReplaceSelf(new ...Node) {
	if len(new) > 0 {
		if first := AsElement(new[0]); first != nil {
			first.UpdateBasicAtts(e)
		}
	}
	if e.parent != nil {
		e.parent.Replace(e, new...)
	}
}

// PreviousSibling returns the preceding sibling node or nil.
func (e *Element) PreviousSibling() Node {
	if e.parent == nil {
		return nil
	}
	i := e.parent.Index(e)
	if i <= 0 {
		return nil
	}
	return e.parent.children[i-1]
}

// NextSibling returns the following sibling node or nil.
func (e *Element) NextSibling() Node {
	if e.parent == nil {
		return nil
	}
	i := e.parent.Index(e)
	if i < 0 || i+1 >= len(e.parent.children) {
		return nil
	}
	return e.parent.children[i+1]
}

// FirstChildMatching returns the index of the first child the class
// matches, or -1.
func (e *Element) FirstChildMatching(c Class) int {
	for i, child := range e.children {
		if c.Matches(child) {
			return i
		}
	}
	return -1
}

// FirstChildNotMatching returns the index of the first child the class
// does not match, or -1.
func (e *Element) FirstChildNotMatching(c Class) int {
	for i, child := range e.children {
		if !c.Matches(child) {
			return i
		}
	}
	return -1
}

// Attribute access

// Get returns the attribute value or nil.
func (e *Element) Get(key string) any { return e.attributes[key] }

// GetString returns a string attribute, or "" when absent or not a
// string.
func (e *Element) GetString(key string) string {
	s, _ := e.attributes[key].(string)
	return s
}

// GetInt returns an int attribute, or 0.
func (e *Element) GetInt(key string) int {
	n, _ := e.attributes[key].(int)
	return n
}

// GetBool returns a bool attribute, or false.
func (e *Element) GetBool(key string) bool {
	b, _ := e.attributes[key].(bool)
	return b
}

// StringList returns a list attribute, or nil.
func (e *Element) StringList(key string) []string {
	l, _ := e.attributes[key].([]string)
	return l
}

// Set stores an attribute value. List values are copied.
func (e *Element) Set(key string, value any) {
	e.attributes[key] = copyAttrValue(value)
}

// Has reports whether the attribute is present.
func (e *Element) Has(key string) bool {
	_, ok := e.attributes[key]
	return ok
}

// Del removes an attribute.
func (e *Element) Del(key string) { delete(e.attributes, key) }

// Attributes exposes the live attribute map.
func (e *Element) Attributes() map[string]any { return e.attributes }

// IDs, Names, DupNames, and Classes return the universal list
// attributes.
func (e *Element) IDs() []string      { return e.StringList("ids") }
func (e *Element) Names() []string    { return e.StringList("names") }
func (e *Element) DupNames() []string { return e.StringList("dupnames") }
func (e *Element) Classes() []string  { return e.StringList("classes") }

// AppendToList appends a value to a list attribute, creating the list
// when needed.
func (e *Element) AppendToList(key, value string) {
	e.attributes[key] = append(e.StringList(key), value)
}

// removeFromList removes the first occurrence of value from a list
// attribute.
func (e *Element) removeFromList(key, value string) {
	list := e.StringList(key)
	if i := slices.Index(list, value); i >= 0 {
		e.attributes[key] = slices.Delete(list, i, i+1)
	}
}

// IsNotDefault reports whether the attribute differs from its default
// (empty list attributes are defaults).
func (e *Element) IsNotDefault(key string) bool {
	v, ok := e.attributes[key]
	if !ok {
		return false
	}
	if list, isList := v.([]string); isList && len(list) == 0 &&
		slices.Contains(listAttributesFor(e.kind), key) {
		return false
	}
	return true
}

// UpdateBasicAtts merges the basic attributes (ids, names, classes,
// dupnames, but not source) from another element.
func (e *Element) UpdateBasicAtts(src *Element) {
	for _, att := range listAttributesFor(e.kind) {
		if att == "backrefs" {
			continue
		}
		e.AppendAttrList(att, src.StringList(att))
	}
}

// AppendAttrList appends each value not already present to a list
// attribute.
func (e *Element) AppendAttrList(key string, values []string) {
	list := e.StringList(key)
	for _, v := range values {
		if !slices.Contains(list, v) {
			list = append(list, v)
		}
	}
	e.attributes[key] = list
}

// CoerceAppendAttrList converts both the existing value and the new
// value to lists before appending.
func (e *Element) CoerceAppendAttrList(key string, value any) {
	existing := e.StringList(key)
	if existing == nil {
		if s, ok := e.attributes[key].(string); ok {
			existing = []string{s}
		}
	}
	e.attributes[key] = existing
	switch v := value.(type) {
	case []string:
		e.AppendAttrList(key, v)
	case string:
		e.AppendAttrList(key, []string{v})
	}
}

// ReplaceAttr sets the attribute when force is true or the attribute
// is unset.
func (e *Element) ReplaceAttr(key string, value any, force bool) {
	if force || e.attributes[key] == nil {
		e.Set(key, value)
	}
}

// UpdateAllAtts merges all attributes from src: basic attributes are
// appended, other attributes replace the local value when replace is
// true (otherwise existing values are kept). The source attribute is
// copied only when copySource is set.
func (e *Element) UpdateAllAtts(src *Element, replace, copySource bool) {
	e.UpdateBasicAtts(src)
	for key, value := range src.attributes {
		if slices.Contains(baseListAttributes, key) || key == "backrefs" {
			continue
		}
		if key == "source" && !copySource {
			continue
		}
		e.ReplaceAttr(key, value, replace)
	}
}

// Text content and export

// AsText joins the children's text with the kind's child separator.
func (e *Element) AsText() string {
	switch e.kind {
	case KindSystemMessage:
		return fmt.Sprintf("%s:%v: (%s/%d) %s", e.GetString("source"),
			e.Get("line"), e.GetString("type"), e.GetInt("level"),
			e.joinChildText())
	case KindImage:
		return e.GetString("alt")
	case KindOptionArgument:
		delim := e.GetString("delimiter")
		if delim == "" {
			delim = " "
		}
		return delim + e.joinChildText()
	}
	return e.joinChildText()
}

func (e *Element) joinChildText() string {
	parts := make([]string, len(e.children))
	for i, child := range e.children {
		parts[i] = child.AsText()
	}
	return strings.Join(parts, Spec(e.kind).ChildSep)
}

// NonDefaultAttributes returns the attributes that differ from their
// defaults.
func (e *Element) NonDefaultAttributes() map[string]any {
	atts := make(map[string]any)
	for key, value := range e.attributes {
		if e.IsNotDefault(key) {
			atts[key] = value
		}
	}
	return atts
}

// AttList returns the non-default attributes sorted by name.
func (e *Element) AttList() [][2]string {
	atts := e.NonDefaultAttributes()
	names := make([]string, 0, len(atts))
	for name := range atts {
		names = append(names, name)
	}
	sort.Strings(names)
	list := make([][2]string, len(names))
	for i, name := range names {
		list[i] = [2]string{name, attrValueString(atts[name])}
	}
	return list
}

func attrValueString(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return "1"
		}
		return "0"
	case []string:
		escaped := make([]string, len(v))
		for i, s := range v {
			escaped[i] = SerialEscape(s)
		}
		return strings.Join(escaped, " ")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// StartTag renders the element's opening tag in generic markup.
func (e *Element) StartTag() string {
	parts := []string{string(e.kind)}
	for _, att := range e.AttList() {
		parts = append(parts, att[0]+"="+PseudoQuoteAttr(att[1]))
	}
	return "<" + strings.Join(parts, " ") + ">"
}

// EndTag renders the closing tag.
func (e *Element) EndTag() string { return "</" + string(e.kind) + ">" }

// EmptyTag renders a self-closing tag.
func (e *Element) EmptyTag() string {
	parts := []string{string(e.kind)}
	for _, att := range e.AttList() {
		parts = append(parts, att[0]+"="+PseudoQuoteAttr(att[1]))
	}
	return "<" + strings.Join(parts, " ") + "/>"
}

func (e *Element) ShortRepr() string {
	if names := e.Names(); len(names) > 0 {
		return fmt.Sprintf("<%s %q...>", e.kind, strings.Join(names, "; "))
	}
	return fmt.Sprintf("<%s...>", e.kind)
}

func (e *Element) String() string {
	if len(e.children) == 0 {
		return e.EmptyTag()
	}
	var b strings.Builder
	b.WriteString(e.StartTag())
	for _, child := range e.children {
		if el := AsElement(child); el != nil {
			b.WriteString(el.String())
		} else {
			b.WriteString(child.AsText())
		}
	}
	b.WriteString(e.EndTag())
	return b.String()
}

// PFormat renders the subtree as indented pseudo-XML.
func (e *Element) PFormat(indent string, level int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(indent, level))
	b.WriteString(e.StartTag())
	b.WriteByte('\n')
	for _, child := range e.children {
		b.WriteString(child.PFormat(indent, level+1))
	}
	return b.String()
}

// GetLanguageCode returns the node's language tag: the remainder of
// the first "language-" class value found on the element or its
// ancestors, or the fallback.
func (e *Element) GetLanguageCode(fallback string) string {
	for _, class := range e.Classes() {
		if lang, ok := strings.CutPrefix(class, "language-"); ok {
			return lang
		}
	}
	if e.parent != nil {
		return e.parent.GetLanguageCode(fallback)
	}
	return fallback
}

// Copy returns a shallow copy: same kind and attributes, no children,
// no parent.
func (e *Element) Copy() Node {
	dup := &Element{
		kind:      e.kind,
		rawsource: e.rawsource,
		owner:     e.owner,
		source:    e.source,
		line:      e.line,
	}
	dup.attributes = copyAttributes(e.attributes)
	return dup
}

// DeepCopy returns a copy including deep copies of all children.
func (e *Element) DeepCopy() Node {
	dup := e.Copy().(*Element)
	for _, child := range e.children {
		dup.Append(child.DeepCopy())
	}
	return dup
}

func copyAttributes(atts map[string]any) map[string]any {
	dup := make(map[string]any, len(atts))
	for key, value := range atts {
		dup[key] = copyAttrValue(value)
	}
	return dup
}

func copyAttrValue(value any) any {
	if list, ok := value.([]string); ok {
		return slices.Clone(list)
	}
	return value
}
