package doctree

import (
	"strings"
	"testing"
)

// recordingReporter collects messages without logging.
type recordingReporter struct {
	messages []*Element
	level    MessageLevel
}

func (r *recordingReporter) Report(level MessageLevel, message string, opts ...MessageOption) *Element {
	msg := NewSystemMessage(level, message, opts...)
	r.messages = append(r.messages, msg)
	return msg
}

func (r *recordingReporter) Threshold() MessageLevel { return r.level }

func newTestDocument() (*Document, *recordingReporter) {
	rep := &recordingReporter{level: LevelWarning}
	return NewDocument(DefaultSettings(), rep), rep
}

func namedTarget(names ...string) *Element {
	target := NewElement(KindTarget)
	target.Set("names", names)
	return target
}

func TestSetIDFromName(t *testing.T) {
	doc, _ := newTestDocument()
	target := namedTarget("My Target")
	id := doc.SetID(target, nil)

	if id != "my-target" {
		t.Errorf("expected id %q, got %q", "my-target", id)
	}
	if doc.IDs[id] != target {
		t.Errorf("expected id registered to target")
	}
	if ids := target.IDs(); len(ids) != 1 || ids[0] != id {
		t.Errorf("expected ids attribute %q, got %v", id, ids)
	}
}

func TestSetIDAutoGenerated(t *testing.T) {
	doc, _ := newTestDocument()
	s1 := NewElement(KindSection)
	s2 := NewElement(KindSection)

	if id := doc.SetID(s1, nil); id != "section-1" {
		t.Errorf("expected %q, got %q", "section-1", id)
	}
	if id := doc.SetID(s2, nil); id != "section-2" {
		t.Errorf("expected %q, got %q", "section-2", id)
	}
}

func TestSetIDDisambiguatesTakenName(t *testing.T) {
	doc, _ := newTestDocument()
	doc.SetID(namedTarget("dup"), nil)
	id := doc.SetID(namedTarget("dup"), nil)
	if id != "dup-1" {
		t.Errorf("expected %q, got %q", "dup-1", id)
	}
}

func TestSetIDWithPrefix(t *testing.T) {
	doc, _ := newTestDocument()
	doc.Settings.IDPrefix = "doc-"
	target := namedTarget("2nd try")
	if id := doc.SetID(target, nil); id != "doc-2nd-try" {
		t.Errorf("expected prefixed id keeping leading digit, got %q", id)
	}
}

func TestSetIDDuplicateExplicitID(t *testing.T) {
	doc, rep := newTestDocument()
	t1 := NewElement(KindTarget)
	t1.Set("ids", []string{"fixed"})
	doc.SetID(t1, nil)

	t2 := NewElement(KindTarget)
	t2.Set("ids", []string{"fixed"})
	msgnode := NewElement(KindSection)
	doc.SetID(t2, msgnode)

	if doc.IDs["fixed"] != t1 {
		t.Errorf("first registration must win")
	}
	if len(rep.messages) != 1 || rep.messages[0].GetInt("level") != int(LevelSevere) {
		t.Fatalf("expected one severe message, got %v", rep.messages)
	}
	if msgnode.Len() != 1 {
		t.Errorf("expected message attached to msgnode")
	}
}

func TestDuplicateImplicitNames(t *testing.T) {
	doc, rep := newTestDocument()
	s1 := namedTarget("intro")
	s1.kind = KindSection
	s2 := namedTarget("intro")
	s2.kind = KindSection

	doc.NoteImplicitTarget(s1, nil)
	doc.NoteImplicitTarget(s2, nil)

	if doc.NameIDs["intro"] != "" {
		t.Errorf("expected name invalidated, got %q", doc.NameIDs["intro"])
	}
	if len(s1.Names()) != 0 || len(s1.DupNames()) != 1 {
		t.Errorf("expected first target dupnamed: names=%v dupnames=%v", s1.Names(), s1.DupNames())
	}
	if len(s2.Names()) != 0 || len(s2.DupNames()) != 1 {
		t.Errorf("expected second target dupnamed")
	}
	var infos int
	for _, m := range rep.messages {
		if strings.Contains(m.AsText(), "Duplicate implicit target name") {
			infos++
		}
	}
	if infos != 1 {
		t.Errorf("expected one duplicate-implicit message, got %d", infos)
	}
}

func TestExplicitSupersedesImplicit(t *testing.T) {
	doc, _ := newTestDocument()
	section := namedTarget("overview")
	section.kind = KindSection
	doc.NoteImplicitTarget(section, nil)

	target := namedTarget("overview")
	doc.NoteExplicitTarget(target, nil)

	id := doc.NameIDs["overview"]
	if id == "" || doc.IDs[id] != target {
		t.Errorf("expected explicit target to own the name, got id %q", id)
	}
	if !doc.NameTypes["overview"] {
		t.Errorf("expected name marked explicit")
	}
	if len(section.DupNames()) != 1 {
		t.Errorf("expected implicit target dupnamed, got %v", section.DupNames())
	}
}

func TestDuplicateExplicitNames(t *testing.T) {
	doc, rep := newTestDocument()
	t1 := namedTarget("spot")
	t2 := namedTarget("spot")
	doc.NoteExplicitTarget(t1, nil)
	doc.NoteExplicitTarget(t2, nil)

	if doc.NameIDs["spot"] != "" {
		t.Errorf("expected ambiguous name, got %q", doc.NameIDs["spot"])
	}
	if len(t1.DupNames()) != 1 || len(t2.DupNames()) != 1 {
		t.Errorf("expected both targets dupnamed")
	}
	found := false
	for _, m := range rep.messages {
		if strings.Contains(m.AsText(), "Duplicate explicit target name") &&
			m.GetInt("level") == int(LevelWarning) {
			found = true
		}
	}
	if !found {
		t.Errorf("expected warning about duplicate explicit name")
	}
}

func TestDuplicateExternalTargetsSameRefuri(t *testing.T) {
	doc, rep := newTestDocument()
	t1 := namedTarget("docs")
	t1.Set("refuri", "https://example.com/docs")
	t2 := namedTarget("docs")
	t2.Set("refuri", "https://example.com/docs")

	doc.NoteExplicitTarget(t1, nil)
	doc.NoteExplicitTarget(t2, nil)

	// identical external targets: old stays valid, only an info is issued
	if id := doc.NameIDs["docs"]; id == "" || doc.IDs[id] != t1 {
		t.Errorf("expected first target to keep the name, got id %q", id)
	}
	if len(t1.Names()) != 1 {
		t.Errorf("expected first target to keep its name, got %v", t1.Names())
	}
	if len(t2.DupNames()) != 1 {
		t.Errorf("expected second target dupnamed")
	}
	for _, m := range rep.messages {
		if m.GetInt("level") > int(LevelInfo) {
			t.Errorf("expected only info-level messages, got %s", m.AsText())
		}
	}
}

func TestNoteFootnotesAndRefs(t *testing.T) {
	doc, _ := newTestDocument()

	fn := NewElement(KindFootnote)
	fn.Set("names", []string{"note1"})
	doc.NoteFootnote(fn)
	if len(doc.Footnotes) != 1 || len(fn.IDs()) != 1 {
		t.Errorf("expected footnote registered with id")
	}

	ref := NewElement(KindFootnoteReference)
	ref.Set("refname", "note1")
	doc.NoteFootnoteRef(ref)
	if len(doc.FootnoteRefs["note1"]) != 1 {
		t.Errorf("expected footnote ref indexed by name")
	}
	if len(doc.RefNames["note1"]) != 1 {
		t.Errorf("expected footnote ref also in refnames")
	}

	auto := NewElement(KindFootnote)
	doc.NoteAutofootnote(auto)
	if len(doc.Autofootnotes) != 1 {
		t.Errorf("expected autofootnote registered")
	}

	cit := NewElement(KindCitation)
	doc.NoteCitation(cit)
	if len(doc.Citations) != 1 {
		t.Errorf("expected citation registered")
	}
	if len(cit.IDs()) != 0 {
		t.Errorf("citations must not get ids on registration")
	}
}

func TestNoteSubstitutionDef(t *testing.T) {
	doc, rep := newTestDocument()
	d1 := NewElement(KindSubstitutionDefinition)
	d1.Set("names", []string{"Version"})
	doc.NoteSubstitutionDef(d1, "Version", nil)

	if doc.SubstitutionDefs["Version"] != d1 {
		t.Fatalf("expected definition registered")
	}
	if doc.SubstitutionNames["version"] != "Version" {
		t.Errorf("expected normalized name mapping, got %v", doc.SubstitutionNames)
	}

	d2 := NewElement(KindSubstitutionDefinition)
	d2.Set("names", []string{"Version"})
	doc.NoteSubstitutionDef(d2, "Version", nil)

	if doc.SubstitutionDefs["Version"] != d2 {
		t.Errorf("expected last definition to win")
	}
	if len(d1.DupNames()) != 1 {
		t.Errorf("expected old definition dupnamed")
	}
	if len(rep.messages) != 1 || rep.messages[0].GetInt("level") != int(LevelError) {
		t.Errorf("expected one error message, got %v", rep.messages)
	}
}

func TestGetDecorationPlacement(t *testing.T) {
	doc, _ := newTestDocument()
	doc.Append(NewTextElement(KindTitle, "Doc Title"))
	doc.Append(NewTextElement(KindParagraph, "body"))

	dec := doc.GetDecoration()
	if doc.Child(1) == nil || doc.Child(1).Kind() != KindDecoration {
		t.Fatalf("expected decoration after title, children: %d", doc.Len())
	}
	if again := doc.GetDecoration(); again != dec {
		t.Errorf("expected decoration to be created once")
	}

	header := doc.GetHeader()
	footer := doc.GetFooter()
	if dec.Child(0).Kind() != KindHeader {
		t.Errorf("expected header first in decoration")
	}
	if dec.Child(dec.Len() - 1).Kind() != KindFooter {
		t.Errorf("expected footer last in decoration")
	}
	if doc.GetHeader() != header || doc.GetFooter() != footer {
		t.Errorf("expected header and footer to be reused")
	}
}

func TestNotePendingDelegates(t *testing.T) {
	doc, _ := newTestDocument()
	sched := &stubScheduler{}
	doc.Transformer = sched

	p := NewPending(stubTransform{prio: 500}, nil)
	doc.NotePending(p, 0)
	if len(sched.added) != 1 || sched.added[0] != p {
		t.Fatalf("expected pending forwarded to scheduler")
	}
}

type stubScheduler struct {
	added []*Pending
}

func (s *stubScheduler) AddPending(p *Pending, priority int) {
	s.added = append(s.added, p)
}

type stubTransform struct{ prio int }

func (s stubTransform) Priority() int                   { return s.prio }
func (s stubTransform) Apply(*Document, *Pending) error { return nil }

func TestDocumentCopySharesSettings(t *testing.T) {
	doc, rep := newTestDocument()
	doc.Set("source", "in.txt")
	doc.Append(NewTextElement(KindParagraph, "text"))

	dup := doc.Copy().(*Document)
	if dup.Reporter != Reporter(rep) {
		t.Errorf("expected reporter shared")
	}
	if dup.Len() != 0 {
		t.Errorf("copy must not carry children")
	}
	if dup.GetString("source") != "in.txt" {
		t.Errorf("expected attributes copied")
	}

	deep := doc.DeepCopy().(*Document)
	if deep.Len() != 1 || deep.AsText() != "text" {
		t.Errorf("deep copy must carry children")
	}
}
