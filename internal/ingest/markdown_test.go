package ingest

import (
	"strings"
	"testing"

	"github.com/dgallion1/doctree/internal/doctree"
)

func produceMarkdown(t *testing.T, input string) *doctree.Document {
	t.Helper()
	doc := doctree.NewDocument(doctree.DefaultSettings(), nil)
	p := &MarkdownProducer{}
	if err := p.Produce(strings.NewReader(input), "doc.md", doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func sectionTitle(t *testing.T, n doctree.Node) string {
	t.Helper()
	el := doctree.AsElement(n)
	if el == nil || el.Len() == 0 || el.Child(0).Kind() != doctree.KindTitle {
		t.Fatalf("expected section with title, got %v", n)
	}
	return el.Child(0).AsText()
}

func TestMarkdownHeadingHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	doc := produceMarkdown(t, input)

	if doc.Len() != 1 {
		t.Fatalf("expected 1 top-level section (h1), got %d", doc.Len())
	}
	h1 := doctree.AsElement(doc.Child(0))
	if got := sectionTitle(t, h1); got != "Title" {
		t.Errorf("expected h1 title %q, got %q", "Title", got)
	}

	// title, intro paragraph, Section A, Section B
	if h1.Len() != 4 {
		t.Fatalf("expected 4 children under h1, got %d", h1.Len())
	}
	if h1.Child(1).Kind() != doctree.KindParagraph ||
		!strings.Contains(h1.Child(1).AsText(), "Intro text.") {
		t.Errorf("expected intro paragraph, got %q", h1.Child(1).AsText())
	}

	secA := doctree.AsElement(h1.Child(2))
	if got := sectionTitle(t, secA); got != "Section A" {
		t.Errorf("expected %q, got %q", "Section A", got)
	}
	sub := doctree.AsElement(secA.Child(2))
	if got := sectionTitle(t, sub); got != "Subsection A1" {
		t.Errorf("expected %q, got %q", "Subsection A1", got)
	}
	if got := sectionTitle(t, h1.Child(3)); got != "Section B" {
		t.Errorf("expected %q, got %q", "Section B", got)
	}
}

func TestMarkdownRegistersSectionNames(t *testing.T) {
	doc := produceMarkdown(t, "# My Heading\n\ntext\n")
	id, ok := doc.NameIDs["my heading"]
	if !ok || id != "my-heading" {
		t.Errorf("expected section name registered, got %q (present=%v)", id, ok)
	}
	section := doc.IDs[id]
	if section == nil || section.Kind() != doctree.KindSection {
		t.Errorf("expected id to resolve to the section")
	}
}

func TestMarkdownNoHeadings(t *testing.T) {
	doc := produceMarkdown(t, "Just some plain text.\n\nAnother paragraph here.")
	if doc.Len() != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", doc.Len())
	}
	for i := 0; i < doc.Len(); i++ {
		if doc.Child(i).Kind() != doctree.KindParagraph {
			t.Errorf("child %d: expected paragraph, got %s", i, doc.Child(i).Kind())
		}
	}
}

func TestMarkdownCodeBlock(t *testing.T) {
	input := "# API\n\n```go\nGET /api/users\n```\n"
	doc := produceMarkdown(t, input)

	blocks := doctree.FindAll(doc, doctree.FindOptions{
		Class: &doctree.Class{Kinds: []doctree.Kind{doctree.KindLiteralBlock}},
		Self:  true, Descend: true,
	})
	if len(blocks) != 1 {
		t.Fatalf("expected 1 literal block, got %d", len(blocks))
	}
	block := doctree.AsElement(blocks[0])
	if got := block.AsText(); got != "GET /api/users" {
		t.Errorf("literal block text = %q", got)
	}
	if got := block.GetString("xml:space"); got != "preserve" {
		t.Errorf("expected xml:space preserve, got %q", got)
	}
	if classes := block.Classes(); len(classes) != 1 || classes[0] != "language-go" {
		t.Errorf("expected language class, got %v", classes)
	}
}

func TestMarkdownInlineMarkup(t *testing.T) {
	doc := produceMarkdown(t, "Some *em* and **strong** and `code` and [link](https://example.com).\n")
	para := doctree.AsElement(doc.Child(0))
	if para == nil || para.Kind() != doctree.KindParagraph {
		t.Fatalf("expected paragraph, got %v", doc.Child(0))
	}

	find := func(k doctree.Kind) *doctree.Element {
		n := doctree.First(para, doctree.FindOptions{
			Class: &doctree.Class{Kinds: []doctree.Kind{k}}, Self: false, Descend: true,
		})
		if n == nil {
			t.Fatalf("missing %s in paragraph", k)
		}
		return doctree.AsElement(n)
	}

	if got := find(doctree.KindEmphasis).AsText(); got != "em" {
		t.Errorf("emphasis = %q", got)
	}
	if got := find(doctree.KindStrong).AsText(); got != "strong" {
		t.Errorf("strong = %q", got)
	}
	if got := find(doctree.KindLiteral).AsText(); got != "code" {
		t.Errorf("literal = %q", got)
	}
	ref := find(doctree.KindReference)
	if ref.AsText() != "link" || ref.GetString("refuri") != "https://example.com" {
		t.Errorf("reference = %q (%q)", ref.AsText(), ref.GetString("refuri"))
	}
}

func TestMarkdownLists(t *testing.T) {
	doc := produceMarkdown(t, "- one\n- two\n\n1. first\n2. second\n")

	bullets := doctree.FindAll(doc, doctree.FindOptions{
		Class: &doctree.Class{Kinds: []doctree.Kind{doctree.KindBulletList}},
		Self:  true, Descend: true,
	})
	if len(bullets) != 1 {
		t.Fatalf("expected 1 bullet list, got %d", len(bullets))
	}
	if got := doctree.AsElement(bullets[0]).Len(); got != 2 {
		t.Errorf("expected 2 bullet items, got %d", got)
	}

	enums := doctree.FindAll(doc, doctree.FindOptions{
		Class: &doctree.Class{Kinds: []doctree.Kind{doctree.KindEnumeratedList}},
		Self:  true, Descend: true,
	})
	if len(enums) != 1 {
		t.Fatalf("expected 1 enumerated list, got %d", len(enums))
	}
	enum := doctree.AsElement(enums[0])
	if got := enum.GetString("enumtype"); got != "arabic" {
		t.Errorf("expected arabic enumtype, got %q", got)
	}
}

func TestMarkdownInlineRawHTML(t *testing.T) {
	doc := produceMarkdown(t, "before <sup>1</sup> after\n")
	para := doctree.AsElement(doc.Child(0))
	if para == nil || para.Kind() != doctree.KindParagraph {
		t.Fatalf("expected paragraph, got %v", doc.Child(0))
	}
	raws := doctree.FindAll(para, doctree.FindOptions{
		Class: &doctree.Class{Kinds: []doctree.Kind{doctree.KindRaw}},
		Self:  false, Descend: true,
	})
	if len(raws) != 2 {
		t.Fatalf("expected opening and closing tag as raw nodes, got %d", len(raws))
	}
	if got := doctree.AsElement(raws[0]).AsText(); got != "<sup>" {
		t.Errorf("first raw node = %q", got)
	}
	if got := doctree.AsElement(raws[0]).GetString("format"); got != "html" {
		t.Errorf("expected html format, got %q", got)
	}
}

func TestMarkdownThematicBreak(t *testing.T) {
	doc := produceMarkdown(t, "before\n\n---\n\nafter\n")
	if got := countKind(doc, doctree.KindTransition); got != 1 {
		t.Errorf("expected 1 transition, got %d", got)
	}
}

func TestMarkdownEmptyInput(t *testing.T) {
	doc := produceMarkdown(t, "")
	if doc.Len() != 0 {
		t.Errorf("expected 0 children for empty input, got %d", doc.Len())
	}
}

func countKind(doc *doctree.Document, k doctree.Kind) int {
	return len(doctree.FindAll(doc, doctree.FindOptions{
		Class: &doctree.Class{Kinds: []doctree.Kind{k}}, Self: true, Descend: true,
	}))
}
