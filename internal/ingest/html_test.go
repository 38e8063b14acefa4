package ingest

import (
	"strings"
	"testing"

	"github.com/dgallion1/doctree/internal/doctree"
)

func produceHTML(t *testing.T, input string) *doctree.Document {
	t.Helper()
	doc := doctree.NewDocument(doctree.DefaultSettings(), nil)
	p := &HTMLProducer{}
	if err := p.Produce(strings.NewReader(input), "page.html", doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func TestHTMLSectionsAndParagraphs(t *testing.T) {
	input := `<html><head><title>Page Title</title></head><body>
<h1>Main</h1>
<p>First paragraph.</p>
<h2>Detail</h2>
<p>Second paragraph.</p>
</body></html>`
	doc := produceHTML(t, input)

	if got := doc.GetString("title"); got != "Page Title" {
		t.Errorf("document title = %q", got)
	}
	if doc.Len() != 1 {
		t.Fatalf("expected 1 top section, got %d", doc.Len())
	}
	main := doctree.AsElement(doc.Child(0))
	if got := sectionTitle(t, main); got != "Main" {
		t.Errorf("expected section title Main, got %q", got)
	}
	if got := main.Child(1).AsText(); got != "First paragraph." {
		t.Errorf("expected first paragraph, got %q", got)
	}
	detail := doctree.AsElement(main.Child(2))
	if got := sectionTitle(t, detail); got != "Detail" {
		t.Errorf("expected nested section Detail, got %q", got)
	}
}

func TestHTMLSkipsChrome(t *testing.T) {
	input := `<body>
<nav><p>menu</p></nav>
<script>var x = 1;</script>
<p>content</p>
<footer><p>legal</p></footer>
</body>`
	doc := produceHTML(t, input)
	paras := doctree.FindAll(doc, doctree.FindOptions{
		Class: &doctree.Class{Kinds: []doctree.Kind{doctree.KindParagraph}},
		Self:  true, Descend: true,
	})
	if len(paras) != 1 || paras[0].AsText() != "content" {
		t.Errorf("expected only the content paragraph, got %v", len(paras))
	}
}

func TestHTMLPreservesPre(t *testing.T) {
	doc := produceHTML(t, "<body><pre>line one\n  indented</pre></body>")
	blocks := doctree.FindAll(doc, doctree.FindOptions{
		Class: &doctree.Class{Kinds: []doctree.Kind{doctree.KindLiteralBlock}},
		Self:  true, Descend: true,
	})
	if len(blocks) != 1 {
		t.Fatalf("expected 1 literal block, got %d", len(blocks))
	}
	if got := blocks[0].AsText(); got != "line one\n  indented" {
		t.Errorf("pre content = %q", got)
	}
}

func TestHTMLCustomElement(t *testing.T) {
	var warnings []string
	doc := doctree.NewDocument(doctree.DefaultSettings(), nil)
	doc.Reporter = reporterFunc(func(level doctree.MessageLevel, message string, opts ...doctree.MessageOption) *doctree.Element {
		warnings = append(warnings, message)
		return doctree.NewSystemMessage(level, message, opts...)
	})

	input := "<body><my-widget>inside</my-widget></body>"
	if err := (&HTMLProducer{}).Produce(strings.NewReader(input), "page.html", doc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Len() != 1 || doc.Child(0).Kind() != doctree.Kind("my-widget") {
		t.Fatalf("expected custom element kept, got %v", doc.Children())
	}
	if len(warnings) != 1 || !strings.Contains(warnings[0], "my-widget") {
		t.Errorf("expected one warning naming the element, got %v", warnings)
	}
}

// reporterFunc adapts a function to the Reporter interface.
type reporterFunc func(doctree.MessageLevel, string, ...doctree.MessageOption) *doctree.Element

func (f reporterFunc) Report(level doctree.MessageLevel, message string, opts ...doctree.MessageOption) *doctree.Element {
	return f(level, message, opts...)
}

func (f reporterFunc) Threshold() doctree.MessageLevel { return doctree.LevelWarning }
