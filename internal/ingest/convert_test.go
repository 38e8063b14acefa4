package ingest

import (
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/doctree/internal/doctree"
)

func TestConvertText(t *testing.T) {
	settings := doctree.DefaultSettings()
	result, err := Convert(strings.NewReader("hello\n\nworld\n"), "in.txt", settings, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Doc.Len() != 2 {
		t.Errorf("expected 2 paragraphs, got %d", result.Doc.Len())
	}
	if got := result.Doc.GetString("source"); got != "in.txt" {
		t.Errorf("expected source attribute, got %q", got)
	}
	if result.ValidationErr != nil {
		t.Errorf("expected a valid tree, got %v", result.ValidationErr)
	}
	if len(result.Messages) != 0 {
		t.Errorf("expected no messages, got %d", len(result.Messages))
	}
}

func TestConvertAppliesTransforms(t *testing.T) {
	settings := doctree.DefaultSettings()
	settings.SmartQuotes = true
	settings.Generator = true
	result, err := Convert(strings.NewReader(`a "quoted" word`), "in.txt", settings, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	para := doctree.First(result.Doc, doctree.FindOptions{
		Class: &doctree.Class{Kinds: []doctree.Kind{doctree.KindParagraph}},
		Self:  false, Descend: true,
		Where: func(n doctree.Node) bool { return n.Parent().Kind() == doctree.KindDocument },
	})
	if para == nil || para.AsText() != "a “quoted” word" {
		t.Errorf("expected educated quotes, got %v", para)
	}
	footer := doctree.FindAll(result.Doc, doctree.FindOptions{
		Class: &doctree.Class{Kinds: []doctree.Kind{doctree.KindFooter}},
		Self:  true, Descend: true,
	})
	if len(footer) != 1 {
		t.Errorf("expected generator footer, got %d", len(footer))
	}
}

func TestConvertUnsupportedExtension(t *testing.T) {
	_, err := Convert(strings.NewReader("x"), "file.zip", doctree.DefaultSettings(), nil)
	if err == nil {
		t.Fatalf("expected an error for unsupported extension")
	}
}

func TestConvertValidationProblems(t *testing.T) {
	// markdown that leaves a transition at the very end of the document
	result, err := Convert(strings.NewReader("text\n\n---\n"), "in.md", doctree.DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var verr *doctree.ValidationError
	if !errors.As(result.ValidationErr, &verr) {
		t.Fatalf("expected a validation error, got %v", result.ValidationErr)
	}
	found := false
	for _, p := range verr.Problems {
		if strings.Contains(p, "transition") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a transition placement problem, got %v", verr.Problems)
	}
}
