package ingest

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/dgallion1/doctree/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFProducer handles PDF files. It tries the Go library first, then
// falls back to pdftotext if enabled. Each page becomes a section of
// paragraphs.
type PDFProducer struct {
	FallbackPdftotext bool
}

func (p *PDFProducer) Produce(r io.Reader, filename string, doc *doctree.Document) error {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "doctree-pdf-*.pdf")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return fmt.Errorf("extract pdf text: %w", err)
	}

	doc.NoteSource(filename, -1)
	sections := newSectionStack(doc)

	pages := strings.Split(text, "\f")
	multi := len(pages) > 1
	for i, page := range pages {
		page = strings.TrimSpace(page)
		if page == "" {
			continue
		}
		parent := doctree.AsElement(doc)
		if multi {
			parent = sections.open(1, fmt.Sprintf("Page %d", i+1))
		}
		for _, para := range splitParagraphs(page) {
			parent.Append(doctree.NewTextElement(doctree.KindParagraph, para))
		}
	}
	return nil
}

// splitParagraphs separates text blocks at blank lines.
func splitParagraphs(text string) []string {
	var paras []string
	for _, block := range strings.Split(text, "\n\n") {
		block = strings.TrimSpace(block)
		if block != "" {
			paras = append(paras, block)
		}
	}
	return paras
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // form feed as page separator
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}
