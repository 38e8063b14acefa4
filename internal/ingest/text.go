package ingest

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/doctree/internal/doctree"
)

// TextProducer handles plain text files: each blank-line-separated
// block becomes a paragraph.
type TextProducer struct{}

func (p *TextProducer) Produce(r io.Reader, filename string, doc *doctree.Document) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current strings.Builder
	offset := 0
	paraStart := 0

	flush := func() {
		if current.Len() == 0 {
			return
		}
		doc.NoteSource(filename, paraStart)
		doc.Append(doctree.NewTextElement(doctree.KindParagraph, current.String()))
		current.Reset()
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			} else {
				paraStart = offset
			}
			current.WriteString(line)
		}
		offset++
	}
	flush()

	return scanner.Err()
}
