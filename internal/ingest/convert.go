package ingest

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dgallion1/doctree/internal/doctree"
	"github.com/dgallion1/doctree/internal/report"
	"github.com/dgallion1/doctree/internal/transforms"
)

// Result is the outcome of a full conversion.
type Result struct {
	Doc *doctree.Document
	// Messages are the system messages produced while parsing and
	// transforming, in order.
	Messages []*doctree.Element
	// ValidationErr holds the structural problems of the finished
	// tree, nil when the tree is valid.
	ValidationErr error
}

// Convert runs the full pipeline for one input: pick a producer by
// extension, parse into a fresh document, apply the universal
// transforms, and validate. A reporter message at or above the halt
// level aborts with its error.
func Convert(r io.Reader, filename string, settings doctree.Settings, log *slog.Logger) (*Result, error) {
	producer, err := ForFile(filename)
	if err != nil {
		return nil, err
	}

	rep := report.New(log, filename, settings.ReportLevel, settings.HaltLevel)
	doc := doctree.NewDocument(settings, rep)
	doc.Set("source", filename)
	transformer := transforms.NewTransformer(doc)

	var messages []*doctree.Element
	rep.AttachObserver(func(msg *doctree.Element) {
		messages = append(messages, msg)
		doc.NoteParseMessage(msg)
	})

	if err := producer.Produce(r, filename, doc); err != nil {
		return nil, fmt.Errorf("produce %s: %w", filename, err)
	}
	if err := rep.Err(); err != nil {
		return nil, err
	}

	transformer.Add(transforms.Universal()...)
	if err := transformer.Apply(); err != nil {
		return nil, fmt.Errorf("transform %s: %w", filename, err)
	}
	if err := rep.Err(); err != nil {
		return nil, err
	}

	return &Result{
		Doc:           doc,
		Messages:      messages,
		ValidationErr: doctree.AsElement(doc).Validate(true),
	}, nil
}
