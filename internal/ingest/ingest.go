// Package ingest turns raw document bytes into document trees. One
// producer per input format; ForFile picks by file extension.
package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/doctree/internal/doctree"
)

// Producer parses one input format into an existing document. The
// document supplies the settings, the reporter, and the identity
// registries the producer feeds.
type Producer interface {
	Produce(r io.Reader, filename string, doc *doctree.Document) error
}

// PDFFallbackPdftotext enables the pdftotext fallback on PDF
// producers returned by ForFile. Set once at startup.
var PDFFallbackPdftotext = true

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate producer for a filename.
func ForFile(filename string) (Producer, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextProducer{}, nil
	case ".md", ".markdown":
		return &MarkdownProducer{}, nil
	case ".csv":
		return &CSVProducer{}, nil
	case ".html", ".htm":
		return &HTMLProducer{}, nil
	case ".pdf":
		return &PDFProducer{FallbackPdftotext: PDFFallbackPdftotext}, nil
	case ".docx":
		return &DOCXProducer{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
