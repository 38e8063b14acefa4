package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/doctree/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLProducer handles HTML files. Heading tags open sections, common
// text-bearing tags become paragraphs, pre becomes a literal block.
// Custom elements (hyphenated tag names) are carried through under
// their own kind with a warning.
type HTMLProducer struct{}

func (p *HTMLProducer) Produce(r io.Reader, filename string, doc *doctree.Document) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	doc.NoteSource(filename, -1)
	if title := findTitle(root); title != "" {
		doc.Set("title", title)
	}

	sections := newSectionStack(doc)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				if title := textContent(n); title != "" {
					sections.open(level, title)
				}
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote":
				if t := textContent(n); t != "" {
					sections.top().Append(doctree.NewTextElement(doctree.KindParagraph, t))
				}
				return
			case "pre":
				if t := preContent(n); t != "" {
					block := doctree.NewTextElement(doctree.KindLiteralBlock, t)
					block.Set("xml:space", "preserve")
					sections.top().Append(block)
				}
				return
			case "hr":
				sections.top().Append(doctree.NewElement(doctree.KindTransition))
				return
			}

			if strings.Contains(n.Data, "-") {
				// custom element, kept under its own kind
				if doc.Reporter != nil {
					doc.Reporter.Report(doctree.LevelWarning,
						fmt.Sprintf("Unknown element type <%s>.", n.Data))
				}
				el := doctree.NewElement(doctree.Kind(n.Data))
				if t := textContent(n); t != "" {
					el.Append(doctree.NewTextElement(doctree.KindParagraph, t))
				}
				sections.top().Append(el)
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	// parse below <body>, or the whole document when there is none
	if body := findBody(root); body != nil {
		walk(body)
	} else {
		walk(root)
	}
	return nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Join(strings.Fields(buf.String()), " ")
}

// preContent keeps whitespace, unlike textContent.
func preContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.Trim(buf.String(), "\n")
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
