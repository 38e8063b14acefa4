package ingest

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/doctree/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownProducer handles Markdown files using goldmark. Headings
// open nested sections; block and inline markup is mapped to the
// corresponding tree kinds.
type MarkdownProducer struct{}

func (p *MarkdownProducer) Produce(r io.Reader, filename string, doc *doctree.Document) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc.NoteSource(filename, -1)
	sections := newSectionStack(doc)

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			sections.open(h.Level, mdRawText(h, src))
			continue
		}
		if block := mdBlock(n, src); block != nil {
			sections.top().Append(block)
		}
	}
	return nil
}

// mdBlock converts one block-level AST node, or returns nil for nodes
// without a tree representation.
func mdBlock(n ast.Node, src []byte) doctree.Node {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		para := doctree.NewElement(doctree.KindParagraph, mdInlines(n, src)...)
		if para.Len() == 0 {
			return nil
		}
		return para
	case *ast.FencedCodeBlock:
		block := doctree.NewTextElement(doctree.KindLiteralBlock, mdBlockLines(n, src))
		block.Set("xml:space", "preserve")
		if lang := node.Language(src); len(lang) > 0 {
			block.Set("classes", []string{"language-" + string(lang)})
		}
		return block
	case *ast.CodeBlock:
		block := doctree.NewTextElement(doctree.KindLiteralBlock, mdBlockLines(n, src))
		block.Set("xml:space", "preserve")
		return block
	case *ast.List:
		return mdList(node, src)
	case *ast.Blockquote:
		quote := doctree.NewElement(doctree.KindBlockQuote)
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if block := mdBlock(c, src); block != nil {
				quote.Append(block)
			}
		}
		return quote
	case *ast.ThematicBreak:
		return doctree.NewElement(doctree.KindTransition)
	case *ast.HTMLBlock:
		raw := doctree.NewTextElement(doctree.KindRaw, mdBlockLines(n, src))
		raw.Set("format", "html")
		raw.Set("xml:space", "preserve")
		return raw
	}
	return nil
}

func mdList(node *ast.List, src []byte) doctree.Node {
	var list *doctree.Element
	if node.IsOrdered() {
		list = doctree.NewElement(doctree.KindEnumeratedList)
		list.Set("enumtype", "arabic")
		if node.Start != 1 && node.Start != 0 {
			list.Set("start", node.Start)
		}
	} else {
		list = doctree.NewElement(doctree.KindBulletList)
		list.Set("bullet", string(node.Marker))
	}
	for item := node.FirstChild(); item != nil; item = item.NextSibling() {
		li := doctree.NewElement(doctree.KindListItem)
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if block := mdBlock(c, src); block != nil {
				li.Append(block)
			}
		}
		list.Append(li)
	}
	return list
}

// mdInlines converts the inline children of a block node.
func mdInlines(n ast.Node, src []byte) []doctree.Node {
	var nodes []doctree.Node
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			nodes = append(nodes, doctree.NewText(string(node.Segment.Value(src))))
			if node.SoftLineBreak() || node.HardLineBreak() {
				nodes = append(nodes, doctree.NewText("\n"))
			}
		case *ast.String:
			nodes = append(nodes, doctree.NewText(string(node.Value)))
		case *ast.Emphasis:
			kind := doctree.KindEmphasis
			if node.Level >= 2 {
				kind = doctree.KindStrong
			}
			nodes = append(nodes, doctree.NewElement(kind, mdInlines(c, src)...))
		case *ast.CodeSpan:
			nodes = append(nodes, doctree.NewTextElement(doctree.KindLiteral, mdRawText(c, src)))
		case *ast.Link:
			ref := doctree.NewElement(doctree.KindReference, mdInlines(c, src)...)
			ref.Set("refuri", string(node.Destination))
			nodes = append(nodes, ref)
		case *ast.AutoLink:
			url := string(node.URL(src))
			ref := doctree.NewTextElement(doctree.KindReference, string(node.Label(src)))
			ref.Set("refuri", url)
			nodes = append(nodes, ref)
		case *ast.Image:
			img := doctree.NewElement(doctree.KindImage)
			img.Set("uri", string(node.Destination))
			if alt := mdRawText(c, src); alt != "" {
				img.Set("alt", alt)
			}
			nodes = append(nodes, img)
		case *ast.RawHTML:
			var buf bytes.Buffer
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				buf.Write(seg.Value(src))
			}
			raw := doctree.NewTextElement(doctree.KindRaw, buf.String())
			raw.Set("format", "html")
			nodes = append(nodes, raw)
		default:
			nodes = append(nodes, mdInlines(c, src)...)
		}
	}
	return nodes
}

// mdRawText concatenates the plain text below an AST node.
func mdRawText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(src))
		} else {
			buf.WriteString(mdRawText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}

// mdBlockLines joins a block node's source lines.
func mdBlockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}
