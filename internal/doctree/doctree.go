// Package doctree implements a typed, mutable document tree: the
// interchange structure between document producers (parsers) and
// consumers (transforms, writers).
//
// A tree is made of two node shapes: Text leaves and Elements with
// attributes and ordered children. The package enforces structural
// validity through declarative per-kind content models, maintains
// document-wide identity indices on the Document root, and provides
// depth-first traversal with fine-grained pruning as well as lazy
// condition-based search.
package doctree

import (
	"strings"
	"unicode/utf8"
)

// Kind identifies an element type ("section", "paragraph", ...).
// The text leaf uses the reserved kind "#text".
type Kind string

// Node is implemented by *Text, *Element, and the specialized element
// structs (*Document, *Pending).
type Node interface {
	// Kind returns the node's kind tag.
	Kind() Kind

	// Parent returns the parent element, or nil for a detached node.
	Parent() *Element

	// Document resolves the owning document by walking the parent
	// chain. Returns nil for a fully detached subtree.
	Document() *Document

	// Source and Line record provenance. Empty string and zero mean
	// unknown.
	Source() string
	SetSource(string)
	Line() int
	SetLine(int)

	// Children returns the node's child slice (nil for text leaves).
	// The slice is the live backing store; callers must not modify it
	// directly.
	Children() []Node

	// AsText returns the concatenated text content.
	AsText() string

	// ShortRepr returns a compact description for diagnostics.
	ShortRepr() string

	// Copy returns a shallow copy: attributes are duplicated, children
	// are not. DeepCopy also copies the subtree.
	Copy() Node
	DeepCopy() Node

	// PFormat renders the subtree as indented pseudo-XML.
	PFormat(indent string, level int) string

	setParent(*Element)
	setOwner(*Document)
	element() *Element
}

// AsElement returns the element part of a node, or nil if the node is
// a text leaf. Specialized elements (Document, Pending) return their
// embedded Element.
func AsElement(n Node) *Element {
	if n == nil {
		return nil
	}
	return n.element()
}

// sameNode reports whether two nodes are the same tree node. Nodes are
// compared by identity; a specialized element and its embedded Element
// compare equal.
func sameNode(a, b Node) bool {
	if a == b {
		return true
	}
	ea := AsElement(a)
	return ea != nil && ea == AsElement(b)
}

// Text is a leaf node holding character data.
type Text struct {
	data   string
	parent *Element
	owner  *Document
	source string
	line   int
}

// NewText returns a detached text leaf.
func NewText(data string) *Text {
	return &Text{data: data}
}

// KindText is the kind tag of text leaves.
const KindText Kind = "#text"

func (t *Text) Kind() Kind       { return KindText }
func (t *Text) Parent() *Element { return t.parent }

func (t *Text) Document() *Document {
	if t.owner != nil {
		return t.owner
	}
	if t.parent != nil {
		return t.parent.Document()
	}
	return nil
}

func (t *Text) Source() string     { return t.source }
func (t *Text) SetSource(s string) { t.source = s }
func (t *Text) Line() int          { return t.line }
func (t *Text) SetLine(l int)      { t.line = l }
func (t *Text) Children() []Node   { return nil }

// Raw returns the stored data with escape markers intact.
func (t *Text) Raw() string { return t.data }

// AsText returns the data with null escape markers removed.
func (t *Text) AsText() string { return Unescape(t.data, false) }

func (t *Text) ShortRepr() string {
	const maxlen = 18
	data := t.data
	if len(data) > maxlen {
		cut := maxlen - 4
		// back up to a rune boundary
		for cut > 0 && !utf8.RuneStart(data[cut]) {
			cut--
		}
		data = data[:cut] + " ..."
	}
	return "<#text: " + strings.ReplaceAll(data, "\n", "\\n") + ">"
}

func (t *Text) Copy() Node {
	return &Text{data: t.data, source: t.source, line: t.line}
}

func (t *Text) DeepCopy() Node { return t.Copy() }

func (t *Text) PFormat(indent string, level int) string {
	prefix := strings.Repeat(indent, level)
	var b strings.Builder
	for _, line := range strings.Split(t.AsText(), "\n") {
		b.WriteString(prefix)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *Text) setParent(p *Element) { t.parent = p }
func (t *Text) setOwner(d *Document) { t.owner = d }
func (t *Text) element() *Element    { return nil }
