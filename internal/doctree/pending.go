package doctree

import (
	"fmt"
	"sort"
	"strings"
)

// Pending is an invisible placeholder for a transform that needs the
// finished tree before it can run. The node marks where the transform
// should act; Details carries its arguments.
type Pending struct {
	Element

	Transform Transform
	Details   map[string]any
}

// NewPending wraps a transform in a placeholder node.
func NewPending(t Transform, details map[string]any) *Pending {
	p := &Pending{Transform: t, Details: details}
	p.Element.kind = KindPending
	p.Element.initAttributes()
	return p
}

func (p *Pending) element() *Element { return &p.Element }

func (p *Pending) detailLines(indent string, level int) string {
	prefix := strings.Repeat(indent, level)
	var b strings.Builder
	fmt.Fprintf(&b, "%s.. internal attributes:\n", prefix)
	fmt.Fprintf(&b, "%s     .transform: %T\n", prefix, p.Transform)
	fmt.Fprintf(&b, "%s     .details:\n", prefix)
	keys := make([]string, 0, len(p.Details))
	for key := range p.Details {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, "%s       %s: %v\n", prefix, key, p.Details[key])
	}
	return b.String()
}

// PFormat includes the transform and its details below the start tag.
func (p *Pending) PFormat(indent string, level int) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(indent, level))
	b.WriteString(p.StartTag())
	b.WriteByte('\n')
	b.WriteString(p.detailLines(indent, level+1))
	for _, child := range p.Element.children {
		b.WriteString(child.PFormat(indent, level+1))
	}
	return b.String()
}

// Copy keeps the transform and shares the details map.
func (p *Pending) Copy() Node {
	dup := &Pending{Transform: p.Transform, Details: p.Details}
	dup.Element.kind = p.Element.kind
	dup.Element.rawsource = p.Element.rawsource
	dup.Element.owner = p.Element.owner
	dup.Element.source = p.Element.source
	dup.Element.line = p.Element.line
	dup.Element.attributes = copyAttributes(p.Element.attributes)
	return dup
}

func (p *Pending) DeepCopy() Node {
	dup := p.Copy().(*Pending)
	for _, child := range p.Element.children {
		dup.Append(child.DeepCopy())
	}
	return dup
}
