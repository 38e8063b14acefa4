package ingest

import "github.com/dgallion1/doctree/internal/doctree"

// sectionStack nests sections by heading level while a producer walks
// a flat sequence of headings and body blocks. Level 0 is the document
// itself; an hN heading pops back to the nearest shallower level.
type sectionStack struct {
	doc    *doctree.Document
	stack  []*doctree.Element
	levels []int
}

func newSectionStack(doc *doctree.Document) *sectionStack {
	return &sectionStack{
		doc:    doc,
		stack:  []*doctree.Element{doctree.AsElement(doc)},
		levels: []int{0},
	}
}

// top returns the section (or document) new body blocks belong to.
func (s *sectionStack) top() *doctree.Element {
	return s.stack[len(s.stack)-1]
}

// open starts a section titled title at the given heading level and
// registers the title as an implicit target.
func (s *sectionStack) open(level int, title string) *doctree.Element {
	for len(s.stack) > 1 && s.levels[len(s.levels)-1] >= level {
		s.stack = s.stack[:len(s.stack)-1]
		s.levels = s.levels[:len(s.levels)-1]
	}
	section := doctree.NewElement(doctree.KindSection)
	section.Append(doctree.NewTextElement(doctree.KindTitle, title))
	if name := doctree.FullyNormalizeName(title); name != "" {
		section.Set("names", []string{name})
	}
	s.top().Append(section)
	s.doc.NoteImplicitTarget(section, section)
	s.stack = append(s.stack, section)
	s.levels = append(s.levels, level)
	return section
}
