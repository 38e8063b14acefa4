package transforms

import (
	"slices"

	"github.com/dgallion1/doctree/internal/doctree"
)

const projectURL = "https://github.com/dgallion1/doctree"

// Universal returns the transforms applied to every document, to be
// added in bulk. Each transform checks the document settings itself,
// so the list is unconditional.
func Universal() []doctree.Transform {
	return []doctree.Transform{
		StripClassesAndElements{},
		StripComments{},
		Decorations{},
		ExposeInternals{},
		SmartQuotes{},
		Messages{},
		FilterMessages{},
	}
}

func threshold(doc *doctree.Document) doctree.MessageLevel {
	if doc.Reporter != nil {
		return doc.Reporter.Threshold()
	}
	return doc.Settings.ReportLevel
}

// Decorations populates the document footer from the settings: source
// link, datestamp, and generator credit.
type Decorations struct{}

func (Decorations) Priority() int { return 820 }

func (Decorations) Apply(doc *doctree.Document, _ *doctree.Pending) error {
	s := doc.Settings
	if !s.Generator && s.Datestamp == "" && !s.SourceLink && s.SourceURL == "" {
		return nil
	}
	var content []doctree.Node
	if s.SourceLink || s.SourceURL != "" {
		source := s.SourceURL
		if source == "" {
			source = doc.GetString("source")
		}
		if source != "" {
			ref := doctree.NewTextElement(doctree.KindReference, "View document source")
			ref.Set("refuri", source)
			content = append(content, ref, doctree.NewText(".\n"))
		}
	}
	if s.Datestamp != "" {
		content = append(content,
			doctree.NewText("Generated on: "+s.Datestamp+".\n"))
	}
	if s.Generator {
		ref := doctree.NewTextElement(doctree.KindReference, "doctree")
		ref.Set("refuri", projectURL)
		content = append(content,
			doctree.NewText("Generated by "), ref, doctree.NewText("."))
	}
	if len(content) == 0 {
		return nil
	}
	footer := doc.GetFooter()
	footer.Append(doctree.NewElement(doctree.KindParagraph, content...))
	return nil
}

// ExposeInternals copies the hidden bookkeeping named by the settings
// (line, source, rawsource) into "internal:" attributes so writers can
// show them. Attribute validation skips the prefix.
type ExposeInternals struct{}

func (ExposeInternals) Priority() int { return 840 }

func (ExposeInternals) Apply(doc *doctree.Document, _ *doctree.Pending) error {
	names := doc.Settings.ExposeInternals
	if len(names) == 0 {
		return nil
	}
	for n := range doctree.Find(doc, doctree.FindOptions{
		Class: &doctree.Class{Any: true}, Self: true, Descend: true,
	}) {
		el := doctree.AsElement(n)
		if el == nil {
			continue
		}
		for _, name := range names {
			switch name {
			case "line":
				el.Set("internal:line", el.Line())
			case "source":
				el.Set("internal:source", el.Source())
			case "rawsource":
				el.Set("internal:rawsource", el.RawSource())
			}
		}
	}
	return nil
}

// Messages gathers loose transform messages into a "System Messages"
// section appended to the document. Threshold filtering is left to
// FilterMessages, which runs right after.
type Messages struct{}

func (Messages) Priority() int { return 860 }

func (Messages) Apply(doc *doctree.Document, _ *doctree.Pending) error {
	var loose []doctree.Node
	for _, msg := range doc.TransformMessages {
		if msg.Parent() == nil {
			loose = append(loose, msg)
		}
	}
	if len(loose) == 0 {
		return nil
	}
	section := doctree.NewElement(doctree.KindSection)
	section.Set("classes", []string{"system-messages"})
	section.Append(doctree.NewTextElement(doctree.KindTitle, "System Messages"))
	section.Extend(loose...)
	doc.TransformMessages = nil
	doc.Append(section)
	return nil
}

// FilterMessages removes system messages below the report threshold
// from the tree. Applying it twice is a no-op.
type FilterMessages struct{}

func (FilterMessages) Priority() int { return 870 }

func (FilterMessages) Apply(doc *doctree.Document, _ *doctree.Pending) error {
	min := int(threshold(doc))
	msgs := doctree.FindAll(doc, doctree.FindOptions{
		Class:   &doctree.Class{Kinds: []doctree.Kind{doctree.KindSystemMessage}},
		Self:    true,
		Descend: true,
	})
	for _, n := range msgs {
		el := doctree.AsElement(n)
		if el.GetInt("level") >= min {
			continue
		}
		if p := el.Parent(); p != nil {
			p.Remove(n)
		}
		if i := slices.Index(doc.TransformMessages, el); i >= 0 {
			doc.TransformMessages = slices.Delete(doc.TransformMessages, i, i+1)
		}
	}
	return nil
}

// TestMessages appends all loose transform messages to the document,
// regardless of level. Used by test harnesses instead of Messages.
type TestMessages struct{}

func (TestMessages) Priority() int { return 880 }

func (TestMessages) Apply(doc *doctree.Document, _ *doctree.Pending) error {
	for _, msg := range doc.TransformMessages {
		if msg.Parent() == nil {
			doc.Append(msg)
		}
	}
	return nil
}

// StripComments removes comment elements when the settings ask for it.
type StripComments struct{}

func (StripComments) Priority() int { return 740 }

func (StripComments) Apply(doc *doctree.Document, _ *doctree.Pending) error {
	if !doc.Settings.StripComments {
		return nil
	}
	comments := doctree.FindAll(doc, doctree.FindOptions{
		Class:   &doctree.Class{Kinds: []doctree.Kind{doctree.KindComment}},
		Self:    true,
		Descend: true,
	})
	for _, n := range comments {
		if p := n.Parent(); p != nil {
			p.Remove(n)
		}
	}
	return nil
}

// StripClassesAndElements drops configured class values from every
// element and removes elements carrying a configured class entirely.
type StripClassesAndElements struct{}

func (StripClassesAndElements) Priority() int { return 420 }

func (StripClassesAndElements) Apply(doc *doctree.Document, _ *doctree.Pending) error {
	s := doc.Settings
	if len(s.StripClasses) == 0 && len(s.StripElements) == 0 {
		return nil
	}
	nodes := doctree.FindAll(doc, doctree.FindOptions{
		Class: &doctree.Class{Any: true}, Self: false, Descend: true,
	})
	for _, n := range nodes {
		el := doctree.AsElement(n)
		if el == nil {
			continue
		}
		classes := el.Classes()
		if len(classes) == 0 {
			continue
		}
		remove := false
		for _, class := range classes {
			if slices.Contains(s.StripElements, class) {
				remove = true
				break
			}
		}
		if remove {
			if p := el.Parent(); p != nil {
				p.Remove(n)
			}
			continue
		}
		kept := classes[:0:0]
		for _, class := range classes {
			if !slices.Contains(s.StripClasses, class) {
				kept = append(kept, class)
			}
		}
		if len(kept) != len(classes) {
			el.Set("classes", kept)
		}
	}
	return nil
}
