package doctree

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Class matches nodes by kind, category membership, or both. The zero
// value matches nothing.
type Class struct {
	Kinds      []Kind
	Categories Category
	// Text makes the class match text leaves.
	Text bool
	// Any matches every node.
	Any bool
}

// Matches reports whether the node belongs to the class. A nil node
// never matches.
func (c Class) Matches(n Node) bool {
	if n == nil {
		return false
	}
	if c.Any {
		return true
	}
	if AsElement(n) == nil {
		return c.Text
	}
	if c.Categories != 0 && CategoriesOf(n.Kind())&c.Categories != 0 {
		return true
	}
	return slices.Contains(c.Kinds, n.Kind())
}

func (c Class) String() string {
	if c.Any {
		return "any"
	}
	var parts []string
	for _, k := range c.Kinds {
		parts = append(parts, string(k))
	}
	if c.Categories != 0 {
		parts = append(parts, c.Categories.String())
	}
	if c.Text {
		parts = append(parts, "#text")
	}
	return strings.Join(parts, " or ")
}

// Quantifier states how many children a content model part expects.
type Quantifier byte

const (
	One        Quantifier = '.'
	Optional   Quantifier = '?'
	OneOrMore  Quantifier = '+'
	ZeroOrMore Quantifier = '*'
)

// ModelPart is one slot of a content model.
type ModelPart struct {
	Class Class
	Q     Quantifier
}

// ContentModel is an ordered sequence of model parts, matched against
// an element's children left to right.
type ContentModel []ModelPart

// ValidationError reports structural or attribute violations found by
// Validate. Problems are collected per element.
type ValidationError struct {
	Problems []string
	// Node is the problematic node, when one can be singled out.
	Node Node
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "\n  ")
}

func validationErrorf(n Node, format string, args ...any) *ValidationError {
	return &ValidationError{
		Problems: []string{fmt.Sprintf(format, args...)},
		Node:     n,
	}
}

// ValidateAttributes checks every attribute against the kind's valid
// set and the attribute validator registry, normalizing values in
// place. All problems are collected before an error is returned.
func (e *Element) ValidateAttributes() error {
	spec := Spec(e.kind)
	var problems []string
	for _, key := range slices.Sorted(maps.Keys(e.attributes)) {
		value := e.attributes[key]
		if strings.HasPrefix(key, "internal:") {
			continue
		}
		if !slices.Contains(spec.Attributes, key) {
			problems = append(problems, fmt.Sprintf(
				"Attribute %q not one of %q.", key, spec.Attributes))
			continue
		}
		validator, ok := AttributeValidators[key]
		if !ok {
			continue
		}
		normalized, err := validator(value)
		if err != nil {
			problems = append(problems, fmt.Sprintf(
				"Attribute %q has invalid value %v.\n  %v", key, value, err))
			continue
		}
		e.attributes[key] = normalized
	}
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{
		Problems: append([]string{fmt.Sprintf("Element %s invalid:", e.StartTag())}, problems...),
		Node:     e,
	}
}

// ValidateContent tests the element's children against its content
// model. It returns an error when a required slot is unmatched or when
// children are left over.
func (e *Element) ValidateContent() error {
	leftover, err := e.matchContent(Spec(e.kind).Model, e.children)
	if err != nil {
		return err
	}
	if e.kind == KindAuthors {
		// The authors model is matched repeatedly: each group of
		// remaining children must itself fit the model.
		for len(leftover) > 0 {
			leftover, err = e.matchContent(Spec(e.kind).Model, leftover)
			if err != nil {
				return err
			}
		}
	}
	if len(leftover) == 0 {
		return nil
	}
	child := leftover[0]
	if AsElement(child) == nil {
		return validationErrorf(e, "Element %s invalid:\n  Spurious text: %q.",
			e.StartTag(), child.AsText())
	}
	return validationErrorf(child,
		"Element %s invalid:\n  Child element %s not allowed at this position.",
		e.StartTag(), AsElement(child).StartTag())
}

// matchContent walks elements against model and returns the children
// that did not fit. A missing required child is an error.
func (e *Element) matchContent(model ContentModel, elements []Node) ([]Node, error) {
	i := 0
	next := func() Node {
		if i < len(elements) {
			c := elements[i]
			i++
			return c
		}
		return nil
	}
	child := next()
	for _, part := range model {
		if !part.Class.Matches(child) {
			if part.Q == One || part.Q == OneOrMore {
				return nil, e.reportChild(child, part.Class)
			}
			// optional slot, try the same child against the next part
			continue
		}
		if err := checkPosition(child); err != nil {
			return nil, err
		}
		if part.Q == One || part.Q == Optional {
			child = next()
		} else {
			for {
				child = next()
				if child == nil || !part.Class.Matches(child) {
					break
				}
				if err := checkPosition(child); err != nil {
					return nil, err
				}
			}
		}
	}
	if child == nil {
		return nil, nil
	}
	return elements[i-1:], nil
}

func (e *Element) reportChild(child Node, c Class) error {
	if child == nil {
		return validationErrorf(e, "Element %s invalid:\n  Missing child of type <%s>.",
			e.StartTag(), c)
	}
	if AsElement(child) == nil {
		return validationErrorf(child,
			"Element %s invalid:\n  Expecting child of type <%s>, not text data %q.",
			e.StartTag(), c, child.AsText())
	}
	return validationErrorf(child,
		"Element %s invalid:\n  Expecting child of type <%s>, not %s.",
		e.StartTag(), c, AsElement(child).StartTag())
}

// checkPosition enforces placement constraints that the declarative
// content model cannot express.
func checkPosition(n Node) error {
	el := AsElement(n)
	if el == nil || el.parent == nil {
		return nil
	}
	switch n.Kind() {
	case KindSubtitle:
		if el.parent.Index(n) == 0 {
			return validationErrorf(n,
				"Element %s invalid:\n  <subtitle> only allowed after <title>.",
				el.parent.StartTag())
		}
	case KindTransition:
		var problems []string
		predecessor := el.PreviousSibling()
		// A transition directly after title, subtitle, meta, or
		// decoration still counts as opening the section.
		if predecessor == nil || isOpeningContext(predecessor) {
			problems = append(problems, "<transition> may not begin a section or document.")
		}
		if el.parent.Index(n) == len(el.parent.children)-1 {
			problems = append(problems, "<transition> may not end a section or document.")
		}
		if predecessor != nil && predecessor.Kind() == KindTransition {
			problems = append(problems, "<transition> may not directly follow another transition.")
		}
		if len(problems) > 0 {
			return &ValidationError{
				Problems: append([]string{fmt.Sprintf("Element %s invalid:", el.parent.StartTag())}, problems...),
				Node:     n,
			}
		}
	}
	return nil
}

func isOpeningContext(n Node) bool {
	switch n.Kind() {
	case KindTitle, KindSubtitle, KindMeta, KindDecoration:
		return true
	}
	return false
}

// Validate checks attributes, content model compliance, and positional
// constraints. With recursive set, the whole subtree is validated.
func (e *Element) Validate(recursive bool) error {
	if err := e.ValidateAttributes(); err != nil {
		return err
	}
	if err := e.ValidateContent(); err != nil {
		return err
	}
	if recursive {
		for _, child := range e.children {
			el := AsElement(child)
			if el == nil {
				continue
			}
			if err := el.Validate(true); err != nil {
				return err
			}
		}
	}
	return nil
}
