package doctree

import (
	"errors"
	"reflect"
	"testing"
)

// traceVisitor records visits and departures and returns configured
// results for specific nodes.
type traceVisitor struct {
	trace   []string
	results map[string]VisitResult
	fail    string
}

func label(n Node) string {
	if el := AsElement(n); el != nil {
		if ids := el.IDs(); len(ids) > 0 {
			return ids[0]
		}
		return string(n.Kind())
	}
	return n.AsText()
}

func (v *traceVisitor) Visit(n Node) (VisitResult, error) {
	name := label(n)
	v.trace = append(v.trace, "v:"+name)
	if name == v.fail {
		return Continue, errors.New("visit failed")
	}
	if res, ok := v.results[name]; ok {
		return res, nil
	}
	return Continue, nil
}

func (v *traceVisitor) Depart(n Node) error {
	v.trace = append(v.trace, "d:"+label(n))
	return nil
}

// buildTraversalTree returns:
//
//	root
//	├── a
//	│   ├── a1
//	│   └── a2
//	└── b
//	    └── b1
func buildTraversalTree() *Element {
	node := func(id string, children ...Node) *Element {
		el := NewElement(KindSection, children...)
		el.Set("ids", []string{id})
		return el
	}
	return node("root",
		node("a", node("a1"), node("a2")),
		node("b", node("b1")),
	)
}

func TestWalkOrder(t *testing.T) {
	v := &traceVisitor{}
	stopped, err := Walk(buildTraversalTree(), v)
	if err != nil || stopped {
		t.Fatalf("unexpected stop=%v err=%v", stopped, err)
	}
	want := []string{"v:root", "v:a", "v:a1", "v:a2", "v:b", "v:b1"}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkSkipChildren(t *testing.T) {
	v := &traceVisitor{results: map[string]VisitResult{"a": SkipChildren}}
	Walk(buildTraversalTree(), v)
	want := []string{"v:root", "v:a", "v:b", "v:b1"}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkSkipSiblings(t *testing.T) {
	v := &traceVisitor{results: map[string]VisitResult{"a": SkipSiblings}}
	Walk(buildTraversalTree(), v)
	// a's children and a's following siblings are all skipped
	want := []string{"v:root", "v:a"}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkSkipDepartureVisitsChildren(t *testing.T) {
	// a visit-only walk has no departures to skip
	v := &traceVisitor{results: map[string]VisitResult{"a": SkipDeparture}}
	Walk(buildTraversalTree(), v)
	want := []string{"v:root", "v:a", "v:a1", "v:a2", "v:b", "v:b1"}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkStop(t *testing.T) {
	v := &traceVisitor{results: map[string]VisitResult{"a1": Stop}}
	stopped, err := Walk(buildTraversalTree(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stopped {
		t.Fatalf("expected stopped traversal")
	}
	want := []string{"v:root", "v:a", "v:a1"}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkAboutOrder(t *testing.T) {
	v := &traceVisitor{}
	WalkAbout(buildTraversalTree(), v)
	want := []string{
		"v:root",
		"v:a", "v:a1", "d:a1", "v:a2", "d:a2", "d:a",
		"v:b", "v:b1", "d:b1", "d:b",
		"d:root",
	}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkAboutSkipNode(t *testing.T) {
	v := &traceVisitor{results: map[string]VisitResult{"a": SkipNode}}
	WalkAbout(buildTraversalTree(), v)
	// no children of a, no departure of a
	want := []string{"v:root", "v:a", "v:b", "v:b1", "d:b1", "d:b", "d:root"}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkAboutSkipChildrenStillDeparts(t *testing.T) {
	v := &traceVisitor{results: map[string]VisitResult{"a": SkipChildren}}
	WalkAbout(buildTraversalTree(), v)
	want := []string{"v:root", "v:a", "d:a", "v:b", "v:b1", "d:b1", "d:b", "d:root"}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkAboutSkipDeparture(t *testing.T) {
	v := &traceVisitor{results: map[string]VisitResult{"a": SkipDeparture}}
	WalkAbout(buildTraversalTree(), v)
	want := []string{
		"v:root",
		"v:a", "v:a1", "d:a1", "v:a2", "d:a2",
		"v:b", "v:b1", "d:b1", "d:b",
		"d:root",
	}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkAboutSkipSiblings(t *testing.T) {
	v := &traceVisitor{results: map[string]VisitResult{"a1": SkipSiblings}}
	WalkAbout(buildTraversalTree(), v)
	// a1's departure and a2 are skipped, a's departure still runs
	want := []string{
		"v:root",
		"v:a", "v:a1", "d:a",
		"v:b", "v:b1", "d:b1", "d:b",
		"d:root",
	}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkAboutStopFiresAncestorDepartures(t *testing.T) {
	v := &traceVisitor{results: map[string]VisitResult{"a1": Stop}}
	stopped, err := WalkAbout(buildTraversalTree(), v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !stopped {
		t.Fatalf("expected stopped traversal")
	}
	want := []string{"v:root", "v:a", "v:a1", "d:a1", "d:a", "d:root"}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestWalkAboutVisitError(t *testing.T) {
	v := &traceVisitor{fail: "a2"}
	_, err := WalkAbout(buildTraversalTree(), v)
	if err == nil {
		t.Fatalf("expected error propagated")
	}
	// errors abort immediately, without departures
	want := []string{"v:root", "v:a", "v:a1", "d:a1", "v:a2"}
	if !reflect.DeepEqual(v.trace, want) {
		t.Errorf("trace = %v, want %v", v.trace, want)
	}
}

func TestDispatcherRoutesHandlers(t *testing.T) {
	var seen []Kind
	d := NewDispatcher(nil)
	d.Handlers[KindParagraph] = func(n Node) (VisitResult, error) {
		seen = append(seen, n.Kind())
		return SkipChildren, nil
	}
	d.Optional[KindSection] = true

	tree := NewElement(KindSection, NewTextElement(KindParagraph, "x"))
	if _, err := Walk(tree, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 1 || seen[0] != KindParagraph {
		t.Errorf("expected paragraph handled, got %v", seen)
	}
}

func TestDispatcherUnknownKindIsFatal(t *testing.T) {
	d := NewDispatcher(nil)
	d.Optional[KindSection] = true

	tree := NewElement(KindSection, NewTextElement(KindParagraph, "x"))
	// paragraph has no handler and is not optional
	if _, err := Walk(tree, d); err == nil {
		t.Fatalf("expected unhandled kind to fail the walk")
	}

	d.DefaultVisit = func(n Node) (VisitResult, error) { return Continue, nil }
	if _, err := Walk(tree, d); err != nil {
		t.Errorf("default handler must cover unknown kinds: %v", err)
	}
}

func TestDispatcherStrictMakesOptionalFatal(t *testing.T) {
	d := NewDispatcher(nil)
	d.Optional[KindSection] = true
	d.Strict = true

	if _, err := Walk(NewElement(KindSection), d); err == nil {
		t.Errorf("strict dispatching must fail even on optional kinds")
	}
}

func TestNewDispatcherTakesStrictnessFromSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.StrictVisitor = true
	if d := NewDispatcher(NewDocument(settings, nil)); !d.Strict {
		t.Errorf("expected strictness wired from the settings")
	}
	if d := NewDispatcher(NewDocument(DefaultSettings(), nil)); d.Strict {
		t.Errorf("expected lenient dispatcher by default")
	}
}

func TestTreeCopyVisitor(t *testing.T) {
	orig := NewElement(KindSection,
		NewTextElement(KindTitle, "T"),
		NewTextElement(KindParagraph, "body"),
	)
	v := &TreeCopyVisitor{}
	if _, err := WalkAbout(orig, v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dup := v.Root()
	if dup.PFormat("  ", 0) != orig.PFormat("  ", 0) {
		t.Fatalf("copy renders differently:\n%s\nvs\n%s",
			dup.PFormat("  ", 0), orig.PFormat("  ", 0))
	}
	AsElement(dup).Append(NewTextElement(KindParagraph, "extra"))
	if orig.Len() != 2 {
		t.Errorf("mutating the copy changed the original")
	}
}
