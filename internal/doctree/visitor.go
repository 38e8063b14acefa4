package doctree

import (
	"fmt"
	"slices"
)

// VisitResult steers traversal from a visitor's Visit method.
type VisitResult int

const (
	// Continue proceeds into the node's children.
	Continue VisitResult = iota
	// SkipChildren skips the children; the departure still runs.
	SkipChildren
	// SkipSiblings skips the children, the departure, and the
	// remaining siblings of this node.
	SkipSiblings
	// SkipNode skips the children and the departure.
	SkipNode
	// SkipDeparture processes the children but not the departure.
	SkipDeparture
	// Stop ends the traversal. In WalkAbout the departures of this
	// node and its ancestors still run on the way out.
	Stop
)

// Visitor handles nodes during traversal. Depart is only used by
// WalkAbout.
type Visitor interface {
	Visit(n Node) (VisitResult, error)
	Depart(n Node) error
}

// traversal signals propagated up the recursion
type traversalSignal int

const (
	sigProceed traversalSignal = iota
	sigSkipSiblings
	sigStop
)

// Walk traverses the subtree depth first, calling Visit on each node.
// It reports whether the traversal was stopped early.
func Walk(n Node, v Visitor) (bool, error) {
	sig, err := walk(n, v)
	return sig == sigStop, err
}

func walk(n Node, v Visitor) (traversalSignal, error) {
	res, err := v.Visit(n)
	if err != nil {
		return sigStop, err
	}
	switch res {
	case SkipChildren, SkipNode:
		return sigProceed, nil
	case SkipSiblings:
		return sigSkipSiblings, nil
	case Stop:
		return sigStop, nil
	}
	// SkipDeparture only concerns WalkAbout; here it proceeds normally.
	for _, child := range slices.Clone(n.Children()) {
		sig, err := walk(child, v)
		if err != nil {
			return sigStop, err
		}
		if sig == sigStop {
			return sigStop, nil
		}
		if sig == sigSkipSiblings {
			break
		}
	}
	return sigProceed, nil
}

// WalkAbout traverses the subtree depth first, calling Visit on the
// way down and Depart on the way up. It reports whether the traversal
// was stopped early.
func WalkAbout(n Node, v Visitor) (bool, error) {
	sig, err := walkabout(n, v)
	return sig == sigStop, err
}

func walkabout(n Node, v Visitor) (traversalSignal, error) {
	callDepart := true
	stop := false
	res, err := v.Visit(n)
	if err != nil {
		return sigStop, err
	}
	switch res {
	case SkipNode:
		return sigProceed, nil
	case SkipSiblings:
		// skips children, own departure, and the parent's remaining
		// siblings
		return sigSkipSiblings, nil
	case SkipDeparture:
		callDepart = false
		fallthrough
	case Continue:
		for _, child := range slices.Clone(n.Children()) {
			sig, err := walkabout(child, v)
			if err != nil {
				return sigStop, err
			}
			if sig == sigStop {
				stop = true
				break
			}
			if sig == sigSkipSiblings {
				break
			}
		}
	case SkipChildren:
		// departure still runs
	case Stop:
		stop = true
	}
	if callDepart {
		if err := v.Depart(n); err != nil {
			return sigStop, err
		}
	}
	if stop {
		return sigStop, nil
	}
	return sigProceed, nil
}

// VisitFunc handles one node kind on the way down.
type VisitFunc func(n Node) (VisitResult, error)

// DepartFunc handles one node kind on the way up.
type DepartFunc func(n Node) error

// Dispatcher is a Visitor that routes nodes to per-kind handlers. A
// kind with neither a handler nor a default is an error unless it is
// listed in Optional; Strict makes even optional kinds fatal.
type Dispatcher struct {
	Handlers   map[Kind]VisitFunc
	Departures map[Kind]DepartFunc

	DefaultVisit  VisitFunc
	DefaultDepart DepartFunc

	Optional map[Kind]bool
	Strict   bool
}

// NewDispatcher returns an empty dispatcher honoring the document's
// StrictVisitor setting.
func NewDispatcher(doc *Document) *Dispatcher {
	d := &Dispatcher{
		Handlers:   make(map[Kind]VisitFunc),
		Departures: make(map[Kind]DepartFunc),
		Optional:   make(map[Kind]bool),
	}
	if doc != nil {
		d.Strict = doc.Settings.StrictVisitor
	}
	return d
}

func (d *Dispatcher) Visit(n Node) (VisitResult, error) {
	if h, ok := d.Handlers[n.Kind()]; ok {
		return h(n)
	}
	if d.DefaultVisit != nil {
		return d.DefaultVisit(n)
	}
	if d.Strict || !d.Optional[n.Kind()] {
		return Stop, fmt.Errorf("no visit handler for node kind %q", n.Kind())
	}
	return Continue, nil
}

func (d *Dispatcher) Depart(n Node) error {
	if h, ok := d.Departures[n.Kind()]; ok {
		return h(n)
	}
	if d.DefaultDepart != nil {
		return d.DefaultDepart(n)
	}
	if d.Strict || !d.Optional[n.Kind()] {
		return fmt.Errorf("no depart handler for node kind %q", n.Kind())
	}
	return nil
}

// TreeCopyVisitor builds a deep copy of the traversed subtree. Use
// with WalkAbout; the result is available from Root.
type TreeCopyVisitor struct {
	root  Node
	stack []*Element
}

func (v *TreeCopyVisitor) Visit(n Node) (VisitResult, error) {
	dup := n.Copy()
	if len(v.stack) == 0 {
		v.root = dup
	} else {
		v.stack[len(v.stack)-1].Append(dup)
	}
	el := AsElement(dup)
	if el == nil {
		// text leaf, nothing to descend into
		return SkipNode, nil
	}
	v.stack = append(v.stack, el)
	return Continue, nil
}

func (v *TreeCopyVisitor) Depart(n Node) error {
	v.stack = v.stack[:len(v.stack)-1]
	return nil
}

// Root returns the copied tree.
func (v *TreeCopyVisitor) Root() Node { return v.root }
