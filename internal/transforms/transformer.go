// Package transforms modifies finished document trees: decoration,
// message handling, cleanup, and typographic polishing. Transforms are
// collected on a Transformer and applied in priority order.
package transforms

import (
	"sort"

	"github.com/dgallion1/doctree/internal/doctree"
)

type entry struct {
	priority int
	// serial keeps the insertion order among equal priorities
	serial    int
	transform doctree.Transform
	pending   *doctree.Pending
}

// Transformer schedules and applies transforms for one document. It
// implements doctree.PendingScheduler so pending nodes queue their
// transforms here.
type Transformer struct {
	doc    *doctree.Document
	queue  []entry
	serial int

	// Applied lists the transforms already run, in order.
	Applied []doctree.Transform
}

// NewTransformer attaches a new transformer to the document.
func NewTransformer(doc *doctree.Document) *Transformer {
	t := &Transformer{doc: doc}
	doc.Transformer = t
	return t
}

// Add queues transforms at their own priorities.
func (t *Transformer) Add(transforms ...doctree.Transform) {
	for _, tf := range transforms {
		t.AddAt(tf, tf.Priority(), nil)
	}
}

// AddAt queues one transform at an explicit priority, optionally bound
// to a pending node.
func (t *Transformer) AddAt(tf doctree.Transform, priority int, pending *doctree.Pending) {
	t.serial++
	t.queue = append(t.queue, entry{
		priority:  priority,
		serial:    t.serial,
		transform: tf,
		pending:   pending,
	})
}

// AddPending queues the transform carried by a pending node. A
// non-positive priority defers to the transform's own.
func (t *Transformer) AddPending(p *doctree.Pending, priority int) {
	if priority <= 0 {
		priority = p.Transform.Priority()
	}
	t.AddAt(p.Transform, priority, p)
}

// Apply runs all queued transforms in (priority, insertion) order.
// Transforms queued while running are applied too.
func (t *Transformer) Apply() error {
	for len(t.queue) > 0 {
		sort.SliceStable(t.queue, func(i, j int) bool {
			if t.queue[i].priority != t.queue[j].priority {
				return t.queue[i].priority < t.queue[j].priority
			}
			return t.queue[i].serial < t.queue[j].serial
		})
		e := t.queue[0]
		t.queue = t.queue[1:]
		if err := e.transform.Apply(t.doc, e.pending); err != nil {
			return err
		}
		t.Applied = append(t.Applied, e.transform)
	}
	return nil
}
