package doctree

import "iter"

// FindOptions selects which nodes Find visits and in which directions
// it moves from the start node.
type FindOptions struct {
	// Class filters by node class. Nil matches every node.
	Class *Class
	// Where is an arbitrary extra condition, combined with Class.
	Where func(Node) bool

	// Self includes the start node itself.
	Self bool
	// Descend searches the start node's subtree.
	Descend bool
	// Siblings continues with the following siblings (and their
	// subtrees when Descend is set).
	Siblings bool
	// Ascend repeats the sibling scan at every ancestor level.
	// Implies Siblings.
	Ascend bool
}

func (o FindOptions) matches(n Node) bool {
	if o.Class != nil && !o.Class.Matches(n) {
		return false
	}
	if o.Where != nil && !o.Where(n) {
		return false
	}
	return true
}

// Find returns a lazy depth-first iterator over the nodes the options
// select, in document order starting at n. The tree may be modified
// during iteration; children are read live.
func Find(n Node, opts FindOptions) iter.Seq[Node] {
	if opts.Ascend {
		opts.Siblings = true
	}
	if opts.Self && opts.Descend && !opts.Siblings {
		if opts.Class == nil && opts.Where == nil {
			return func(yield func(Node) bool) { everyNode(n, yield) }
		}
		if opts.Where == nil {
			c := *opts.Class
			return func(yield func(Node) bool) { everyNodeOfClass(n, c, yield) }
		}
	}
	return func(yield func(Node) bool) { findall(n, opts, yield) }
}

// everyNode yields the whole subtree without condition checks.
func everyNode(n Node, yield func(Node) bool) bool {
	if !yield(n) {
		return false
	}
	for _, child := range n.Children() {
		if !everyNode(child, yield) {
			return false
		}
	}
	return true
}

func everyNodeOfClass(n Node, c Class, yield func(Node) bool) bool {
	if c.Matches(n) && !yield(n) {
		return false
	}
	for _, child := range n.Children() {
		if !everyNodeOfClass(child, c, yield) {
			return false
		}
	}
	return true
}

func findall(n Node, opts FindOptions, yield func(Node) bool) bool {
	if opts.Self && opts.matches(n) && !yield(n) {
		return false
	}
	if opts.Descend {
		for _, child := range n.Children() {
			sub := opts
			sub.Self = true
			sub.Descend = true
			sub.Siblings = false
			sub.Ascend = false
			if !findall(child, sub, yield) {
				return false
			}
		}
	}
	if opts.Siblings {
		node := n
		for {
			parent := node.Parent()
			if parent == nil {
				break
			}
			index := parent.Index(node)
			if index < 0 {
				break
			}
			for _, sibling := range parent.Children()[index+1:] {
				sub := opts
				sub.Self = true
				sub.Siblings = false
				sub.Ascend = false
				if !findall(sibling, sub, yield) {
					return false
				}
			}
			if !opts.Ascend {
				break
			}
			node = parent
		}
	}
	return true
}

// FindAll collects the iterator's results in a slice.
func FindAll(n Node, opts FindOptions) []Node {
	var nodes []Node
	for found := range Find(n, opts) {
		nodes = append(nodes, found)
	}
	return nodes
}

// First returns the first match, or nil.
func First(n Node, opts FindOptions) Node {
	for found := range Find(n, opts) {
		return found
	}
	return nil
}

// NextNode returns the first node after n in document order that the
// options select, not counting n's own subtree.
func NextNode(n Node, opts FindOptions) Node {
	opts.Self = false
	opts.Descend = false
	opts.Siblings = true
	opts.Ascend = true
	return First(n, opts)
}
