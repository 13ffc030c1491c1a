package probtree

import (
	"fmt"
	"strings"
)

// Node is a branch or leaf of a probability tree.
//
// A node owns its children. The parent pointer is a lookup aid used to find
// siblings and to report paths; it never owns anything.
type Node struct {
	probability Probability
	initial     Probability
	name        string
	value       any
	children    []*Node
	parent      *Node
}

// Option configures a Node during construction.
type Option func(*Node) error

// WithProbability sets the node's share of its parent's mass.
func WithProbability(p Probability) Option {
	return func(n *Node) error {
		n.probability = p
		return nil
	}
}

// WithName labels the node for lookups.
func WithName(name string) Option {
	return func(n *Node) error {
		n.name = name
		return nil
	}
}

// WithValue attaches an opaque payload, typically on leaves.
func WithValue(v any) Option {
	return func(n *Node) error {
		n.value = v
		return nil
	}
}

// WithChildren attaches pre-built children in order.
func WithChildren(children ...*Node) Option {
	return func(n *Node) error {
		for _, c := range children {
			if err := n.AddChild(c); err != nil {
				return err
			}
		}
		return nil
	}
}

// New builds a node. The initial probability used by the reset operations is
// captured once the options are applied.
func New(opts ...Option) (*Node, error) {
	n := &Node{}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	n.initial = n.probability
	return n, nil
}

// Must panics if err is non-nil. It wraps calls to New for static trees.
func Must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}

// AddChild appends child and points it back at n. Probabilities are left as
// they are; callers either supply children that already sum to 1 or follow up
// with a bulk assignment.
func (n *Node) AddChild(child *Node) error {
	if child == nil {
		return ErrInvalidChild
	}
	if child.parent != nil {
		return fmt.Errorf("%w: %s", ErrAttached, child.label())
	}
	for a := n; a != nil; a = a.parent {
		if a == child {
			return fmt.Errorf("%w: %s", ErrCycle, child.label())
		}
	}
	child.parent = n
	n.children = append(n.children, child)
	return nil
}

// AddNew builds a child from constructor options and attaches it.
func (n *Node) AddNew(opts ...Option) (*Node, error) {
	child, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := n.AddChild(child); err != nil {
		return nil, err
	}
	return child, nil
}

// Probability returns the node's current share.
func (n *Node) Probability() Probability { return n.probability }

// InitialProbability returns the share captured at construction.
func (n *Node) InitialProbability() Probability { return n.initial }

// Name returns the node label, possibly empty.
func (n *Node) Name() string { return n.name }

// Value returns the node payload.
func (n *Node) Value() any { return n.value }

// Parent returns the owning node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Len returns the number of direct children.
func (n *Node) Len() int { return len(n.children) }

// Child returns the i-th child or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the direct children. The slice is a copy; the nodes are live.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildByName returns the first direct child named name.
// Unnamed children never match.
func (n *Node) ChildByName(name string) (*Node, bool) {
	if name == "" {
		return nil, false
	}
	for _, c := range n.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// IndexOf returns the position of child among n's children, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Path returns the chain of nodes from the root down to n.
func (n *Node) Path() []*Node {
	var path []*Node
	for a := n; a != nil; a = a.parent {
		path = append(path, a)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathString renders the path as slash separated labels, e.g. "/6/up".
func (n *Node) PathString() string {
	path := n.Path()
	if len(path) == 1 {
		return "/"
	}
	parts := make([]string, 0, len(path)-1)
	for _, p := range path[1:] {
		parts = append(parts, p.label())
	}
	return "/" + strings.Join(parts, "/")
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func (n *Node) Walk(fn func(depth int, node *Node) bool) {
	n.walk(0, fn)
}

func (n *Node) walk(depth int, fn func(int, *Node) bool) {
	if !fn(depth, n) {
		return
	}
	for _, c := range n.children {
		c.walk(depth+1, fn)
	}
}

func (n *Node) label() string {
	if n.name != "" {
		return n.name
	}
	if n.parent != nil {
		return fmt.Sprintf("#%d", n.parent.IndexOf(n))
	}
	return "root"
}

func (n *Node) String() string {
	return fmt.Sprintf("<Node %s: %s>", n.label(), n.probability)
}
