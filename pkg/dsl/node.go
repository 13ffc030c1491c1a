package dsl

import (
	"fmt"

	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	name     string
	p        float64
	value    any
	children []*NodeBuilder
}

// Add declares a child with probability p and returns its builder.
func (n *NodeBuilder) Add(name string, p float64) *NodeBuilder {
	child := &NodeBuilder{name: name, p: p}
	n.children = append(n.children, child)
	return child
}

// Value sets the node payload.
func (n *NodeBuilder) Value(v any) *NodeBuilder {
	n.value = v
	return n
}

// Uniform declares one leaf per value, sharing the mass evenly in whole
// hundredths. Any remainder goes to the first leaves.
func (n *NodeBuilder) Uniform(names []string, values []any) *NodeBuilder {
	if len(names) == 0 {
		return n
	}
	each := 100 / len(names)
	extra := 100 % len(names)
	for i, name := range names {
		cents := each
		if i < extra {
			cents++
		}
		child := n.Add(name, float64(cents)/100)
		if i < len(values) {
			child.value = values[i]
		}
	}
	return n
}

func (n *NodeBuilder) build(parentPath string, errs *[]error) *probtree.Node {
	path := parentPath + "/" + n.name

	p, err := probtree.FromFloat(n.p)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
	}

	node := probtree.Must(probtree.New(
		probtree.WithName(n.name),
		probtree.WithProbability(p),
		probtree.WithValue(n.value),
	))
	for _, c := range n.children {
		if err := node.AddChild(c.build(path, errs)); err != nil {
			*errs = append(*errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	return node
}
