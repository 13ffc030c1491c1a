package dsl

import (
	"errors"
	"fmt"

	"github.com/zojize/exusiai-bot/pkg/probtree"
)

// Builder manages the construction of one tree.
type Builder struct {
	root *NodeBuilder
}

// New creates a builder whose root node carries name.
func New(name string) *Builder {
	return &Builder{root: &NodeBuilder{name: name}}
}

// Add declares a child of the root with probability p.
func (b *Builder) Add(name string, p float64) *NodeBuilder {
	return b.root.Add(name, p)
}

// Value sets the root payload.
func (b *Builder) Value(v any) *Builder {
	b.root.value = v
	return b
}

// Build converts the declared nodes into a probtree.Node and validates it.
// Conversion errors for every node are reported together.
func (b *Builder) Build() (*probtree.Node, error) {
	var errs []error
	root := b.root.build("", &errs)
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to build tree: %w", errors.Join(errs...))
	}
	if err := root.Validate(); err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	return root, nil
}
