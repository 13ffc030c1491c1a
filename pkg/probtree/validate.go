package probtree

// Validate checks that every branch in the subtree rooted at n has children
// summing to exactly 1. All offending branches are reported together.
func (n *Node) Validate() error {
	var errs []error
	n.Walk(func(_ int, node *Node) bool {
		if node.IsLeaf() {
			return true
		}
		if sum := Sum(node.probabilities()...); !sum.Equal(one) {
			errs = append(errs, &ImbalanceError{Path: node.PathString(), Sum: sum})
		}
		return true
	})
	if len(errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: errs}
}

func (n *Node) probabilities() []Probability {
	ps := make([]Probability, len(n.children))
	for i, c := range n.children {
		ps[i] = c.probability
	}
	return ps
}
