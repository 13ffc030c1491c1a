package probtree

import "fmt"

// Choice performs one weighted draw among the children and returns the live
// child node. A leaf returns itself.
//
// Weights are the children's probabilities in hundredths. They are not
// checked to sum to 1 here; use Validate when the tree is built.
func (n *Node) Choice(src Source) (*Node, error) {
	if len(n.children) == 0 {
		return n, nil
	}

	var total int64
	for _, c := range n.children {
		total += c.probability.Cents()
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: %s has no probability mass", ErrEmptyChildSelection, n.PathString())
	}

	r := orGlobal(src).Int64N(total)
	for _, c := range n.children {
		r -= c.probability.Cents()
		if r < 0 {
			return c, nil
		}
	}
	return n.children[len(n.children)-1], nil
}

// ChoiceRecursive draws level by level until it reaches a leaf.
func (n *Node) ChoiceRecursive(src Source) (*Node, error) {
	cur := n
	for !cur.IsLeaf() {
		next, err := cur.Choice(src)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
