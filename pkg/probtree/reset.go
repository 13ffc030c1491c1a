package probtree

// Reset restores the node's own probability to its constructed value.
func (n *Node) Reset() {
	n.probability = n.initial
}

// ResetChildren restores every direct child. Grandchildren are untouched.
func (n *Node) ResetChildren() {
	for _, c := range n.children {
		c.Reset()
	}
}

// ResetChildrenRecursive restores the whole subtree below n.
func (n *Node) ResetChildrenRecursive() {
	for _, c := range n.children {
		if !c.IsLeaf() {
			c.ResetChildrenRecursive()
		}
		c.Reset()
	}
}
