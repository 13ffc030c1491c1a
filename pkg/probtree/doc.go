/*
Package probtree implements a weighted probability tree.

Every node holds a probability expressed relative to its siblings: the
children of a branch share a total mass of exactly 1. A draw descends the
tree one weighted choice per level until it reaches a leaf, which makes the
structure a natural fit for layered loot tables such as
category → rarity → outcome.

# Probabilities

Probability is an exact decimal with two fractional digits in [0, 1].
Approximate input (float64) and exact input (decimal.Decimal, strings) are
normalized once at the boundary, so two equal probabilities always compare
and sum identically.

	p, err := probtree.FromFloat(0.08) // 0.08
	q := probtree.MustFloat(0.125)      // 0.12 (half-to-even)

# Mutation

Changing one child through its parent redistributes the difference across
the siblings in proportion to their current share, keeping the sum at 1:

	root := probtree.Must(probtree.New(probtree.WithChildren(a, b, c))) // 0.5, 0.3, 0.2
	_ = root.SetChildProbability(0, probtree.MustFloat(0.8))           // 0.8, 0.12, 0.08

ResetChildren and ResetChildrenRecursive restore the probabilities captured
at construction time.

# Randomness

Draws take an explicit Source so that sampling is reproducible under a fixed
seed. A nil Source falls back to the global math/rand/v2 generator.

	src := probtree.NewSource(42)
	leaf, err := root.ChoiceRecursive(src)

A tree is not safe for concurrent use. Guard the whole tree with a single
lock when sharing it, since a draw followed by a mutation is not atomic.
*/
package probtree
