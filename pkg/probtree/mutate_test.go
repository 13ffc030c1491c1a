package probtree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func probs(n *Node) []string {
	out := make([]string, n.Len())
	for i, c := range n.Children() {
		out[i] = c.Probability().String()
	}
	return out
}

func assertBalanced(t *testing.T, n *Node) {
	t.Helper()
	assert.Equal(t, "1.00", Sum(n.probabilities()...).StringFixed(Places))
}

func TestSetChildProbability_Proportional(t *testing.T) {
	root := level(t, []string{"a", "b", "c"}, 0.5, 0.3, 0.2)

	require.NoError(t, root.SetChildProbability(0, MustFloat(0.8)))

	assert.Equal(t, []string{"0.80", "0.12", "0.08"}, probs(root))
	assertBalanced(t, root)
}

func TestSetProbability_ThroughChild(t *testing.T) {
	root := level(t, []string{"a", "b", "c"}, 0.5, 0.3, 0.2)
	a, _ := root.ChildByName("a")

	require.NoError(t, a.SetProbabilityFloat(0.8))
	assert.Equal(t, []string{"0.80", "0.12", "0.08"}, probs(root))

	// Lowering hands the mass back in proportion.
	require.NoError(t, a.SetProbabilityFloat(0.5))
	assert.Equal(t, []string{"0.50", "0.30", "0.20"}, probs(root))
}

func TestSetProbability_ReadBackRounded(t *testing.T) {
	root := level(t, []string{"a", "b"}, 0.5, 0.5)
	a := root.Child(0)

	require.NoError(t, a.SetProbabilityFloat(0.333))
	assert.Equal(t, "0.33", a.Probability().String())

	p, err := Parse("0.6")
	require.NoError(t, err)
	require.NoError(t, a.SetProbability(p))
	assert.Equal(t, "0.60", a.Probability().String())
	assertBalanced(t, root)
}

func TestSetProbability_RoundingKeepsTotal(t *testing.T) {
	root := level(t, []string{"a", "b", "c", "d"}, 0.25, 0.25, 0.25, 0.25)

	require.NoError(t, root.SetChildProbability(0, MustFloat(0.01)))
	assertBalanced(t, root)
	assert.Equal(t, "0.01", root.Child(0).Probability().String())

	require.NoError(t, root.SetChildProbability(1, MustFloat(0.77)))
	assertBalanced(t, root)

	require.NoError(t, root.SetChildProbability(3, MustFloat(0.07)))
	assertBalanced(t, root)
}

func TestSetProbability_ManyMutationsStayBalanced(t *testing.T) {
	root := level(t, []string{"a", "b", "c", "d", "e", "f", "g"}, 0.3, 0.2, 0.15, 0.15, 0.1, 0.07, 0.03)
	values := []float64{0.91, 0.13, 0.47, 0.02, 0.66, 0.29, 0.5, 0.99, 0.01, 0.33}

	for i, v := range values {
		err := root.SetChildProbability(i%root.Len(), MustFloat(v))
		require.NoError(t, err)
		assertBalanced(t, root)
		for _, c := range root.Children() {
			assert.GreaterOrEqual(t, c.Probability().Cents(), int64(0))
		}
	}
}

func TestSetProbability_ToOne(t *testing.T) {
	root := level(t, []string{"a", "b", "c"}, 0.5, 0.3, 0.2)

	require.NoError(t, root.SetChildProbability(0, One))
	assert.Equal(t, []string{"1.00", "0.00", "0.00"}, probs(root))
}

func TestSetProbability_Degenerate(t *testing.T) {
	root := level(t, []string{"a", "b", "c"}, 1, 0, 0)

	err := root.SetChildProbability(0, MustFloat(0.4))
	assert.ErrorIs(t, err, ErrDegenerateRenormalization)
	assert.Equal(t, []string{"1.00", "0.00", "0.00"}, probs(root))

	// Re-asserting the same value is a no-op, not a division.
	assert.NoError(t, root.SetChildProbability(0, One))
}

func TestSetProbability_RejectedValueLeavesTreeUnchanged(t *testing.T) {
	root := level(t, []string{"a", "b", "c"}, 0.5, 0.3, 0.2)

	err := root.Child(0).SetProbabilityFloat(1.5)
	assert.ErrorIs(t, err, ErrInvalidProbability)
	assert.Equal(t, []string{"0.50", "0.30", "0.20"}, probs(root))
}

func TestSetProbability_Root(t *testing.T) {
	root := level(t, []string{"a"}, 1)
	require.NoError(t, root.SetProbabilityFloat(0.3))
	assert.Equal(t, "0.30", root.Probability().String())
	assert.Equal(t, []string{"1.00"}, probs(root))
}

func TestSetChildProbability_BadIndex(t *testing.T) {
	root := level(t, []string{"a"}, 1)
	assert.ErrorIs(t, root.SetChildProbability(1, Zero), ErrChildIndex)
	assert.ErrorIs(t, root.SetChildProbability(-1, Zero), ErrChildIndex)
}

func TestSetChildProbabilityByName(t *testing.T) {
	root := level(t, []string{"a", "b", "c"}, 0.5, 0.3, 0.2)

	require.NoError(t, root.SetChildProbabilityByName("c", MustFloat(0.6)))
	assert.Equal(t, []string{"0.25", "0.15", "0.60"}, probs(root))

	err := root.SetChildProbabilityByName("x", One)
	assert.ErrorIs(t, err, ErrNameNotFound)
}

func TestSetChildrenProbabilities_Positional(t *testing.T) {
	root := level(t, []string{"a", "b", "c", "d"}, 0.25, 0.25, 0.25, 0.25)

	require.NoError(t, root.SetChildrenFloats(0.5, 0.4, 0.08, 0.02))
	assert.Equal(t, []string{"0.50", "0.40", "0.08", "0.02"}, probs(root))
	assert.Equal(t, []string{"a", "b", "c", "d"}, []string{
		root.Child(0).Name(), root.Child(1).Name(), root.Child(2).Name(), root.Child(3).Name(),
	})
}

func TestSetChildrenProbabilities_ShortListLeavesTail(t *testing.T) {
	root := level(t, []string{"a", "b", "c"}, 0.2, 0.3, 0.5)

	require.NoError(t, root.SetChildrenProbabilities(MustFloat(0.3), MustFloat(0.2)))
	assert.Equal(t, []string{"0.30", "0.20", "0.50"}, probs(root))
}

func TestSetChildrenProbabilities_TooMany(t *testing.T) {
	root := level(t, []string{"a"}, 1)

	err := root.SetChildrenProbabilities(MustFloat(0.5), MustFloat(0.5))
	assert.ErrorIs(t, err, ErrTooManyProbabilities)
	assert.Equal(t, []string{"1.00"}, probs(root))
}

func TestSetChildrenFloats_Atomic(t *testing.T) {
	root := level(t, []string{"a", "b"}, 0.5, 0.5)

	err := root.SetChildrenFloats(0.9, 1.1)
	assert.ErrorIs(t, err, ErrInvalidProbability)
	assert.Equal(t, []string{"0.50", "0.50"}, probs(root))
}

func TestSetChildrenByName(t *testing.T) {
	root := level(t, []string{"a", "b", "c"}, 0.2, 0.3, 0.5)

	require.NoError(t, root.SetChildrenFloatsByName(map[string]float64{"a": 0.6, "c": 0.1}))
	assert.Equal(t, []string{"0.60", "0.30", "0.10"}, probs(root))
}

func TestSetChildrenByName_UnknownNameIsAtomic(t *testing.T) {
	root := level(t, []string{"a", "b", "c"}, 0.2, 0.3, 0.5)

	err := root.SetChildrenFloatsByName(map[string]float64{"a": 0.6, "b": 0.1, "zz": 0.3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNameNotFound))
	assert.Contains(t, err.Error(), `"zz"`)
	assert.Equal(t, []string{"0.20", "0.30", "0.50"}, probs(root))
}
