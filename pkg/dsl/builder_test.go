package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zojize/exusiai-bot/pkg/probtree"
)

func TestBuilder_SimpleTree(t *testing.T) {
	b := New("loot")

	rare := b.Add("rare", 0.1)
	rare.Add("sword", 0.5).Value("Sword of Dawn")
	rare.Add("shield", 0.5).Value("Aegis")
	b.Add("common", 0.9).Value("Copper coin")

	tree, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "loot", tree.Name())
	require.Equal(t, 2, tree.Len())

	r, ok := tree.ChildByName("rare")
	require.True(t, ok)
	assert.Equal(t, "0.10", r.Probability().String())
	assert.Equal(t, "0.10", r.InitialProbability().String())

	sword, ok := r.ChildByName("sword")
	require.True(t, ok)
	assert.Equal(t, "Sword of Dawn", sword.Value())
	assert.Same(t, r, sword.Parent())
}

func TestBuilder_RejectsUnbalancedLevel(t *testing.T) {
	b := New("bad")
	b.Add("a", 0.5)
	b.Add("b", 0.4)

	_, err := b.Build()
	assert.ErrorIs(t, err, probtree.ErrEmptyChildSelection)
}

func TestBuilder_CollectsConversionErrors(t *testing.T) {
	b := New("bad")
	b.Add("a", 1.2)
	b.Add("b", -1)

	_, err := b.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, probtree.ErrInvalidProbability)
	assert.Contains(t, err.Error(), "/bad/a")
	assert.Contains(t, err.Error(), "/bad/b")
}

func TestNodeBuilder_Uniform(t *testing.T) {
	b := New("dice")
	b.Add("d3", 1).Uniform([]string{"1", "2", "3"}, []any{1, 2, 3})

	tree, err := b.Build()
	require.NoError(t, err)

	d3 := tree.Child(0)
	require.Equal(t, 3, d3.Len())
	assert.Equal(t, "0.34", d3.Child(0).Probability().String())
	assert.Equal(t, "0.33", d3.Child(1).Probability().String())
	assert.Equal(t, 3, d3.Child(2).Value())
}

func TestBuilder_DrawsFromBuiltTree(t *testing.T) {
	b := New("coin")
	b.Add("heads", 0.5).Value("H")
	b.Add("tails", 0.5).Value("T")

	tree, err := b.Build()
	require.NoError(t, err)

	got, err := tree.ChoiceRecursive(probtree.NewSource(3))
	require.NoError(t, err)
	assert.Contains(t, []any{"H", "T"}, got.Value())
}

func TestBuilder_BuildTwiceGivesIndependentTrees(t *testing.T) {
	b := New("loot")
	rare := b.Add("rare", 0.5)
	rare.Add("sword", 1).Value("Sword of Dawn")
	b.Add("common", 0.5)

	first, err := b.Build()
	require.NoError(t, err)
	second, err := b.Build()
	require.NoError(t, err, "every build attaches fresh nodes")

	require.NoError(t, first.SetChildProbabilityByName("rare", probtree.MustFloat(0.9)))
	assert.Equal(t, "0.50", second.Child(0).Probability().String())

	sword, ok := second.Child(0).ChildByName("sword")
	require.True(t, ok)
	assert.Same(t, second.Child(0), sword.Parent())
}
