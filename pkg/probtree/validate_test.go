package probtree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	root := nested(t)
	require.NoError(t, root.Validate())

	require.NoError(t, root.SetChildrenFloats(0.6, 0.3))
	require.NoError(t, root.Child(0).SetChildrenFloats(0.7, 0.2))

	err := root.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyChildSelection)

	var agg *AggregateError
	require.True(t, errors.As(err, &agg))
	require.Len(t, agg.Errors, 2)

	var imb *ImbalanceError
	require.True(t, errors.As(agg.Errors[0], &imb))
	assert.Equal(t, "/", imb.Path)
	assert.Equal(t, "0.90", imb.Sum.StringFixed(2))
	assert.Contains(t, agg.Errors[1].Error(), "/a")
	assert.Contains(t, err.Error(), "2 unbalanced branches")
}

func TestValidate_LeafIsValid(t *testing.T) {
	assert.NoError(t, Must(New()).Validate())
}
