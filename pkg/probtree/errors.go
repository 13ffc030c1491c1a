package probtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidProbability is returned when a value falls outside [0, 1].
var ErrInvalidProbability = errors.New("invalid probability")

// ErrNameNotFound is returned when no direct child carries the requested name.
var ErrNameNotFound = errors.New("child name not found")

// ErrDegenerateRenormalization is returned when a child that holds the whole
// mass is lowered: its siblings have nothing to scale proportionally.
var ErrDegenerateRenormalization = errors.New("degenerate renormalization")

// ErrEmptyChildSelection is returned when children cannot support a weighted draw.
var ErrEmptyChildSelection = errors.New("children do not form a valid distribution")

// ErrChildIndex is returned for an out of range child position.
var ErrChildIndex = errors.New("child index out of range")

// ErrTooManyProbabilities is returned when a positional assignment has more
// values than there are children.
var ErrTooManyProbabilities = errors.New("more probabilities than children")

// ErrInvalidChild is returned when attaching a nil node.
var ErrInvalidChild = errors.New("invalid child")

// ErrAttached is returned when attaching a node that already has a parent.
var ErrAttached = errors.New("node already has a parent")

// ErrCycle is returned when a node would become its own descendant.
var ErrCycle = errors.New("attaching node would create a cycle")

// ImbalanceError reports a branch whose children do not sum to 1.
type ImbalanceError struct {
	Path string
	Sum  decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("children of %s sum to %s, want 1.00", e.Path, e.Sum.StringFixed(Places))
}

func (e *ImbalanceError) Unwrap() error {
	return ErrEmptyChildSelection
}

// AggregateError groups every imbalance found in a single validation pass.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d unbalanced branches:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}
