package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBannerNotFound is returned when a banner name is unknown to the catalog.
var ErrBannerNotFound = errors.New("banner not found")

// ErrOperatorNotFound is returned when an operator name is unknown to the catalog.
var ErrOperatorNotFound = errors.New("operator not found")

// ErrEmptyPool is returned when a rarity with a non-zero rate has no operators.
var ErrEmptyPool = errors.New("empty operator pool")

// ErrInvalidCount is returned when a pull count is outside the allowed range.
var ErrInvalidCount = errors.New("invalid pull count")

// ErrNoBanner is returned when pulling before any banner is selected.
var ErrNoBanner = errors.New("no banner selected")

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Key    string // Field path, e.g. "banners[0].rates"
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Key, e.Reason, e.Value)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}
