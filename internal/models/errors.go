package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the seat ledger and lookup paths. Handlers translate
// these into HTTP status codes; services never log-and-swallow them.
var (
	// ErrSeatConflict is returned when a seat is already occupied by another
	// booking entry. Callers may retry with a different seat.
	ErrSeatConflict = errors.New("seat already occupied")

	// ErrSeatNotFound is returned when a (trip, bus, seat number) tuple does
	// not resolve to a generated seat.
	ErrSeatNotFound = errors.New("seat not found")

	// ErrNotFound signals an absent record on a by-id lookup. Absence is an
	// expected outcome, callers must check for it with errors.Is.
	ErrNotFound = errors.New("record not found")
)

// ReferenceNotFoundError is returned when a mandatory foreign reference on a
// booking entry does not resolve.
type ReferenceNotFoundError struct {
	Kind string
	ID   string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NewReferenceNotFound builds a ReferenceNotFoundError for the given entity kind.
func NewReferenceNotFound(kind, id string) error {
	return &ReferenceNotFoundError{Kind: kind, ID: id}
}

// IsReferenceNotFound reports whether err wraps a ReferenceNotFoundError.
func IsReferenceNotFound(err error) bool {
	var refErr *ReferenceNotFoundError
	return errors.As(err, &refErr)
}

// LayoutError is returned when a bus seat layout is inconsistent with the
// declared capacity or contains invalid entries.
type LayoutError struct {
	Reason string
}

func (e *LayoutError) Error() string {
	return "invalid seat layout: " + e.Reason
}

// IsLayoutError reports whether err wraps a LayoutError.
func IsLayoutError(err error) bool {
	var layoutErr *LayoutError
	return errors.As(err, &layoutErr)
}
