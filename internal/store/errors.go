package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by mutating operations aimed at an unknown
	// record. Read paths report absence as a nil result instead.
	ErrNotFound = errors.New("record not found")

	// ErrTimeConflict is returned when a new appointment overlaps an
	// existing pending or confirmed one for the same barber.
	ErrTimeConflict = errors.New("time slot already booked")
)

// InconsistentError reports a join target referenced by id that is missing
// from the store. Surfaced explicitly instead of crashing on dereference.
type InconsistentError struct {
	Entity string
	ID     string
}

func (e InconsistentError) Error() string {
	return fmt.Sprintf("referenced %s %s is missing", e.Entity, e.ID)
}

func IsInconsistent(err error) bool {
	var ie InconsistentError
	return errors.As(err, &ie)
}
