package models

import "fmt"

// IDNotANumberError reports a lookup whose id path segment was not numeric.
// It carries the raw offending id so the transport layer can echo it back.
type IDNotANumberError struct {
	ID string
}

func (e *IDNotANumberError) Error() string {
	return fmt.Sprintf("id %q is not a number", e.ID)
}

// StationNotFoundError reports a well-formed station id with no match.
type StationNotFoundError struct {
	ID int
}

func (e *StationNotFoundError) Error() string {
	return fmt.Sprintf("no station found with id %d", e.ID)
}

// JourneyNotFoundError reports a well-formed journey id with no match.
type JourneyNotFoundError struct {
	ID int64
}

func (e *JourneyNotFoundError) Error() string {
	return fmt.Sprintf("no bicycle journey found with id %d", e.ID)
}
