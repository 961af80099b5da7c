package swarm

import (
	"errors"
	"fmt"
)

// Domain errors for decoding, sampling and aggregation.
var (
	// ErrDataFormat indicates a log row with the wrong width or a non-numeric position field.
	ErrDataFormat = errors.New("swarm: malformed log data")

	// ErrOutOfRange indicates a requested row or sample beyond the available rows.
	ErrOutOfRange = errors.New("swarm: index out of range")

	// ErrShapeMismatch indicates series that cannot be aligned for aggregation.
	ErrShapeMismatch = errors.New("swarm: series shape mismatch")

	// ErrInvalidSampling indicates a non-positive stride or sample count.
	ErrInvalidSampling = errors.New("swarm: invalid sampling configuration")
)

// DataFormatError locates a decoding failure in the log. Robot and Column
// are -1 when the failure concerns a whole row.
type DataFormatError struct {
	Row    int
	Robot  int
	Column int
	Field  string
	Reason string
}

func (e *DataFormatError) Error() string {
	switch {
	case e.Robot >= 0:
		return fmt.Sprintf("%v: row %d robot %d column %d (%q): %s", ErrDataFormat, e.Row, e.Robot, e.Column, e.Field, e.Reason)
	case e.Row >= 0:
		return fmt.Sprintf("%v: row %d: %s", ErrDataFormat, e.Row, e.Reason)
	default:
		return fmt.Sprintf("%v: %s", ErrDataFormat, e.Reason)
	}
}

func (e *DataFormatError) Unwrap() error {
	return ErrDataFormat
}

// OutOfRangeError reports an index that is not below Limit.
type OutOfRangeError struct {
	What  string
	Index int
	Limit int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%v: %s %d, have %d", ErrOutOfRange, e.What, e.Index, e.Limit)
}

func (e *OutOfRangeError) Unwrap() error {
	return ErrOutOfRange
}

// ShapeMismatchError reports the first run whose series does not line up
// with the rest of the collection.
type ShapeMismatchError struct {
	Run    int
	Reason string
}

func (e *ShapeMismatchError) Error() string {
	if e.Run < 0 {
		return fmt.Sprintf("%v: %s", ErrShapeMismatch, e.Reason)
	}
	return fmt.Sprintf("%v: run %d: %s", ErrShapeMismatch, e.Run, e.Reason)
}

func (e *ShapeMismatchError) Unwrap() error {
	return ErrShapeMismatch
}
