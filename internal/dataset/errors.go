package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceNotFound indicates the input path does not resolve to a file.
	ErrSourceNotFound = errors.New("source not found")
	// ErrColumnNotFound indicates a column was referenced that the table does not carry.
	ErrColumnNotFound = errors.New("column not found")
	// ErrUnknownColumn indicates a name that matches no column of the schema.
	ErrUnknownColumn = errors.New("unknown column")
	// ErrNotNumeric indicates a numeric accessor was used on a text column.
	ErrNotNumeric = errors.New("column is not numeric")
)

// SourceReadError reports malformed or unreadable source content. Line is
// 1-based and counts the header; zero when the failure is not tied to a line.
type SourceReadError struct {
	Path string
	Line int
	Err  error
}

func (e *SourceReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("read %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *SourceReadError) Unwrap() error { return e.Err }

// InsufficientDataError indicates a column has no usable values to impute from.
type InsufficientDataError struct {
	Column Column
	Step   string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: column %q has no usable values (%s)", e.Column, e.Step)
}
