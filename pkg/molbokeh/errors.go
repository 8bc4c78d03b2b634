package molbokeh

import (
	"errors"
	"fmt"
)

// ErrColumnNotFound indicates the SMILES column is missing from the data source.
var ErrColumnNotFound = errors.New("column not found")

// ErrInvalidSmiles indicates a structure string could not be parsed.
var ErrInvalidSmiles = errors.New("invalid structure notation")

// ErrInvalidOptions indicates option values failed validation.
var ErrInvalidOptions = errors.New("invalid options")

// RowError represents a failure to render the structure in one row.
type RowError struct {
	Row    int
	Column string
	Value  any
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d column %q (value %q): %v", e.Row, e.Column, fmt.Sprint(e.Value), e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// NewRowError creates a new RowError.
func NewRowError(row int, column string, value any, err error) *RowError {
	return &RowError{
		Row:    row,
		Column: column,
		Value:  value,
		Err:    err,
	}
}

// NewOptionsError wraps a validation failure in ErrInvalidOptions.
func NewOptionsError(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
}
