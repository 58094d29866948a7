package core

import (
	"errors"
	"fmt"

	"github.com/shrek82/msitable/model"
	"github.com/shrek82/msitable/validator"
)

var (
	// ErrUnknownCategory is returned when an explicit category override names a category absent from the catalog.
	ErrUnknownCategory = model.ErrUnknownCategory
	// ErrUnsupportedType is returned when inference finds zero or several categories for a field's value type.
	ErrUnsupportedType = model.ErrUnsupportedType
	// ErrInvalidSchema is returned when a table violates one or more schema rules.
	ErrInvalidSchema = validator.ErrInvalidSchema
	// ErrInvalidModel is returned when a DAO value does not match the mapping it is used with.
	ErrInvalidModel = errors.New("invalid model")
	// ErrConversion is returned when a row value does not match its column.
	ErrConversion = errors.New("conversion error")
	// ErrRowShapeMismatch is returned when a row has the wrong number of values.
	ErrRowShapeMismatch = errors.New("row shape mismatch")
	// ErrDuplicateKey is returned when an entry's primary key conflicts with an existing entry.
	ErrDuplicateKey = errors.New("duplicate key")
)

// ConversionError names the column a value failed to convert for.
type ConversionError struct {
	Table  string
	Column string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("table %s column %s: %v", e.Table, e.Column, e.Err)
}

func (e *ConversionError) Unwrap() []error {
	return []error{ErrConversion, e.Err}
}

// RowShapeError reports a row whose length differs from the column count.
type RowShapeError struct {
	Table string
	Want  int
	Got   int
}

func (e *RowShapeError) Error() string {
	return fmt.Sprintf("table %s: row has %d values, schema has %d columns", e.Table, e.Got, e.Want)
}

func (e *RowShapeError) Unwrap() error {
	return ErrRowShapeMismatch
}
