package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCategory is returned when an explicit category override names a category absent from the catalog.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrUnsupportedType is returned when inference finds zero or several categories for a field's value type.
	ErrUnsupportedType = errors.New("ambiguous or unsupported type")
	// ErrInvalidTag is returned when a struct tag cannot be parsed.
	ErrInvalidTag = errors.New("invalid msi tag")
	// ErrNotStruct is returned when a DAO value is not a struct or pointer to struct.
	ErrNotStruct = errors.New("value must be a struct or pointer to struct")
	// ErrForeignKey is returned when a foreign key points at a missing table or column.
	ErrForeignKey = errors.New("invalid foreign key")
)

// FieldError names the DAO field a build-time error belongs to.
type FieldError struct {
	Table string
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("field %s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("table %s field %s: %v", e.Table, e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
