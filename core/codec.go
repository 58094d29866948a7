package core

import (
	"fmt"
	"reflect"

	"github.com/shrek82/msitable/model"
)

// Codec is the typed conversion pair of a DAO struct type T.
type Codec[T any] struct {
	m *Mapping
}

// NewCodec compiles T with c, or with the default compiler when c is nil.
func NewCodec[T any](c *Compiler) (*Codec[T], error) {
	if c == nil {
		c = defaultCompiler
	}
	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: codec type must be a struct, got %s", ErrInvalidModel, typ)
	}
	m, err := c.CompileType(typ)
	if err != nil {
		return nil, err
	}
	return &Codec[T]{m: m}, nil
}

// Schema returns the table schema of T.
func (c *Codec[T]) Schema() *model.TableSchema {
	return c.m.Schema()
}

// Mapping returns the untyped conversion pair.
func (c *Codec[T]) Mapping() *Mapping {
	return c.m
}

// ToRow converts v into a row.
func (c *Codec[T]) ToRow(v T) (Row, error) {
	return c.m.ToRow(&v)
}

// FromRow converts row into a new T.
func (c *Codec[T]) FromRow(row Row) (T, error) {
	var v T
	if err := c.m.FromRow(row, &v); err != nil {
		var zero T
		return zero, err
	}
	if err := callAfterLoad(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Conflicts reports whether a and b have equal primary keys. It fails when
// either value cannot be converted into a row.
func (c *Codec[T]) Conflicts(a, b T) (bool, error) {
	return c.m.Conflicts(&a, &b)
}
