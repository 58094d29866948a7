package core

import (
	"fmt"

	"github.com/shrek82/msitable/model"
)

// Table holds the entries of one installer table and rejects entries whose
// primary key is already present.
type Table[T any] struct {
	codec   *Codec[T]
	entries []T
	keys    map[string]struct{}
	ids     *IdentifierGenerator
	idIndex int
}

// NewTable compiles T with c (the default compiler when nil) and returns an
// empty table.
func NewTable[T any](c *Compiler) (*Table[T], error) {
	codec, err := NewCodec[T](c)
	if err != nil {
		return nil, err
	}
	t := &Table[T]{
		codec:   codec,
		keys:    make(map[string]struct{}),
		idIndex: -1,
	}
	schema := codec.Schema()
	for i := range schema.Columns {
		col := &schema.Columns[i]
		if col.PrimaryKey && col.Identifier && col.ForeignKey == nil {
			t.idIndex = i
			if col.Generated {
				t.ids = NewIdentifierGenerator(schema.Name)
			}
		}
	}
	return t, nil
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.codec.Schema().Name }

// Schema returns the table schema.
func (t *Table[T]) Schema() *model.TableSchema { return t.codec.Schema() }

// Columns returns the column definitions in order.
func (t *Table[T]) Columns() []model.Column { return t.codec.Schema().Columns }

// PrimaryKeyIndices returns the positions of the primary key columns.
func (t *Table[T]) PrimaryKeyIndices() []int { return t.codec.Schema().PrimaryKeyIndices() }

// Codec returns the table's conversion pair.
func (t *Table[T]) Codec() *Codec[T] { return t.codec }

// Len returns the number of entries.
func (t *Table[T]) Len() int { return len(t.entries) }

// Entries returns a copy of the entries in insertion order.
func (t *Table[T]) Entries() []T {
	out := make([]T, len(t.entries))
	copy(out, t.entries)
	return out
}

// Insert adds entries in order. It stops at the first entry whose primary
// key is already present and returns ErrDuplicateKey.
func (t *Table[T]) Insert(entries ...T) error {
	for _, e := range entries {
		if err := callBeforeInsert(&e); err != nil {
			return fmt.Errorf("table %s: %w", t.Name(), err)
		}
		row, err := t.codec.ToRow(e)
		if err != nil {
			return err
		}
		key := t.codec.m.rowKey(row)
		if _, dup := t.keys[key]; dup {
			return fmt.Errorf("%w: table %s already has an entry with key %s", ErrDuplicateKey, t.Name(), t.describeKey(row))
		}
		t.keys[key] = struct{}{}
		t.entries = append(t.entries, e)
		if t.ids != nil && t.idIndex >= 0 {
			if id, ok := row[t.idIndex].AsStr(); ok {
				t.ids.MarkUsed(id)
			}
		}
	}
	return nil
}

func (t *Table[T]) describeKey(row Row) string {
	var parts []any
	for _, i := range t.PrimaryKeyIndices() {
		parts = append(parts, row[i])
	}
	return fmt.Sprint(parts...)
}

// Rows converts every entry into a row.
func (t *Table[T]) Rows() ([]Row, error) {
	rows := make([]Row, 0, len(t.entries))
	for _, e := range t.entries {
		row, err := t.codec.ToRow(e)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Load converts rows into entries and inserts them.
func (t *Table[T]) Load(rows []Row) error {
	for _, row := range rows {
		e, err := t.codec.FromRow(row)
		if err != nil {
			return err
		}
		if err := t.Insert(e); err != nil {
			return err
		}
	}
	return nil
}

// NextIdentifier returns an unused identifier for a table whose primary key
// is a generated identifier.
func (t *Table[T]) NextIdentifier() (string, error) {
	if t.ids == nil {
		return "", fmt.Errorf("%w: table %s has no generated identifier", ErrInvalidModel, t.Name())
	}
	return t.ids.Next(), nil
}
