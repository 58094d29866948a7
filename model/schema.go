package model

import (
	"fmt"
	"strings"
)

// Storage is the physical representation of a column's values.
type Storage string

const (
	StorageInteger Storage = "integer"
	StorageString  Storage = "string"
	StorageBinary  Storage = "binary"
)

// Column is one column definition of an installer table.
type Column struct {
	Name        string      `json:"name"`
	Field       string      `json:"field"`
	Category    string      `json:"category"`
	Storage     Storage     `json:"storage"`
	Width       int         `json:"width"`
	Nullable    bool        `json:"nullable,omitempty"`
	PrimaryKey  bool        `json:"primary_key,omitempty"`
	Localizable bool        `json:"localizable,omitempty"`
	Identifier  bool        `json:"identifier,omitempty"`
	Generated   bool        `json:"generated,omitempty"`
	ForeignKey  *ForeignKey `json:"foreign_key,omitempty"`
	Ordinal     int         `json:"ordinal"`
}

// TypeCode returns the column type as written to the _Columns system table:
// a storage letter ('i' integer, 's' string, 'l' localizable string, 'v'
// binary) followed by the width in bytes or characters. Nullable columns
// use the upper-case letter.
func (c *Column) TypeCode() string {
	var code string
	switch c.Storage {
	case StorageInteger:
		code = fmt.Sprintf("i%d", c.Width/8)
	case StorageBinary:
		code = "v0"
	default:
		if c.Localizable {
			code = fmt.Sprintf("l%d", c.Width)
		} else {
			code = fmt.Sprintf("s%d", c.Width)
		}
	}
	if c.Nullable {
		code = strings.ToUpper(code[:1]) + code[1:]
	}
	return code
}

// TableSchema is the ordered column description of one installer table.
// Primary key columns form a leading prefix of Columns.
type TableSchema struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// PrimaryKeyIndices returns the positions of the primary key columns.
func (s *TableSchema) PrimaryKeyIndices() []int {
	var idx []int
	for i, c := range s.Columns {
		if c.PrimaryKey {
			idx = append(idx, i)
		}
	}
	return idx
}

// Column returns the column with the given name.
func (s *TableSchema) Column(name string) (*Column, bool) {
	for i := range s.Columns {
		if s.Columns[i].Name == name {
			return &s.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames returns the column names in order.
func (s *TableSchema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryIdentifier returns the key identifier column that names rows of this
// table, if there is one.
func (s *TableSchema) PrimaryIdentifier() (*Column, bool) {
	for i := range s.Columns {
		c := &s.Columns[i]
		if c.PrimaryKey && c.Identifier && c.ForeignKey == nil {
			return c, true
		}
	}
	return nil, false
}

// StorageOf returns the storage used by the fields resolved to f's category.
func StorageOf(f *Field) Storage {
	switch {
	case f.Category.IsInteger():
		return StorageInteger
	case f.Category.IsBinary():
		return StorageBinary
	default:
		return StorageString
	}
}

// NewColumn converts a resolved field into its column definition.
func NewColumn(f *Field) Column {
	return Column{
		Name:        f.Column,
		Field:       f.Name,
		Category:    f.Category.Name,
		Storage:     StorageOf(f),
		Width:       f.Width,
		Nullable:    f.Nullable,
		PrimaryKey:  f.Key,
		Localizable: f.Localizable,
		Identifier:  f.Identifier,
		Generated:   f.Generated,
		ForeignKey:  f.ForeignKey,
		Ordinal:     f.Ordinal,
	}
}
