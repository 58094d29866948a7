package model

import (
	"errors"
	"fmt"
)

// ForeignKey points a column at a column of another table.
type ForeignKey struct {
	Table  string `json:"table" yaml:"table"`
	Column int    `json:"column" yaml:"column"`
}

func (fk *ForeignKey) String() string {
	return fmt.Sprintf("%s.%d", fk.Table, fk.Column)
}

// CheckForeignKeys verifies that every foreign key among the schemas points at
// an existing column of a known table, and that the referenced column has the
// same storage. Schemas referencing tables outside the set are reported too.
// All problems are returned together.
func CheckForeignKeys(schemas ...*TableSchema) error {
	byName := make(map[string]*TableSchema, len(schemas))
	for _, s := range schemas {
		byName[s.Name] = s
	}

	var errs []error
	for _, s := range schemas {
		for _, c := range s.Columns {
			if c.ForeignKey == nil {
				continue
			}
			target, ok := byName[c.ForeignKey.Table]
			if !ok {
				errs = append(errs, &FieldError{Table: s.Name, Field: c.Field,
					Err: fmt.Errorf("%w: table %q is not defined", ErrForeignKey, c.ForeignKey.Table)})
				continue
			}
			if c.ForeignKey.Column >= len(target.Columns) {
				errs = append(errs, &FieldError{Table: s.Name, Field: c.Field,
					Err: fmt.Errorf("%w: %s has %d columns", ErrForeignKey, c.ForeignKey, len(target.Columns))})
				continue
			}
			ref := target.Columns[c.ForeignKey.Column]
			if ref.Storage != c.Storage {
				errs = append(errs, &FieldError{Table: s.Name, Field: c.Field,
					Err: fmt.Errorf("%w: %s stores %s, column stores %s", ErrForeignKey, c.ForeignKey, ref.Storage, c.Storage)})
			}
		}
	}
	return errors.Join(errs...)
}
