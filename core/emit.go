package core

import (
	"github.com/shrek82/msitable/model"
)

// emitSchema builds the descriptor of a validated field list. Fields arrive
// in declaration order, so column i carries ordinal i.
func emitSchema(table string, fields []*model.Field) *model.TableSchema {
	s := &model.TableSchema{
		Name:    table,
		Columns: make([]model.Column, len(fields)),
	}
	for i, f := range fields {
		col := model.NewColumn(f)
		col.Ordinal = i
		s.Columns[i] = col
	}
	return s
}
