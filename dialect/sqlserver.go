package dialect

import (
	"fmt"

	"github.com/shrek82/msitable/model"
)

// SQL Server has no driver linked in; the dialect only renders DDL.
type sqlserver struct{}

func init() {
	Register("sqlserver", &sqlserver{})
}

func (d *sqlserver) DataTypeOf(col *model.Column) string {
	switch col.Storage {
	case model.StorageInteger:
		if col.Width <= 16 {
			return "smallint"
		}
		return "int"
	case model.StorageBinary:
		return "varbinary(max)"
	}
	if col.Width == 0 {
		return "nvarchar(max)"
	}
	return fmt.Sprintf("nvarchar(%d)", col.Width)
}

func (d *sqlserver) Quote(name string) string {
	return fmt.Sprintf("[%s]", name)
}

func (d *sqlserver) Placeholder(index int) string {
	return fmt.Sprintf("@p%d", index)
}

func (d *sqlserver) InsertSQL(table string, columns []string) (string, []any) {
	return insertSQL(d, table, columns), nil
}

func (d *sqlserver) CreateTableSQL(s *model.TableSchema) (string, []any) {
	return createTableSQL(d, s), nil
}

func (d *sqlserver) HasTableSQL(tableName string) (string, []any) {
	return "SELECT count(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_NAME = @p1", []any{tableName}
}

func (d *sqlserver) DeleteSQL(table string) (string, []any) {
	return "DELETE FROM " + d.Quote(table), nil
}
