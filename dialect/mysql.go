package dialect

import (
	"fmt"

	"github.com/shrek82/msitable/model"
)

// MySQL dialect implementation
type mysql struct{}

func init() {
	Register("mysql", &mysql{})
}

func (d *mysql) DataTypeOf(col *model.Column) string {
	switch col.Storage {
	case model.StorageInteger:
		if col.Width <= 16 {
			return "smallint"
		}
		return "int"
	case model.StorageBinary:
		return "longblob"
	}
	if col.Width == 0 {
		return "longtext"
	}
	return fmt.Sprintf("varchar(%d)", col.Width)
}

func (d *mysql) Quote(name string) string {
	return fmt.Sprintf("`%s`", name)
}

func (d *mysql) Placeholder(int) string {
	return "?"
}

func (d *mysql) InsertSQL(table string, columns []string) (string, []any) {
	return insertSQL(d, table, columns), nil
}

func (d *mysql) CreateTableSQL(s *model.TableSchema) (string, []any) {
	return createTableSQL(d, s), nil
}

func (d *mysql) HasTableSQL(tableName string) (string, []any) {
	return "SELECT count(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?", []any{tableName}
}

func (d *mysql) DeleteSQL(table string) (string, []any) {
	return "DELETE FROM " + d.Quote(table), nil
}
