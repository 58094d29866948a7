package dialect

import (
	"fmt"

	"github.com/shrek82/msitable/model"
)

// SQLite dialect implementation
type sqlite3 struct{}

func init() {
	Register("sqlite3", &sqlite3{})
}

func (d *sqlite3) DataTypeOf(col *model.Column) string {
	switch col.Storage {
	case model.StorageInteger:
		return "integer"
	case model.StorageBinary:
		return "blob"
	}
	return "text"
}

func (d *sqlite3) Quote(name string) string {
	return fmt.Sprintf("`%s`", name)
}

func (d *sqlite3) Placeholder(int) string {
	return "?"
}

func (d *sqlite3) InsertSQL(table string, columns []string) (string, []any) {
	return insertSQL(d, table, columns), nil
}

func (d *sqlite3) CreateTableSQL(s *model.TableSchema) (string, []any) {
	return createTableSQL(d, s), nil
}

func (d *sqlite3) HasTableSQL(tableName string) (string, []any) {
	return "SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", []any{tableName}
}

func (d *sqlite3) DeleteSQL(table string) (string, []any) {
	return "DELETE FROM " + d.Quote(table), nil
}
