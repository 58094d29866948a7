package dialect

import (
	"fmt"

	"github.com/shrek82/msitable/model"
)

// PostgreSQL dialect implementation
type postgres struct{}

func init() {
	Register("postgres", &postgres{})
}

func (d *postgres) DataTypeOf(col *model.Column) string {
	switch col.Storage {
	case model.StorageInteger:
		if col.Width <= 16 {
			return "smallint"
		}
		return "integer"
	case model.StorageBinary:
		return "bytea"
	}
	if col.Width == 0 {
		return "text"
	}
	return fmt.Sprintf("varchar(%d)", col.Width)
}

func (d *postgres) Quote(name string) string {
	// PostgreSQL uses double quotes for identifiers
	return fmt.Sprintf(`"%s"`, name)
}

func (d *postgres) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

func (d *postgres) InsertSQL(table string, columns []string) (string, []any) {
	return insertSQL(d, table, columns), nil
}

func (d *postgres) CreateTableSQL(s *model.TableSchema) (string, []any) {
	return createTableSQL(d, s), nil
}

func (d *postgres) HasTableSQL(tableName string) (string, []any) {
	return "SELECT count(*) FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1", []any{tableName}
}

func (d *postgres) DeleteSQL(table string) (string, []any) {
	return "DELETE FROM " + d.Quote(table), nil
}
