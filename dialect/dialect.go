package dialect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shrek82/msitable/model"
)

// Dialect maps installer table schemas onto a SQL database.
// Each database (MySQL, SQLite, etc.) must implement this interface to be supported.
type Dialect interface {
	// DataTypeOf returns the database-specific data type for a column
	DataTypeOf(col *model.Column) string
	// Quote wraps a name (table or column) in database-specific quotes
	Quote(name string) string
	// Placeholder returns the bind parameter for the 1-based index
	Placeholder(index int) string
	// InsertSQL generates the INSERT statement for the given table and columns
	InsertSQL(table string, columns []string) (string, []any)
	// CreateTableSQL generates the CREATE TABLE statement for the given schema
	CreateTableSQL(s *model.TableSchema) (string, []any)
	// HasTableSQL generates the SQL to check if a table exists
	HasTableSQL(tableName string) (string, []any)
	// DeleteSQL generates the statement removing every row of a table
	DeleteSQL(table string) (string, []any)
}

var dialects = make(map[string]Dialect)

// Register registers a new dialect for a given driver name
func Register(name string, d Dialect) {
	dialects[name] = d
}

// Get retrieves a registered dialect by driver name
func Get(name string) (Dialect, bool) {
	d, ok := dialects[name]
	return d, ok
}

// Names returns the registered driver names in sorted order.
func Names() []string {
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func insertSQL(d Dialect, table string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.Quote(c)
		placeholders[i] = d.Placeholder(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.Quote(table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)
}

// createTableSQL renders columns in schema order with a table-level
// primary key so that composite keys keep their column order.
func createTableSQL(d Dialect, s *model.TableSchema) string {
	var defs []string
	for i := range s.Columns {
		col := &s.Columns[i]
		def := fmt.Sprintf("%s %s", d.Quote(col.Name), d.DataTypeOf(col))
		if !col.Nullable {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	var keys []string
	for _, i := range s.PrimaryKeyIndices() {
		keys = append(keys, d.Quote(s.Columns[i].Name))
	}
	if len(keys) > 0 {
		defs = append(defs, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(keys, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", d.Quote(s.Name), strings.Join(defs, ", "))
}
