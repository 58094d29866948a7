package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shrek82/msitable/dialect"
	"github.com/shrek82/msitable/logger"
	"github.com/shrek82/msitable/model"
	"github.com/shrek82/msitable/pool"
)

// TablesEntry is a row of the _Tables system table.
type TablesEntry struct {
	Name string `msi:"pk category:Identifier size:64"`
}

func (TablesEntry) TableName() string { return "_Tables" }

// ColumnsEntry is a row of the _Columns system table.
type ColumnsEntry struct {
	Table  string `msi:"pk category:Identifier size:64 fk:_Tables"`
	Number int16  `msi:"pk"`
	Name   string `msi:"category:Identifier size:64"`
	Type   string `msi:"category:Text size:8"`
}

func (ColumnsEntry) TableName() string { return "_Columns" }

// Catalog builds the _Tables and _Columns entries describing schemas.
// Column numbers start at 1.
func Catalog(schemas ...*model.TableSchema) ([]TablesEntry, []ColumnsEntry) {
	tables := make([]TablesEntry, 0, len(schemas))
	var columns []ColumnsEntry
	for _, s := range schemas {
		tables = append(tables, TablesEntry{Name: s.Name})
		for i := range s.Columns {
			col := &s.Columns[i]
			columns = append(columns, ColumnsEntry{
				Table:  s.Name,
				Number: int16(i + 1),
				Name:   col.Name,
				Type:   col.TypeCode(),
			})
		}
	}
	return tables, columns
}

// Exporter writes compiled schemas into a SQL database.
type Exporter struct {
	pool     pool.Pool
	dialect  dialect.Dialect
	logger   logger.Logger
	compiler *Compiler
}

// NewExporter creates an exporter over an open pool. The compiler is used
// for the system table types; the default compiler when nil.
func NewExporter(p pool.Pool, d dialect.Dialect, c *Compiler) *Exporter {
	if c == nil {
		c = defaultCompiler
	}
	return &Exporter{pool: p, dialect: d, logger: c.Logger(), compiler: c}
}

// OpenExporter opens a connection for driver and dsn.
func OpenExporter(ctx context.Context, driver, dsn string, c *Compiler) (*Exporter, error) {
	d, ok := dialect.Get(driver)
	if !ok {
		return nil, fmt.Errorf("unknown dialect %s", driver)
	}
	p, err := pool.Open(ctx, driver, dsn, nil)
	if err != nil {
		return nil, err
	}
	return NewExporter(p, d, c), nil
}

// SetLogger sets a custom logger for the exporter.
func (e *Exporter) SetLogger(l logger.Logger) {
	e.logger = l
}

// Close closes the underlying pool.
func (e *Exporter) Close() error {
	return e.pool.Close()
}

// Export creates the system catalog tables and one empty table per schema,
// then replaces the catalog rows. Everything happens in one transaction.
func (e *Exporter) Export(ctx context.Context, schemas ...*model.TableSchema) error {
	start := time.Now()
	tablesMap, err := e.compiler.CompileType(TablesEntry{})
	if err != nil {
		return err
	}
	columnsMap, err := e.compiler.CompileType(ColumnsEntry{})
	if err != nil {
		return err
	}

	tx, err := e.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	all := append([]*model.TableSchema{tablesMap.Schema(), columnsMap.Schema()}, schemas...)
	for _, s := range all {
		if err := e.ensureTable(ctx, tx, s); err != nil {
			return err
		}
	}

	tables, columns := Catalog(schemas...)
	tableRows, err := entryRows(tablesMap, tables)
	if err != nil {
		return err
	}
	columnRows, err := entryRows(columnsMap, columns)
	if err != nil {
		return err
	}
	if err := e.replaceRows(ctx, tx, tablesMap.Schema(), tableRows); err != nil {
		return err
	}
	if err := e.replaceRows(ctx, tx, columnsMap.Schema(), columnRows); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	e.logger.Info("exported %d tables (%d columns) in %v", len(tables), len(columns), time.Since(start))
	return nil
}

func (e *Exporter) ensureTable(ctx context.Context, tx *sql.Tx, s *model.TableSchema) error {
	q, args := e.dialect.HasTableSQL(s.Name)
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return fmt.Errorf("check table %s: %w", s.Name, err)
	}
	if n > 0 {
		return nil
	}
	q, args = e.dialect.CreateTableSQL(s)
	e.logger.Debug("%s", q)
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("create table %s: %w", s.Name, err)
	}
	return nil
}

func (e *Exporter) replaceRows(ctx context.Context, tx *sql.Tx, s *model.TableSchema, rows []Row) error {
	q, args := e.dialect.DeleteSQL(s.Name)
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("clear table %s: %w", s.Name, err)
	}
	return e.insertRows(ctx, tx, s, rows)
}

func entryRows[E any](m *Mapping, entries []E) ([]Row, error) {
	rows := make([]Row, 0, len(entries))
	for i := range entries {
		row, err := m.ToRow(&entries[i])
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (e *Exporter) insertRows(ctx context.Context, tx *sql.Tx, s *model.TableSchema, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	q, _ := e.dialect.InsertSQL(s.Name, s.ColumnNames())
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return fmt.Errorf("prepare insert into %s: %w", s.Name, err)
	}
	defer stmt.Close()
	for _, row := range rows {
		if len(row) != len(s.Columns) {
			return &RowShapeError{Table: s.Name, Want: len(s.Columns), Got: len(row)}
		}
		args := make([]any, len(row))
		for i, v := range row {
			args[i] = v.Any()
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", s.Name, err)
		}
	}
	return nil
}

// WriteRows appends rows to the table of s, creating the table when it is
// missing.
func (e *Exporter) WriteRows(ctx context.Context, s *model.TableSchema, rows []Row) error {
	tx, err := e.pool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := e.ensureTable(ctx, tx, s); err != nil {
		return err
	}
	if err := e.insertRows(ctx, tx, s, rows); err != nil {
		return err
	}
	return tx.Commit()
}
