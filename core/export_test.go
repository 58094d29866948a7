package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrek82/msitable/dialect"
	"github.com/shrek82/msitable/model"
	"github.com/shrek82/msitable/pool"
)

func openMemoryExporter(t *testing.T, c *Compiler) (*Exporter, *pool.StdPool) {
	t.Helper()
	p, err := pool.Open(context.Background(), "sqlite3", ":memory:", &pool.Options{MaxOpenConns: 1})
	require.NoError(t, err)
	d, ok := dialect.Get("sqlite3")
	require.True(t, ok)
	e := NewExporter(p, d, c)
	t.Cleanup(func() { e.Close() })
	return e, p
}

func TestCatalog(t *testing.T) {
	m, err := NewCompiler(nil).CompileType(scenarioDao{})
	require.NoError(t, err)
	tables, columns := Catalog(m.Schema())
	assert.Equal(t, []TablesEntry{{Name: "Scenario"}}, tables)
	assert.Equal(t, []ColumnsEntry{
		{Table: "Scenario", Number: 1, Name: "ID", Type: "i2"},
		{Table: "Scenario", Number: 2, Name: "Name", Type: "s64"},
		{Table: "Scenario", Number: 3, Name: "Flag", Type: "I2"},
	}, columns)
}

func TestExportSQLite(t *testing.T) {
	ctx := context.Background()
	c := NewCompiler(nil)
	e, p := openMemoryExporter(t, c)

	comp, err := c.CompileType(componentDao{})
	require.NoError(t, err)
	file, err := c.CompileType(fileDao{})
	require.NoError(t, err)
	schemas := []*model.TableSchema{comp.Schema(), file.Schema()}

	require.NoError(t, e.Export(ctx, schemas...))
	// A second export replaces the catalog rows instead of duplicating them.
	require.NoError(t, e.Export(ctx, schemas...))

	var n int
	require.NoError(t, p.QueryRowContext(ctx, "SELECT count(*) FROM `_Tables`").Scan(&n))
	assert.Equal(t, 2, n)
	require.NoError(t, p.QueryRowContext(ctx, "SELECT count(*) FROM `_Columns`").Scan(&n))
	assert.Equal(t, 5, n)

	var typ string
	require.NoError(t, p.QueryRowContext(ctx,
		"SELECT `Type` FROM `_Columns` WHERE `Table` = ? AND `Number` = ?", "Component", 2).Scan(&typ))
	assert.Equal(t, "S72", typ)

	require.NoError(t, p.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type='table' AND name = ?", "File").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestWriteRows(t *testing.T) {
	ctx := context.Background()
	c := NewCompiler(nil)
	e, p := openMemoryExporter(t, c)

	table, err := NewTable[scenarioDao](c)
	require.NoError(t, err)
	flag := uint16(4)
	require.NoError(t, table.Insert(scenarioDao{ID: 1, Name: "a"}, scenarioDao{ID: 2, Name: "b", Flag: &flag}))
	rows, err := table.Rows()
	require.NoError(t, err)
	require.NoError(t, e.WriteRows(ctx, table.Schema(), rows))

	var name string
	var got *int64
	require.NoError(t, p.QueryRowContext(ctx, "SELECT `Name`, `Flag` FROM `Scenario` WHERE `ID` = 1").Scan(&name, &got))
	assert.Equal(t, "a", name)
	assert.Nil(t, got)

	err = e.WriteRows(ctx, table.Schema(), []Row{{Int(3)}})
	assert.ErrorIs(t, err, ErrRowShapeMismatch)
}
