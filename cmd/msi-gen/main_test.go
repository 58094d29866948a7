package main

import (
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrek82/msitable/model"
	"github.com/shrek82/msitable/schemafile"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheck(t *testing.T) {
	out, err := run(t, "check", "testdata/tables.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "ok Component (3 columns, key [Component])")
	assert.Contains(t, out, "ok File (4 columns, key [File])")
}

func TestCheckJSON(t *testing.T) {
	out, err := run(t, "check", "--json", "testdata/tables.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "FileName"`)
	assert.Contains(t, out, `"localizable": true`)
}

func TestCheckReportsEveryDefect(t *testing.T) {
	out, err := run(t, "check", "testdata/broken.yaml")
	require.Error(t, err)
	assert.Contains(t, out, "unknown category")
	assert.NotContains(t, out, "key-prefix", "build errors stop the table before validation")

	dir := t.TempDir()
	path := filepath.Join(dir, "keys.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`version: 1.0.0
tables:
  - name: Keys
    columns:
      - {name: Name, type: string}
      - {name: ID, type: "*uint16", key: true}
`), 0644))
	out, err = run(t, "check", path)
	require.Error(t, err)
	assert.Contains(t, out, "key-prefix")
	assert.Contains(t, out, "nullable-key")
}

func TestGen(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "gen", "--out", dir, "testdata/tables.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	src, err := os.ReadFile(filepath.Join(dir, "file.go"))
	require.NoError(t, err)
	code := string(src)
	assert.Contains(t, code, "package tables")
	assert.Contains(t, code, "type FileRow struct")
	assert.Contains(t, code, "`msi:\"category:Identifier fk:Component\"`")
	assert.Contains(t, code, "`msi:\"column:fileSize\"`")
	assert.Contains(t, code, `return "File"`)
	_, err = parser.ParseFile(token.NewFileSet(), "file.go", src, 0)
	assert.NoError(t, err)

	src, err = os.ReadFile(filepath.Join(dir, "component.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "type ComponentDao struct")
	assert.Contains(t, string(src), "ComponentId *string")

	out, err = run(t, "gen", "--out", dir, "testdata/tables.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "skip")
}

func TestGenerateTag(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, "pk category:Identifier size:64 column:Key notnull localizable fk:Registry.1 identifier",
		generateTag(model.Attributes{
			Key: &yes, Category: "Identifier", Width: 64, Column: "Key", Nullable: &no,
			Localizable: &yes, ForeignKey: &model.ForeignKey{Table: "Registry", Column: 1}, Identifier: true,
		}))
	assert.Equal(t, "", generateTag(model.Attributes{}))
}

func TestGeneratedTagsRoundTrip(t *testing.T) {
	f, err := schemafile.Load("testdata/tables.yaml")
	require.NoError(t, err)
	for _, table := range f.Tables {
		for _, fd := range table.Definition().Fields {
			tag, err := model.ParseTag(generateTag(fd.Attrs))
			require.NoError(t, err)
			assert.Equal(t, fd.Attrs, tag.Attributes, "%s.%s", table.Name, fd.Name)
		}
	}
}

func TestExportName(t *testing.T) {
	assert.Equal(t, "FileSize", exportName("fileSize"))
	assert.Equal(t, "Tables", exportName("_Tables"))
	assert.Equal(t, "Component_", exportName("Component_"))
	assert.Equal(t, "X2nd", exportName("2nd"))
}

func TestDDL(t *testing.T) {
	out, err := run(t, "ddl", "--dialect", "postgres", "--catalog", "testdata/tables.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE TABLE "_Columns"`)
	assert.Contains(t, out, `CREATE TABLE "File" ("File" varchar(72) NOT NULL`)

	_, err = run(t, "ddl", "--dialect", "oracle", "testdata/tables.yaml")
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "catalog.db")
	out, err := run(t, "export", "--dsn", dsn, "testdata/tables.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "exported 2 tables to sqlite3")

	_, err = run(t, "export", "testdata/tables.yaml")
	assert.Error(t, err)
}

func TestFileCacheFlag(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--cache-dir", dir, "check", "testdata/tables.yaml")
	require.NoError(t, err)
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
