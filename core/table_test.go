package core

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type featureDao struct {
	Feature string `msi:"pk generated category:Identifier"`
	Title   string `msi:"size:64 nullable"`
}

func (featureDao) TableName() string { return "Feature" }

func TestCodec(t *testing.T) {
	codec, err := NewCodec[scenarioDao](NewCompiler(nil))
	require.NoError(t, err)
	assert.Equal(t, "Scenario", codec.Schema().Name)

	row, err := codec.ToRow(scenarioDao{ID: 3, Name: "x"})
	require.NoError(t, err)
	got, err := codec.FromRow(row)
	require.NoError(t, err)
	assert.Equal(t, scenarioDao{ID: 3, Name: "x"}, got)

	same, err := codec.Conflicts(scenarioDao{ID: 3}, scenarioDao{ID: 3, Name: "y"})
	require.NoError(t, err)
	assert.True(t, same)
	same, err = codec.Conflicts(scenarioDao{ID: 3}, scenarioDao{ID: 4})
	require.NoError(t, err)
	assert.False(t, same)

	_, err = NewCodec[*scenarioDao](nil)
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestTableInsert(t *testing.T) {
	table, err := NewTable[scenarioDao](NewCompiler(nil))
	require.NoError(t, err)
	assert.Equal(t, "Scenario", table.Name())
	assert.Equal(t, []int{0}, table.PrimaryKeyIndices())

	require.NoError(t, table.Insert(scenarioDao{ID: 1, Name: "a"}, scenarioDao{ID: 2, Name: "b"}))
	err = table.Insert(scenarioDao{ID: 1, Name: "c"})
	assert.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "a", table.Entries()[0].Name)

	rows, err := table.Rows()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	copyTable, err := NewTable[scenarioDao](NewCompiler(nil))
	require.NoError(t, err)
	require.NoError(t, copyTable.Load(rows))
	assert.Equal(t, table.Entries(), copyTable.Entries())

	_, err = table.NextIdentifier()
	assert.ErrorIs(t, err, ErrInvalidModel)
}

type blobKeyDao struct {
	Key  []byte `msi:"pk"`
	Note string `msi:"size:32 nullable"`
}

func (blobKeyDao) TableName() string { return "BlobKey" }

func TestTableBinaryKeys(t *testing.T) {
	table, err := NewTable[blobKeyDao](NewCompiler(nil))
	require.NoError(t, err)

	require.NoError(t, table.Insert(blobKeyDao{Key: []byte{1, 2}}))
	require.NoError(t, table.Insert(blobKeyDao{Key: []byte{3, 4}}))
	assert.ErrorIs(t, table.Insert(blobKeyDao{Key: []byte{1, 2}, Note: "again"}), ErrDuplicateKey)
	assert.Equal(t, 2, table.Len())

	same, err := table.Codec().Conflicts(blobKeyDao{Key: []byte{1, 2}}, blobKeyDao{Key: []byte{3, 4}})
	require.NoError(t, err)
	assert.False(t, same)
	same, err = table.Codec().Conflicts(blobKeyDao{Key: []byte{1, 2}}, blobKeyDao{Key: []byte{1, 2}, Note: "x"})
	require.NoError(t, err)
	assert.True(t, same)
}

type brokenText struct{}

func (brokenText) MarshalText() ([]byte, error) { return nil, errors.New("cannot marshal") }
func (*brokenText) UnmarshalText([]byte) error { return nil }

type brokenKeyDao struct {
	Key brokenText `msi:"pk size:16"`
}

func TestCodecConflictsReportsConversionError(t *testing.T) {
	codec, err := NewCodec[brokenKeyDao](NewCompiler(nil))
	require.NoError(t, err)

	same, err := codec.Conflicts(brokenKeyDao{}, brokenKeyDao{})
	assert.ErrorIs(t, err, ErrConversion)
	assert.False(t, same)
}

func TestTableGeneratedIdentifier(t *testing.T) {
	table, err := NewTable[featureDao](NewCompiler(nil))
	require.NoError(t, err)

	require.NoError(t, table.Insert(featureDao{Feature: "FEATURE1"}))
	id, err := table.NextIdentifier()
	require.NoError(t, err)
	assert.Equal(t, "FEATURE2", id)
	require.NoError(t, table.Insert(featureDao{Feature: id, Title: "Docs"}))
	assert.Equal(t, 2, table.Len())
}

func TestIdentifierGenerator(t *testing.T) {
	g := NewIdentifierGenerator("File", "FILE2")
	assert.Equal(t, "FILE", g.Prefix())
	assert.Equal(t, "FILE1", g.Next())
	assert.Equal(t, "FILE3", g.Next())
	assert.Equal(t, 3, g.Count())
	assert.True(t, g.IsUsed("FILE3"))
	assert.False(t, g.IsUsed("FILE4"))
}

func TestRandomIdentifier(t *testing.T) {
	id := RandomIdentifier("FILE")
	assert.Regexp(t, regexp.MustCompile(`^FILE_[0-9a-f]{32}$`), id)
	assert.NotEqual(t, id, RandomIdentifier("FILE"))
}

type propertyDao struct {
	Property string `msi:"pk category:Identifier"`
	Value    string `msi:"category:Text"`
	loaded   bool
}

func (propertyDao) TableName() string { return "Property" }

func (p *propertyDao) BeforeInsert() error {
	if p.Value == "" {
		return errors.New("property value is empty")
	}
	return nil
}

func (p *propertyDao) AfterLoad() error {
	p.loaded = true
	return nil
}

func TestTableHooks(t *testing.T) {
	table, err := NewTable[propertyDao](NewCompiler(nil))
	require.NoError(t, err)

	err = table.Insert(propertyDao{Property: "ProductName"})
	assert.EqualError(t, err, "table Property: property value is empty")
	require.NoError(t, table.Insert(propertyDao{Property: "ProductName", Value: "Demo"}))

	rows, err := table.Rows()
	require.NoError(t, err)
	got, err := table.Codec().FromRow(rows[0])
	require.NoError(t, err)
	assert.True(t, got.loaded)
	assert.Equal(t, "Demo", got.Value)
}
