package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mediaDao struct {
	DiskID   uint16 `msi:"pk"`
	LastSeq  uint32
	Cabinet  string  `msi:"category:Cabinet nullable"`
	Source   *string `msi:"category:Property"`
	Checksum []byte  `msi:"nullable"`
}

func (mediaDao) TableName() string { return "Media" }

func TestScenarioRoundTrip(t *testing.T) {
	m, err := NewCompiler(nil).CompileType(scenarioDao{})
	require.NoError(t, err)

	row, err := m.ToRow(scenarioDao{ID: 1, Name: "Foo"})
	require.NoError(t, err)
	assert.True(t, row.Equal(Row{Int(1), Str("Foo"), Null()}), "got %v", row)

	var got scenarioDao
	require.NoError(t, m.FromRow(row, &got))
	assert.Equal(t, scenarioDao{ID: 1, Name: "Foo"}, got)

	flag := uint16(7)
	row, err = m.ToRow(&scenarioDao{ID: 2, Name: "Bar", Flag: &flag})
	require.NoError(t, err)
	assert.True(t, row.Equal(Row{Int(2), Str("Bar"), Int(7)}), "got %v", row)
}

func TestShortRowRejected(t *testing.T) {
	m, err := NewCompiler(nil).CompileType(scenarioDao{})
	require.NoError(t, err)

	dest := scenarioDao{ID: 9, Name: "keep"}
	err = m.FromRow(Row{Int(1), Str("Foo")}, &dest)
	require.ErrorIs(t, err, ErrRowShapeMismatch)
	var rse *RowShapeError
	require.ErrorAs(t, err, &rse)
	assert.Equal(t, 3, rse.Want)
	assert.Equal(t, 2, rse.Got)
	assert.Equal(t, scenarioDao{ID: 9, Name: "keep"}, dest)
}

func TestFromRowRejectsBadValues(t *testing.T) {
	m, err := NewCompiler(nil).CompileType(scenarioDao{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		row    Row
		column string
	}{
		{"NullKey", Row{Null(), Str("a"), Null()}, "ID"},
		{"StrInIntColumn", Row{Str("1"), Str("a"), Null()}, "ID"},
		{"IntInStrColumn", Row{Int(1), Int(2), Null()}, "Name"},
		{"Overflow", Row{Int(70000), Str("a"), Null()}, "ID"},
		{"Negative", Row{Int(1), Str("a"), Int(-1)}, "Flag"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := scenarioDao{ID: 42}
			err := m.FromRow(tt.row, &dest)
			require.ErrorIs(t, err, ErrConversion)
			var ce *ConversionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, "Scenario", ce.Table)
			assert.Equal(t, tt.column, ce.Column)
			assert.Equal(t, scenarioDao{ID: 42}, dest)
		})
	}
}

func TestIntegerColumnRange(t *testing.T) {
	m, err := NewCompiler(nil).CompileType(scenarioDao{})
	require.NoError(t, err)

	row, err := m.ToRow(scenarioDao{ID: 32767, Name: "a"})
	require.NoError(t, err)
	assert.True(t, row.Equal(Row{Int(32767), Str("a"), Null()}), "got %v", row)

	_, err = m.ToRow(scenarioDao{ID: 60000, Name: "a"})
	var ce *ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ID", ce.Column)

	var dest scenarioDao
	err = m.FromRow(Row{Int(65535), Str("a"), Null()}, &dest)
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "ID", ce.Column)
	assert.Equal(t, scenarioDao{}, dest)
}

func TestFromRowDestination(t *testing.T) {
	m, err := NewCompiler(nil).CompileType(scenarioDao{})
	require.NoError(t, err)
	row := Row{Int(1), Str("a"), Null()}

	assert.ErrorIs(t, m.FromRow(row, scenarioDao{}), ErrInvalidModel)
	assert.ErrorIs(t, m.FromRow(row, &mediaDao{}), ErrInvalidModel)
	_, err = m.ToRow(mediaDao{})
	assert.ErrorIs(t, err, ErrInvalidModel)
}

func TestMediaRoundTrip(t *testing.T) {
	m, err := NewCompiler(nil).CompileType(mediaDao{})
	require.NoError(t, err)
	assert.Equal(t, []string{"i2", "i4", "S255", "S72", "V0"}, typeCodes(m))

	src := "SourceDir"
	in := mediaDao{DiskID: 1, LastSeq: 4000000000, Cabinet: "#data.cab", Source: &src, Checksum: []byte{1, 2, 3}}
	row, err := m.ToRow(in)
	require.NoError(t, err)
	n, ok := row[1].AsInt()
	require.True(t, ok)
	assert.Negative(t, n)

	var out mediaDao
	require.NoError(t, m.FromRow(row, &out))
	assert.Equal(t, in, out)

	row, err = m.ToRow(mediaDao{DiskID: 2})
	require.NoError(t, err)
	assert.True(t, row.Equal(Row{Int(2), Int(0), Null(), Null(), Null()}), "got %v", row)
}

func typeCodes(m *Mapping) []string {
	var codes []string
	for i := range m.Schema().Columns {
		codes = append(codes, m.Schema().Columns[i].TypeCode())
	}
	return codes
}

func TestConflicts(t *testing.T) {
	m, err := NewCompiler(nil).CompileType(scenarioDao{})
	require.NoError(t, err)

	same, err := m.Conflicts(scenarioDao{ID: 1, Name: "a"}, scenarioDao{ID: 1, Name: "b"})
	require.NoError(t, err)
	assert.True(t, same)

	same, err = m.Conflicts(scenarioDao{ID: 1}, scenarioDao{ID: 2})
	require.NoError(t, err)
	assert.False(t, same)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "5", Int(5).String())
	assert.Equal(t, `"x"`, Str("x").String())
	assert.Equal(t, "binary(2)", Binary([]byte{0, 1}).String())
	assert.False(t, Int(0).Equal(Null()))
	assert.Nil(t, Null().Any())
	assert.Equal(t, int64(3), Int(3).Any())
}
