package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardLookup(t *testing.T) {
	c := Standard()

	tests := []struct {
		shape Shape
		want  string
		ok    bool
	}{
		{Signed(16), "Integer", true},
		{Unsigned(16), "Integer", true},
		{Signed(32), "DoubleInteger", true},
		{Unsigned(32), "DoubleInteger", true},
		{Text(), "Text", true},
		{Binary(), "Binary", true},
		{Signed(8), "", false},
		{Signed(64), "", false},
		{Other("bool"), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.shape.String(), func(t *testing.T) {
			got, ok := c.Lookup(tt.shape)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.Name)
		})
	}
}

func TestLookupDeterministic(t *testing.T) {
	c := Standard()
	first, ok := c.Lookup(Unsigned(16))
	require.True(t, ok)
	for i := 0; i < 50; i++ {
		got, _ := Standard().Lookup(Unsigned(16))
		assert.Equal(t, first.Name, got.Name)
	}
}

func TestByName(t *testing.T) {
	c := Standard()

	cat, ok := c.ByName("identifier")
	require.True(t, ok)
	assert.Equal(t, "Identifier", cat.Name)
	assert.Equal(t, 72, cat.MaxWidth)
	assert.False(t, cat.IsFixed())

	cat, ok = c.ByName("TimeDate")
	require.True(t, ok)
	assert.True(t, cat.Accept(KindUnsigned))
	assert.False(t, cat.Accept(KindSigned))

	_, ok = c.ByName("Bogus")
	assert.False(t, ok)
}

func TestNewRejectsBadCatalogs(t *testing.T) {
	_, err := New(Category{Name: "A"}, Category{Name: "a"})
	assert.Error(t, err)

	_, err = New(Category{Name: ""})
	assert.Error(t, err)

	_, err = New(Category{Name: "X", FixedWidth: 16, MaxWidth: 10})
	assert.Error(t, err)
}

func TestAmbiguousCandidates(t *testing.T) {
	c, err := New(
		Category{Name: "Short", Accepts: []Kind{KindSigned}, FixedWidth: 16, Inferable: true},
		Category{Name: "Word", Accepts: []Kind{KindSigned}, FixedWidth: 16, Inferable: true},
	)
	require.NoError(t, err)

	assert.Len(t, c.Candidates(Signed(16)), 2)
	_, ok := c.Lookup(Signed(16))
	assert.False(t, ok)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, Standard().Fingerprint(), Standard().Fingerprint())

	small, err := New(Category{Name: "Text", Accepts: []Kind{KindText}, MaxWidth: 10, Inferable: true})
	require.NoError(t, err)
	assert.NotEqual(t, Standard().Fingerprint(), small.Fingerprint())
	assert.Equal(t, []string{"Text"}, small.Names())
}
