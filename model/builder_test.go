package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrek82/msitable/category"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildField(t *testing.T) {
	c := category.Standard()

	t.Run("Inferred", func(t *testing.T) {
		f, err := BuildField(c, FieldDef{Name: "Id", Shape: category.Unsigned(16), Attrs: Attributes{Key: boolPtr(true)}}, 0)
		require.NoError(t, err)
		assert.Equal(t, "Integer", f.Category.Name)
		assert.Equal(t, 16, f.Width)
		assert.True(t, f.Key)
		assert.False(t, f.Nullable)
		assert.Equal(t, "Id", f.Column)
	})

	t.Run("ExplicitCategoryWidth", func(t *testing.T) {
		f, err := BuildField(c, FieldDef{Name: "Name", Shape: category.Text(), Attrs: Attributes{Category: "filename", Width: 64}}, 3)
		require.NoError(t, err)
		assert.Equal(t, "Filename", f.Category.Name)
		assert.Equal(t, 64, f.Width)
		assert.Equal(t, 64, f.DeclaredWidth)
		assert.Equal(t, 3, f.Ordinal)
	})

	t.Run("DefaultWidth", func(t *testing.T) {
		f, err := BuildField(c, FieldDef{Name: "Dir", Shape: category.Text(), Attrs: Attributes{Category: "Identifier"}}, 0)
		require.NoError(t, err)
		assert.Equal(t, 72, f.Width)
		assert.Zero(t, f.DeclaredWidth)
	})

	t.Run("Nullability", func(t *testing.T) {
		f, err := BuildField(c, FieldDef{Name: "Flag", Shape: category.Unsigned(16), Optional: true}, 0)
		require.NoError(t, err)
		assert.True(t, f.Nullable)

		f, err = BuildField(c, FieldDef{Name: "Flag", Shape: category.Unsigned(16), Attrs: Attributes{Nullable: boolPtr(true)}}, 0)
		require.NoError(t, err)
		assert.True(t, f.Nullable)

		f, err = BuildField(c, FieldDef{Name: "Cond", Shape: category.Text(), Attrs: Attributes{Category: "Condition"}}, 0)
		require.NoError(t, err)
		assert.True(t, f.Nullable)

		f, err = BuildField(c, FieldDef{Name: "Cond", Shape: category.Text(), Attrs: Attributes{Category: "Condition", Nullable: boolPtr(false)}}, 0)
		require.NoError(t, err)
		assert.False(t, f.Nullable)
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		_, err := BuildField(c, FieldDef{Name: "Kind", Shape: category.Text(), Attrs: Attributes{Category: "Bogus"}}, 0)
		require.ErrorIs(t, err, ErrUnknownCategory)
		var fe *FieldError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, "Kind", fe.Field)
		assert.Contains(t, err.Error(), "Bogus")
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := BuildField(c, FieldDef{Name: "Big", Shape: category.Signed(64)}, 0)
		assert.ErrorIs(t, err, ErrUnsupportedType)

		_, err = BuildField(c, FieldDef{Name: "On", Shape: category.Other("bool")}, 0)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})
}

func TestResolveAmbiguous(t *testing.T) {
	c, err := category.New(
		category.Category{Name: "A", Accepts: []category.Kind{category.KindText}, MaxWidth: 10, Inferable: true},
		category.Category{Name: "B", Accepts: []category.Kind{category.KindText}, MaxWidth: 10, Inferable: true},
	)
	require.NoError(t, err)

	_, err = Resolve(c, category.Text())
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "A, B")
}

func TestBuildCollectsAllFieldErrors(t *testing.T) {
	def := &Definition{Name: "Broken", Fields: []FieldDef{
		{Name: "A", Shape: category.Text(), Attrs: Attributes{Category: "Bogus"}},
		{Name: "B", Shape: category.Signed(16)},
		{Name: "C", Shape: category.Other("float64")},
	}}
	_, err := Build(category.Standard(), def)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownCategory)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Broken", fe.Table)
}

func TestParseTag(t *testing.T) {
	tag, err := ParseTag("pk;category:Identifier;size:72;column:Feature_;fk:Feature.0;localizable:false")
	require.NoError(t, err)
	assert.True(t, *tag.Key)
	assert.Equal(t, "Identifier", tag.Category)
	assert.Equal(t, 72, tag.Width)
	assert.Equal(t, "Feature_", tag.Column)
	assert.Equal(t, &ForeignKey{Table: "Feature"}, tag.ForeignKey)
	assert.False(t, *tag.Localizable)

	tag, err = ParseTag("notnull, generated")
	require.NoError(t, err)
	assert.False(t, *tag.Nullable)
	assert.True(t, tag.Identifier)
	assert.True(t, tag.Generated)

	tag, err = ParseTag("-")
	require.NoError(t, err)
	assert.True(t, tag.Ignore)

	tag, err = ParseTag("fk:Registry.2")
	require.NoError(t, err)
	assert.Equal(t, 2, tag.ForeignKey.Column)

	for _, bad := range []string{"bogus", "size:x", "pk:maybe", "fk:", "category:", "fk:T.x"} {
		_, err := ParseTag(bad)
		assert.ErrorIs(t, err, ErrInvalidTag, bad)
	}
}
