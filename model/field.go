package model

import (
	"github.com/shrek82/msitable/category"
)

// Attributes are the optional per-field overrides supplied by the DAO author.
// Unset entries take their defaults from the resolved category.
type Attributes struct {
	Category    string      // explicit category name
	Nullable    *bool       // nullability override
	Key         *bool       // primary key membership
	Localizable *bool       // localizable column
	Width       int         // declared maximum width of variable-width columns
	Column      string      // column name override
	ForeignKey  *ForeignKey // foreign key target
	Identifier  bool        // the column holds an identifier
	Generated   bool        // the identifier is generated
}

// FieldDef is the type-independent description of one DAO field.
type FieldDef struct {
	Name     string
	Shape    category.Shape
	Optional bool // declared as a pointer type
	Attrs    Attributes
}

// Definition is the ordered field list of one DAO type.
type Definition struct {
	Name   string
	Fields []FieldDef
}

// Field is the resolved description of one column.
type Field struct {
	Name          string            // DAO field name
	Column        string            // column name
	Shape         category.Shape    // value shape of the field
	Optional      bool              // declared as a pointer type
	Category      category.Category // resolved category
	Width         int               // effective width
	DeclaredWidth int               // width from the attributes, 0 when none
	Nullable      bool
	Key           bool
	Localizable   bool
	Ordinal       int
	ForeignKey    *ForeignKey
	Identifier    bool
	Generated     bool
}

// IsPrimaryIdentifier reports whether f identifies rows of its own table:
// a key identifier that does not point into another table.
func (f *Field) IsPrimaryIdentifier() bool {
	return f.Key && f.Identifier && f.ForeignKey == nil
}
