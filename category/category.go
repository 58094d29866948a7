package category

import "slices"

// Category is a storage-format classification for an installer table column.
type Category struct {
	Name    string
	Accepts []Kind
	// FixedWidth is the storage width in bits of fixed-width categories.
	// Zero means the category is variable-width.
	FixedWidth int
	// MaxWidth is the conventional maximum length of a variable-width
	// category, used when a field declares none.
	MaxWidth int
	// Nullable is the default nullability of columns in this category.
	Nullable bool
	// Inferable marks the default category for the shapes it accepts.
	Inferable bool
}

// Accept reports whether values of kind k may be stored in c.
func (c Category) Accept(k Kind) bool {
	return slices.Contains(c.Accepts, k)
}

// IsFixed reports whether c has a fixed storage width.
func (c Category) IsFixed() bool {
	return c.FixedWidth > 0
}

// IsInteger reports whether c stores integer values.
func (c Category) IsInteger() bool {
	return c.Accept(KindSigned) || c.Accept(KindUnsigned)
}

// IsBinary reports whether c stores binary streams.
func (c Category) IsBinary() bool {
	return c.Accept(KindBinary)
}

func text(name string, max int) Category {
	return Category{Name: name, Accepts: []Kind{KindText}, MaxWidth: max}
}

// standard lists the column data types of the Windows Installer database.
var standard = []Category{
	{Name: "Integer", Accepts: []Kind{KindSigned, KindUnsigned}, FixedWidth: 16, Inferable: true},
	{Name: "DoubleInteger", Accepts: []Kind{KindSigned, KindUnsigned}, FixedWidth: 32, Inferable: true},
	{Name: "TimeDate", Accepts: []Kind{KindUnsigned}, FixedWidth: 32},
	{Name: "Text", Accepts: []Kind{KindText}, MaxWidth: 255, Inferable: true},
	text("UpperCase", 72),
	text("LowerCase", 72),
	text("Identifier", 72),
	text("Property", 72),
	text("Filename", 255),
	text("WildCardFilename", 255),
	text("Path", 255),
	text("Paths", 255),
	text("AnyPath", 255),
	text("DefaultDir", 255),
	text("RegPath", 255),
	text("Formatted", 255),
	text("FormattedSDDLText", 255),
	text("KeyFormatted", 255),
	text("Template", 255),
	{Name: "Condition", Accepts: []Kind{KindText}, MaxWidth: 255, Nullable: true},
	text("Guid", 38),
	text("Version", 72),
	text("Language", 20),
	text("CustomSource", 72),
	text("Cabinet", 255),
	text("Shortcut", 72),
	{Name: "Binary", Accepts: []Kind{KindBinary}, MaxWidth: 255, Inferable: true},
}
