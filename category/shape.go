package category

import "fmt"

// Kind classifies the value type of a DAO field.
type Kind int

const (
	KindOther Kind = iota
	KindSigned
	KindUnsigned
	KindText
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindSigned:
		return "signed"
	case KindUnsigned:
		return "unsigned"
	case KindText:
		return "text"
	case KindBinary:
		return "binary"
	default:
		return "other"
	}
}

// IsInteger reports whether k is one of the sized integer kinds.
func (k Kind) IsInteger() bool {
	return k == KindSigned || k == KindUnsigned
}

// Shape is the abstract description of a field's declared value type.
// Width is only meaningful for integer kinds and is given in bits.
// Name carries the Go type name for KindOther.
type Shape struct {
	Kind  Kind
	Width int
	Name  string
}

// Signed returns the shape of a signed integer of the given bit width.
func Signed(width int) Shape { return Shape{Kind: KindSigned, Width: width} }

// Unsigned returns the shape of an unsigned integer of the given bit width.
func Unsigned(width int) Shape { return Shape{Kind: KindUnsigned, Width: width} }

// Text returns the shape of a string-like value.
func Text() Shape { return Shape{Kind: KindText} }

// Binary returns the shape of a byte-blob value.
func Binary() Shape { return Shape{Kind: KindBinary} }

// Other returns the shape of a value type the catalog knows nothing about.
func Other(name string) Shape { return Shape{Kind: KindOther, Name: name} }

func (s Shape) String() string {
	switch s.Kind {
	case KindSigned:
		return fmt.Sprintf("int%d", s.Width)
	case KindUnsigned:
		return fmt.Sprintf("uint%d", s.Width)
	case KindOther:
		return fmt.Sprintf("other(%s)", s.Name)
	default:
		return s.Kind.String()
	}
}
