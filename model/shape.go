package model

import (
	"encoding"
	"reflect"

	"github.com/shrek82/msitable/category"
)

var (
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// ShapeOf derives the value shape of a Go type. A pointer type takes the
// shape of its element and is reported as optional.
func ShapeOf(typ reflect.Type) (category.Shape, bool) {
	optional := false
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
		optional = true
	}

	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return category.Signed(typ.Bits()), optional
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return category.Unsigned(typ.Bits()), optional
	case reflect.String:
		return category.Text(), optional
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			return category.Binary(), optional
		}
	}

	if IsTextType(typ) {
		return category.Text(), optional
	}
	return category.Other(typ.String()), optional
}

// IsTextType reports whether typ round-trips through its text form.
func IsTextType(typ reflect.Type) bool {
	return typ.Implements(textMarshalerType) && reflect.PointerTo(typ).Implements(textUnmarshalerType)
}
