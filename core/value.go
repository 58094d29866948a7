package core

import (
	"bytes"
	"fmt"
	"strconv"
)

// ValueKind is the tag of a Value.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindInt
	KindStr
	KindBinary
)

func (k ValueKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindStr:
		return "str"
	case KindBinary:
		return "binary"
	default:
		return "null"
	}
}

// Value is the installer engine's generic column value.
type Value struct {
	kind ValueKind
	i    int32
	s    string
	b    []byte
}

// Null returns the null marker.
func Null() Value { return Value{} }

// Int returns an integer value.
func Int(n int32) Value { return Value{kind: KindInt, i: n} }

// Str returns a string value.
func Str(s string) Value { return Value{kind: KindStr, s: s} }

// Binary returns a stream value.
func Binary(b []byte) Value { return Value{kind: KindBinary, b: b} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNull() bool { return v.kind == KindNull }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int32, bool) { return v.i, v.kind == KindInt }

// AsStr returns the string held by v.
func (v Value) AsStr() (string, bool) { return v.s, v.kind == KindStr }

// AsBinary returns the bytes held by v.
func (v Value) AsBinary() ([]byte, bool) { return v.b, v.kind == KindBinary }

// Equal reports whether v and o hold the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindStr:
		return v.s == o.s
	case KindBinary:
		return bytes.Equal(v.b, o.b)
	}
	return true
}

// Any returns v as a database/sql argument.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return int64(v.i)
	case KindStr:
		return v.s
	case KindBinary:
		return v.b
	}
	return nil
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(int(v.i))
	case KindStr:
		return strconv.Quote(v.s)
	case KindBinary:
		return fmt.Sprintf("binary(%d)", len(v.b))
	}
	return "null"
}

// Row is an ordered sequence of values, one per column.
type Row []Value

// Equal reports whether r and o hold equal values in the same order.
func (r Row) Equal(o Row) bool {
	if len(r) != len(o) {
		return false
	}
	for i := range r {
		if !r[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
