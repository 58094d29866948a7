package core

import (
	"bytes"
	"encoding"
	"encoding/hex"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/shrek82/msitable/model"
)

// Mapping is the conversion pair of one DAO type: ToRow and FromRow between
// DAO values and rows ordered like the schema columns.
type Mapping struct {
	schema  *model.TableSchema
	typ     reflect.Type
	columns []columnMapping
}

type columnMapping struct {
	col      *model.Column
	index    []int
	optional bool
	elem     reflect.Type
}

func newMapping(schema *model.TableSchema, typ reflect.Type) (*Mapping, error) {
	m := &Mapping{
		schema:  schema,
		typ:     typ,
		columns: make([]columnMapping, len(schema.Columns)),
	}
	for i := range schema.Columns {
		col := &schema.Columns[i]
		sf, ok := typ.FieldByName(col.Field)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no field %s", ErrInvalidModel, typ, col.Field)
		}
		cm := columnMapping{col: col, index: sf.Index, elem: sf.Type}
		if sf.Type.Kind() == reflect.Ptr {
			cm.optional = true
			cm.elem = sf.Type.Elem()
		}
		m.columns[i] = cm
	}
	return m, nil
}

// Schema returns the table schema the mapping converts for.
func (m *Mapping) Schema() *model.TableSchema {
	return m.schema
}

// Type returns the DAO struct type.
func (m *Mapping) Type() reflect.Type {
	return m.typ
}

func (m *Mapping) structValue(dao any) (reflect.Value, error) {
	rv := reflect.ValueOf(dao)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %s", ErrInvalidModel, rv.Type())
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != m.typ {
		return reflect.Value{}, fmt.Errorf("%w: expected %s, got %T", ErrInvalidModel, m.typ, dao)
	}
	return rv, nil
}

// ToRow converts a DAO value (or pointer to one) into a row. Nil pointers and
// zero values of nullable columns become the null marker.
func (m *Mapping) ToRow(dao any) (Row, error) {
	rv, err := m.structValue(dao)
	if err != nil {
		return nil, err
	}
	row := make(Row, len(m.columns))
	for i := range m.columns {
		cm := &m.columns[i]
		fv, err := rv.FieldByIndexErr(cm.index)
		if err != nil {
			if cm.col.Nullable {
				row[i] = Null()
				continue
			}
			return nil, m.conversionError(cm, err)
		}
		v, err := cm.encode(fv)
		if err != nil {
			return nil, m.conversionError(cm, err)
		}
		row[i] = v
	}
	return row, nil
}

func (cm *columnMapping) encode(fv reflect.Value) (Value, error) {
	if cm.optional {
		if fv.IsNil() {
			return Null(), nil
		}
		fv = fv.Elem()
	} else if cm.col.Nullable && fv.IsZero() {
		return Null(), nil
	}

	switch cm.col.Storage {
	case model.StorageInteger:
		switch fv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n := fv.Int()
			if !fitsColumn(n, cm.col.Width) {
				return Value{}, fmt.Errorf("value %d out of range for %d-bit column", n, cm.col.Width)
			}
			return Int(int32(n)), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			u := fv.Uint()
			// 32-bit unsigned values keep their bit pattern.
			if fv.Type().Bits() == 32 && cm.col.Width == 32 {
				return Int(int32(u)), nil
			}
			if u > math.MaxInt64 || !fitsColumn(int64(u), cm.col.Width) {
				return Value{}, fmt.Errorf("value %d out of range for %d-bit column", u, cm.col.Width)
			}
			return Int(int32(u)), nil
		}
	case model.StorageBinary:
		if fv.Kind() == reflect.Slice && fv.Type().Elem().Kind() == reflect.Uint8 {
			return Binary(bytes.Clone(fv.Bytes())), nil
		}
	default:
		if fv.Kind() == reflect.String {
			return Str(fv.String()), nil
		}
		if tm, ok := fv.Interface().(encoding.TextMarshaler); ok {
			text, err := tm.MarshalText()
			if err != nil {
				return Value{}, err
			}
			return Str(string(text)), nil
		}
	}
	return Value{}, fmt.Errorf("cannot store %s in %s column", fv.Type(), cm.col.Storage)
}

// FromRow converts a row into the DAO pointed to by dest. The row must have
// exactly one value per column and each value must match its column; dest is
// left untouched when any value is rejected.
func (m *Mapping) FromRow(row Row, dest any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() || dv.Elem().Type() != m.typ {
		return fmt.Errorf("%w: dest must be a non-nil *%s, got %T", ErrInvalidModel, m.typ, dest)
	}
	if len(row) != len(m.columns) {
		return &RowShapeError{Table: m.schema.Name, Want: len(m.columns), Got: len(row)}
	}

	tmp := reflect.New(m.typ).Elem()
	tmp.Set(dv.Elem())
	for i := range m.columns {
		cm := &m.columns[i]
		fv, err := fieldForWrite(tmp, cm.index)
		if err != nil {
			return m.conversionError(cm, err)
		}
		if err := cm.decode(row[i], fv); err != nil {
			return m.conversionError(cm, err)
		}
	}
	dv.Elem().Set(tmp)
	return nil
}

// fieldForWrite walks index, allocating nil embedded struct pointers.
func fieldForWrite(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("cannot allocate embedded %s", v.Type())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, nil
}

func (cm *columnMapping) decode(val Value, fv reflect.Value) error {
	if val.IsNull() {
		if !cm.col.Nullable {
			return fmt.Errorf("null value in non-nullable column")
		}
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	target := fv
	var ptr reflect.Value
	if cm.optional {
		ptr = reflect.New(cm.elem)
		target = ptr.Elem()
	}

	var err error
	switch cm.col.Storage {
	case model.StorageInteger:
		err = decodeInt(val, target, cm.col.Width)
	case model.StorageBinary:
		b, ok := val.AsBinary()
		if !ok {
			return fmt.Errorf("expected binary value, got %s", val.Kind())
		}
		target.SetBytes(bytes.Clone(b))
	default:
		err = decodeStr(val, target)
	}
	if err != nil {
		return err
	}

	if cm.optional {
		fv.Set(ptr)
	}
	return nil
}

// fitsColumn reports whether n is representable in a signed column of width
// bits.
func fitsColumn(n int64, width int) bool {
	if width <= 0 || width >= 64 {
		return true
	}
	limit := int64(1) << (width - 1)
	return n >= -limit && n < limit
}

func decodeInt(val Value, target reflect.Value, width int) error {
	n, ok := val.AsInt()
	if !ok {
		return fmt.Errorf("expected int value, got %s", val.Kind())
	}
	if !fitsColumn(int64(n), width) {
		return fmt.Errorf("value %d out of range for %d-bit column", n, width)
	}
	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if target.OverflowInt(int64(n)) {
			return fmt.Errorf("value %d overflows %s", n, target.Type())
		}
		target.SetInt(int64(n))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		var u uint64
		switch {
		case n >= 0:
			u = uint64(n)
		case target.Type().Bits() == 32:
			u = uint64(uint32(n))
		default:
			return fmt.Errorf("value %d is negative for %s", n, target.Type())
		}
		if target.OverflowUint(u) {
			return fmt.Errorf("value %d overflows %s", n, target.Type())
		}
		target.SetUint(u)
	default:
		return fmt.Errorf("cannot load int into %s", target.Type())
	}
	return nil
}

func decodeStr(val Value, target reflect.Value) error {
	s, ok := val.AsStr()
	if !ok {
		return fmt.Errorf("expected str value, got %s", val.Kind())
	}
	if target.Kind() == reflect.String {
		target.SetString(s)
		return nil
	}
	if tu, ok := target.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return tu.UnmarshalText([]byte(s))
	}
	return fmt.Errorf("cannot load str into %s", target.Type())
}

func (m *Mapping) conversionError(cm *columnMapping, err error) error {
	return &ConversionError{Table: m.schema.Name, Column: cm.col.Name, Err: err}
}

// Conflicts reports whether a and b have equal primary keys.
func (m *Mapping) Conflicts(a, b any) (bool, error) {
	ka, err := m.Key(a)
	if err != nil {
		return false, err
	}
	kb, err := m.Key(b)
	if err != nil {
		return false, err
	}
	return ka == kb, nil
}

// Key returns a string identifying the primary key values of dao.
func (m *Mapping) Key(dao any) (string, error) {
	row, err := m.ToRow(dao)
	if err != nil {
		return "", err
	}
	return m.rowKey(row), nil
}

func (m *Mapping) rowKey(row Row) string {
	var sb strings.Builder
	for i := range m.columns {
		if !m.columns[i].col.PrimaryKey {
			continue
		}
		v := row[i]
		sb.WriteString(strconv.Itoa(int(v.Kind())))
		sb.WriteByte(':')
		if b, ok := v.AsBinary(); ok {
			sb.WriteString(hex.EncodeToString(b))
		} else {
			sb.WriteString(v.String())
		}
		sb.WriteByte(0)
	}
	return sb.String()
}
