// Package model turns DAO types into resolved column descriptions and holds
// the table schema descriptor produced from them.
package model

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag key read by Parse.
const TagName = "msi"

// Tabler lets a DAO name its table explicitly.
type Tabler interface {
	TableName() string
}

var definitionCache sync.Map

// Parse returns the definition of a DAO value.
func Parse(value any) (*Definition, error) {
	if value == nil {
		return nil, fmt.Errorf("value is nil")
	}
	typ := reflect.TypeOf(value)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return ParseType(typ)
}

// ParseType returns the definition of a DAO struct type. Definitions are
// cached per type.
func ParseType(typ reflect.Type) (*Definition, error) {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w, got %s", ErrNotStruct, typ.Kind())
	}

	if cached, ok := definitionCache.Load(typ); ok {
		return cached.(*Definition), nil
	}

	def := &Definition{Name: TableNameOf(typ)}
	if err := collectFields(typ, def); err != nil {
		return nil, err
	}

	definitionCache.Store(typ, def)
	return def, nil
}

// TableNameOf returns the table name of a DAO type: its TableName method if
// it has one, otherwise the type name without a trailing "Dao".
func TableNameOf(typ reflect.Type) string {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if t, ok := reflect.New(typ).Interface().(Tabler); ok {
		if name := t.TableName(); name != "" {
			return name
		}
	}
	name := typ.Name()
	if trimmed := strings.TrimSuffix(name, "Dao"); trimmed != "" {
		name = trimmed
	}
	return name
}

func collectFields(typ reflect.Type, def *Definition) error {
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tagStr, hasTag := sf.Tag.Lookup(TagName)

		if sf.Anonymous && !hasTag {
			et := sf.Type
			if et.Kind() == reflect.Ptr {
				et = et.Elem()
			}
			if et.Kind() == reflect.Struct {
				if err := collectFields(et, def); err != nil {
					return err
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		tag, err := ParseTag(tagStr)
		if err != nil {
			return &FieldError{Table: def.Name, Field: sf.Name, Err: err}
		}
		if tag.Ignore {
			continue
		}

		shape, optional := ShapeOf(sf.Type)
		def.Fields = append(def.Fields, FieldDef{
			Name:     sf.Name,
			Shape:    shape,
			Optional: optional,
			Attrs:    tag.Attributes,
		})
	}
	return nil
}
