package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag represents a parsed msi struct tag.
type Tag struct {
	Attributes
	Ignore bool
}

// ParseTag parses the "msi" tag string.
//
// Entries are separated by spaces, semicolons or commas and take the form
// key or key:value. Recognised keys:
//
//	pk, key           primary key column (pk:false clears it)
//	category:Name     explicit storage category
//	size:N, width:N   declared maximum width
//	column:Name       column name override
//	nullable, notnull nullability override
//	localizable       localizable column
//	fk:Table[.N]      foreign key into column N (default 0) of Table
//	identifier        the column holds an identifier
//	generated         the identifier is generated (implies identifier)
//	-                 skip the field
func ParseTag(tagStr string) (*Tag, error) {
	tag := &Tag{}
	tagStr = strings.TrimSpace(tagStr)
	if tagStr == "" {
		return tag, nil
	}
	if tagStr == "-" {
		tag.Ignore = true
		return tag, nil
	}

	parts := strings.FieldsFunc(tagStr, func(r rune) bool {
		return r == ' ' || r == ';' || r == ',' || r == '\t'
	})

	for _, part := range parts {
		kv := strings.SplitN(part, ":", 2)
		key := strings.ToLower(strings.TrimSpace(kv[0]))
		var val string
		hasVal := len(kv) > 1
		if hasVal {
			val = strings.TrimSpace(kv[1])
		}

		switch key {
		case "pk", "key", "primary_key":
			b, err := boolValue(key, val, hasVal)
			if err != nil {
				return nil, err
			}
			tag.Key = &b
		case "nullable":
			b, err := boolValue(key, val, hasVal)
			if err != nil {
				return nil, err
			}
			tag.Nullable = &b
		case "notnull":
			b := false
			tag.Nullable = &b
		case "localizable":
			b, err := boolValue(key, val, hasVal)
			if err != nil {
				return nil, err
			}
			tag.Localizable = &b
		case "category", "type":
			if val == "" {
				return nil, fmt.Errorf("%w: %s requires a value", ErrInvalidTag, key)
			}
			tag.Category = val
		case "size", "width", "length":
			n, err := strconv.Atoi(val)
			if err != nil {
				return nil, fmt.Errorf("%w: %s:%q is not an integer", ErrInvalidTag, key, val)
			}
			tag.Width = n
		case "column":
			if val == "" {
				return nil, fmt.Errorf("%w: column requires a value", ErrInvalidTag)
			}
			tag.Column = val
		case "fk", "foreign_key":
			fk, err := parseForeignKey(val)
			if err != nil {
				return nil, err
			}
			tag.ForeignKey = fk
		case "identifier":
			tag.Identifier = true
		case "generated":
			tag.Identifier = true
			tag.Generated = true
		default:
			return nil, fmt.Errorf("%w: unknown key %q", ErrInvalidTag, key)
		}
	}
	return tag, nil
}

func boolValue(key, val string, hasVal bool) (bool, error) {
	if !hasVal {
		return true, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("%w: %s:%q is not a boolean", ErrInvalidTag, key, val)
	}
	return b, nil
}

func parseForeignKey(val string) (*ForeignKey, error) {
	if val == "" {
		return nil, fmt.Errorf("%w: fk requires a table name", ErrInvalidTag)
	}
	fk := &ForeignKey{Table: val}
	if i := strings.LastIndex(val, "."); i >= 0 {
		n, err := strconv.Atoi(val[i+1:])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: fk column index in %q", ErrInvalidTag, val)
		}
		fk.Table = val[:i]
		fk.Column = n
	}
	if fk.Table == "" {
		return nil, fmt.Errorf("%w: fk requires a table name", ErrInvalidTag)
	}
	return fk, nil
}
