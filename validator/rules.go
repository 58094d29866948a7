package validator

import (
	"fmt"
	"slices"

	"github.com/shrek82/msitable/model"
)

// DefaultRules returns the installer table rule set in reporting order.
func DefaultRules() []Rule {
	return []Rule{
		NonEmpty,
		UniqueNames,
		UniqueColumns,
		HasKey,
		KeyPrefix,
		KeyNotNull,
		WidthSanity,
		ShapeCompatible,
		OptionalNullable,
		SinglePrimaryIdentifier,
		GeneratedIdentifier,
	}
}

var (
	// NonEmpty requires at least one field.
	NonEmpty = NewRule(RuleNoFields, func(fields []*model.Field) []*SchemaError {
		if len(fields) == 0 {
			return []*SchemaError{{Detail: "table has no fields"}}
		}
		return nil
	})

	// UniqueNames rejects two fields with the same name.
	UniqueNames = NewRule(RuleDuplicateName, func(fields []*model.Field) []*SchemaError {
		return duplicates(fields, func(f *model.Field) string { return f.Name }, "field name %q declared more than once")
	})

	// UniqueColumns rejects two fields mapped to the same column.
	UniqueColumns = NewRule(RuleDuplicateColumn, func(fields []*model.Field) []*SchemaError {
		return duplicates(fields, func(f *model.Field) string { return f.Column }, "column %q mapped more than once")
	})

	// HasKey requires at least one primary key field.
	HasKey = NewRule(RuleNoKey, func(fields []*model.Field) []*SchemaError {
		if len(fields) == 0 {
			return nil
		}
		for _, f := range fields {
			if f.Key {
				return nil
			}
		}
		return []*SchemaError{{Detail: "no primary key field"}}
	})

	// KeyPrefix requires key fields to lead the declaration order.
	KeyPrefix = NewRule(RuleKeyPrefix, func(fields []*model.Field) []*SchemaError {
		ordered := slices.Clone(fields)
		slices.SortStableFunc(ordered, func(a, b *model.Field) int { return a.Ordinal - b.Ordinal })

		var misplaced []string
		seenNonKey := false
		for _, f := range ordered {
			if !f.Key {
				seenNonKey = true
				continue
			}
			if seenNonKey {
				misplaced = append(misplaced, f.Name)
			}
		}
		if len(misplaced) > 0 {
			return []*SchemaError{{Fields: misplaced, Detail: "key fields not a contiguous leading prefix"}}
		}
		return nil
	})

	// KeyNotNull rejects nullable key fields.
	KeyNotNull = NewRule(RuleNullableKey, func(fields []*model.Field) []*SchemaError {
		var errs []*SchemaError
		for _, f := range fields {
			if f.Key && f.Nullable {
				errs = append(errs, &SchemaError{Fields: []string{f.Name}, Detail: "primary key fields may not be nullable"})
			}
		}
		return errs
	})

	// WidthSanity rejects declared widths on fixed-width categories and
	// non-positive widths on variable-width ones.
	WidthSanity = NewRule(RuleFixedWidth, func(fields []*model.Field) []*SchemaError {
		var errs []*SchemaError
		for _, f := range fields {
			switch {
			case f.Category.IsFixed() && f.DeclaredWidth != 0:
				errs = append(errs, &SchemaError{
					Rule:   RuleFixedWidth,
					Fields: []string{f.Name},
					Detail: fmt.Sprintf("category %s has fixed width %d, field declares %d", f.Category.Name, f.Category.FixedWidth, f.DeclaredWidth),
				})
			case !f.Category.IsFixed() && f.Width <= 0:
				errs = append(errs, &SchemaError{
					Rule:   RuleVariableWidth,
					Fields: []string{f.Name},
					Detail: fmt.Sprintf("category %s needs a positive width, got %d", f.Category.Name, f.Width),
				})
			}
		}
		return errs
	})

	// ShapeCompatible re-checks the field value shape against its category,
	// explicit overrides included.
	ShapeCompatible = NewRule(RuleShapeMismatch, func(fields []*model.Field) []*SchemaError {
		var errs []*SchemaError
		for _, f := range fields {
			switch {
			case !f.Category.Accept(f.Shape.Kind):
				errs = append(errs, &SchemaError{
					Fields: []string{f.Name},
					Detail: fmt.Sprintf("category %s does not accept %s values", f.Category.Name, f.Shape),
				})
			case f.Shape.Kind.IsInteger() && f.Category.IsFixed() && f.Shape.Width > f.Category.FixedWidth:
				errs = append(errs, &SchemaError{
					Fields: []string{f.Name},
					Detail: fmt.Sprintf("%s does not fit category %s of %d bits", f.Shape, f.Category.Name, f.Category.FixedWidth),
				})
			}
		}
		return errs
	})

	// OptionalNullable rejects pointer fields declared non-nullable.
	OptionalNullable = NewRule(RuleOptionalNotNull, func(fields []*model.Field) []*SchemaError {
		var errs []*SchemaError
		for _, f := range fields {
			if f.Optional && !f.Nullable {
				errs = append(errs, &SchemaError{Fields: []string{f.Name}, Detail: "optional field declared not null"})
			}
		}
		return errs
	})

	// SinglePrimaryIdentifier allows at most one key identifier that is not a foreign key.
	SinglePrimaryIdentifier = NewRule(RulePrimaryIdentifier, func(fields []*model.Field) []*SchemaError {
		var names []string
		for _, f := range fields {
			if f.IsPrimaryIdentifier() {
				names = append(names, f.Name)
			}
		}
		if len(names) > 1 {
			return []*SchemaError{{Fields: names, Detail: "more than one primary identifier"}}
		}
		return nil
	})

	// GeneratedIdentifier requires generated identifiers to be string primary identifiers.
	GeneratedIdentifier = NewRule(RuleGeneratedIdentifier, func(fields []*model.Field) []*SchemaError {
		var errs []*SchemaError
		for _, f := range fields {
			if !f.Generated {
				continue
			}
			if !f.IsPrimaryIdentifier() || model.StorageOf(f) != model.StorageString {
				errs = append(errs, &SchemaError{Fields: []string{f.Name}, Detail: "generated identifiers must be string primary keys without a foreign key"})
			}
		}
		return errs
	})
)

func duplicates(fields []*model.Field, key func(*model.Field) string, detail string) []*SchemaError {
	seen := make(map[string][]string)
	var order []string
	for _, f := range fields {
		k := key(f)
		if _, ok := seen[k]; !ok {
			order = append(order, k)
		}
		seen[k] = append(seen[k], f.Name)
	}

	var errs []*SchemaError
	for _, k := range order {
		if names := seen[k]; len(names) > 1 {
			errs = append(errs, &SchemaError{Fields: names, Detail: fmt.Sprintf(detail, k)})
		}
	}
	return errs
}
