package model

import (
	"errors"
	"fmt"

	"github.com/shrek82/msitable/category"
)

// BuildField resolves one field definition into a Field.
func BuildField(c *category.Catalog, def FieldDef, ordinal int) (*Field, error) {
	var (
		cat category.Category
		err error
	)
	if def.Attrs.Category != "" {
		var ok bool
		cat, ok = c.ByName(def.Attrs.Category)
		if !ok {
			return nil, &FieldError{Field: def.Name, Err: fmt.Errorf("%w %q", ErrUnknownCategory, def.Attrs.Category)}
		}
	} else {
		cat, err = Resolve(c, def.Shape)
		if err != nil {
			return nil, &FieldError{Field: def.Name, Err: err}
		}
	}

	f := &Field{
		Name:          def.Name,
		Column:        def.Attrs.Column,
		Shape:         def.Shape,
		Optional:      def.Optional,
		Category:      cat,
		DeclaredWidth: def.Attrs.Width,
		Ordinal:       ordinal,
		ForeignKey:    def.Attrs.ForeignKey,
		Identifier:    def.Attrs.Identifier || def.Attrs.Generated,
		Generated:     def.Attrs.Generated,
	}
	if f.Column == "" {
		f.Column = def.Name
	}

	switch {
	case def.Attrs.Nullable != nil:
		f.Nullable = *def.Attrs.Nullable
	case def.Optional:
		f.Nullable = true
	default:
		f.Nullable = cat.Nullable
	}
	if def.Attrs.Key != nil {
		f.Key = *def.Attrs.Key
	}
	if def.Attrs.Localizable != nil {
		f.Localizable = *def.Attrs.Localizable
	}

	switch {
	case cat.IsFixed():
		f.Width = cat.FixedWidth
	case def.Attrs.Width != 0:
		f.Width = def.Attrs.Width
	default:
		f.Width = cat.MaxWidth
	}
	return f, nil
}

// Build resolves every field of def in declaration order. All field errors
// are returned together.
func Build(c *category.Catalog, def *Definition) ([]*Field, error) {
	fields := make([]*Field, 0, len(def.Fields))
	var errs []error
	for i, fd := range def.Fields {
		f, err := BuildField(c, fd, i)
		if err != nil {
			var fe *FieldError
			if errors.As(err, &fe) {
				fe.Table = def.Name
			}
			errs = append(errs, err)
			continue
		}
		fields = append(fields, f)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return fields, nil
}
