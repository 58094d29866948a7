package model

import (
	"fmt"
	"strings"

	"github.com/shrek82/msitable/category"
)

// Resolve infers the default category for a value shape. It fails with
// ErrUnsupportedType when the catalog offers no candidate or more than one.
func Resolve(c *category.Catalog, shape category.Shape) (category.Category, error) {
	cands := c.Candidates(shape)
	switch len(cands) {
	case 1:
		return cands[0], nil
	case 0:
		return category.Category{}, fmt.Errorf("%w: no category accepts %s", ErrUnsupportedType, shape)
	}
	names := make([]string, len(cands))
	for i, cat := range cands {
		names[i] = cat.Name
	}
	return category.Category{}, fmt.Errorf("%w: %s matches %s", ErrUnsupportedType, shape, strings.Join(names, ", "))
}
