// Package category holds the catalog of installer column storage categories
// and the structural value shapes they accept.
package category

import (
	"fmt"
	"hash/fnv"
	"slices"
	"strings"
)

// Catalog is an immutable set of categories. It is built once and injected
// into the compiler; lookups never mutate it.
type Catalog struct {
	entries []Category
	byName  map[string]int
}

// New builds a catalog from the given categories. Names are matched
// case-insensitively and must be unique.
func New(categories ...Category) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Category, 0, len(categories)),
		byName:  make(map[string]int, len(categories)),
	}
	for _, cat := range categories {
		if cat.Name == "" {
			return nil, fmt.Errorf("category: empty category name")
		}
		key := strings.ToLower(cat.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("category: duplicate category %q", cat.Name)
		}
		if cat.IsFixed() && cat.MaxWidth > 0 {
			return nil, fmt.Errorf("category: %s is fixed-width and cannot carry a maximum width", cat.Name)
		}
		cat.Accepts = slices.Clone(cat.Accepts)
		c.byName[key] = len(c.entries)
		c.entries = append(c.entries, cat)
	}
	return c, nil
}

// Standard returns a new catalog with the Windows Installer column types.
func Standard() *Catalog {
	c, err := New(standard...)
	if err != nil {
		panic(err)
	}
	return c
}

// ByName resolves an explicit category name.
func (c *Catalog) ByName(name string) (Category, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Category{}, false
	}
	return c.entries[i], true
}

// Candidates returns every inferable category matching shape, in catalog order.
func (c *Catalog) Candidates(shape Shape) []Category {
	var out []Category
	for _, cat := range c.entries {
		if !cat.Inferable || !cat.Accept(shape.Kind) {
			continue
		}
		if shape.Kind.IsInteger() && cat.FixedWidth != shape.Width {
			continue
		}
		out = append(out, cat)
	}
	return out
}

// Lookup returns the unique default category for shape.
func (c *Catalog) Lookup(shape Shape) (Category, bool) {
	cands := c.Candidates(shape)
	if len(cands) != 1 {
		return Category{}, false
	}
	return cands[0], true
}

// Names returns the category names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.entries))
	for i, cat := range c.entries {
		names[i] = cat.Name
	}
	return names
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Fingerprint identifies the catalog contents. Caches key compiled schemas
// by it so a descriptor compiled against one catalog is never served for another.
func (c *Catalog) Fingerprint() string {
	h := fnv.New64a()
	for _, cat := range c.entries {
		fmt.Fprintf(h, "%s|%v|%d|%d|%t|%t;", cat.Name, cat.Accepts, cat.FixedWidth, cat.MaxWidth, cat.Nullable, cat.Inferable)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
