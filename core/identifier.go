package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// IdentifierGenerator hands out identifiers of the form PREFIXn, skipping
// identifiers already in use. It is not safe for concurrent use.
type IdentifierGenerator struct {
	prefix string
	count  int
	used   map[string]struct{}
}

// NewIdentifierGenerator creates a generator for table whose prefix is the
// upper-cased table name.
func NewIdentifierGenerator(table string, used ...string) *IdentifierGenerator {
	g := &IdentifierGenerator{
		prefix: strings.ToUpper(table),
		used:   make(map[string]struct{}, len(used)),
	}
	for _, id := range used {
		g.MarkUsed(id)
	}
	return g
}

// Prefix returns the identifier prefix.
func (g *IdentifierGenerator) Prefix() string { return g.prefix }

// Count returns how many identifiers the generator has tried.
func (g *IdentifierGenerator) Count() int { return g.count }

// MarkUsed records id so it is never generated.
func (g *IdentifierGenerator) MarkUsed(id string) {
	g.used[id] = struct{}{}
}

// IsUsed reports whether id is taken.
func (g *IdentifierGenerator) IsUsed(id string) bool {
	_, ok := g.used[id]
	return ok
}

// Next returns a fresh identifier and marks it used.
func (g *IdentifierGenerator) Next() string {
	for {
		g.count++
		id := fmt.Sprintf("%s%d", g.prefix, g.count)
		if !g.IsUsed(id) {
			g.MarkUsed(id)
			return id
		}
	}
}

// RandomIdentifier returns prefix followed by an underscore and 32 hex digits
// of a random UUID. The result is a valid installer identifier when prefix is.
func RandomIdentifier(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
