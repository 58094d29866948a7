// Package schemafile loads installer table definitions from YAML.
package schemafile

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/shrek82/msitable/category"
	"github.com/shrek82/msitable/model"
)

// FormatVersion is the schema file format this package reads. Files declare
// the version they were written for; any version compatible with ^FormatVersion
// is accepted.
const FormatVersion = "1.0.0"

var (
	// ErrUnsupportedVersion is returned for files whose version is missing,
	// malformed or incompatible with FormatVersion.
	ErrUnsupportedVersion = errors.New("unsupported schema file version")
	// ErrInvalidFile is returned for structurally invalid files.
	ErrInvalidFile = errors.New("invalid schema file")
)

// File is the root of a schema file.
type File struct {
	Version string  `yaml:"version"`
	Package string  `yaml:"package,omitempty"`
	Tables  []Table `yaml:"tables"`
}

// Table describes one installer table.
type Table struct {
	Name    string   `yaml:"name"`
	Type    string   `yaml:"type,omitempty"` // Go type name used by code generation
	Columns []Column `yaml:"columns"`
}

// Column describes one column. Type is a Go-like value type: int8..int64,
// uint8..uint64, string, bytes, or any other name; a leading '*' marks the
// value optional.
type Column struct {
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"`
	Category    string            `yaml:"category,omitempty"`
	Width       int               `yaml:"width,omitempty"`
	Key         *bool             `yaml:"key,omitempty"`
	Nullable    *bool             `yaml:"nullable,omitempty"`
	Localizable *bool             `yaml:"localizable,omitempty"`
	Column      string            `yaml:"column,omitempty"`
	ForeignKey  *model.ForeignKey `yaml:"foreign_key,omitempty"`
	Identifier  bool              `yaml:"identifier,omitempty"`
	Generated   bool              `yaml:"generated,omitempty"`
}

// Load reads and parses the schema file at path. Environment variables in
// the file are expanded.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	data = []byte(os.ExpandEnv(string(data)))
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a schema file and checks its version and structure.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := CheckVersion(f.Version); err != nil {
		return nil, err
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// CheckVersion reports whether version is compatible with FormatVersion.
func CheckVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%w: version is required", ErrUnsupportedVersion)
	}
	constraint, err := semver.NewConstraint("^" + FormatVersion)
	if err != nil {
		return fmt.Errorf("invalid format version: %w", err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrUnsupportedVersion, version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s, want ^%s", ErrUnsupportedVersion, version, FormatVersion)
	}
	return nil
}

func (f *File) validate() error {
	var errs []error
	seen := make(map[string]bool)
	for i, t := range f.Tables {
		if t.Name == "" {
			errs = append(errs, fmt.Errorf("%w: table %d has no name", ErrInvalidFile, i))
			continue
		}
		if seen[t.Name] {
			errs = append(errs, fmt.Errorf("%w: table %s defined twice", ErrInvalidFile, t.Name))
		}
		seen[t.Name] = true
		for j, c := range t.Columns {
			if c.Name == "" {
				errs = append(errs, fmt.Errorf("%w: table %s column %d has no name", ErrInvalidFile, t.Name, j))
			}
			if strings.TrimPrefix(c.Type, "*") == "" {
				errs = append(errs, fmt.Errorf("%w: table %s column %s has no type", ErrInvalidFile, t.Name, c.Name))
			}
		}
	}
	return errors.Join(errs...)
}

// Definitions converts every table into a definition in file order.
func (f *File) Definitions() []*model.Definition {
	defs := make([]*model.Definition, 0, len(f.Tables))
	for _, t := range f.Tables {
		defs = append(defs, t.Definition())
	}
	return defs
}

// Definition converts the table into a definition.
func (t *Table) Definition() *model.Definition {
	def := &model.Definition{Name: t.Name, Fields: make([]model.FieldDef, 0, len(t.Columns))}
	for _, c := range t.Columns {
		shape, optional := ParseType(c.Type)
		def.Fields = append(def.Fields, model.FieldDef{
			Name:     c.Name,
			Shape:    shape,
			Optional: optional,
			Attrs: model.Attributes{
				Category:    c.Category,
				Nullable:    c.Nullable,
				Key:         c.Key,
				Localizable: c.Localizable,
				Width:       c.Width,
				Column:      c.Column,
				ForeignKey:  c.ForeignKey,
				Identifier:  c.Identifier || c.Generated,
				Generated:   c.Generated,
			},
		})
	}
	return def
}

// ParseType maps a column type name to its shape. A leading '*' marks the
// value optional.
func ParseType(s string) (category.Shape, bool) {
	s = strings.TrimSpace(s)
	optional := strings.HasPrefix(s, "*")
	s = strings.TrimPrefix(s, "*")

	switch s {
	case "string", "text":
		return category.Text(), optional
	case "bytes", "[]byte", "binary":
		return category.Binary(), optional
	case "int", "uint":
		s += "64"
	}
	for _, p := range []struct {
		prefix string
		shape  func(int) category.Shape
	}{{"uint", category.Unsigned}, {"int", category.Signed}} {
		if rest, ok := strings.CutPrefix(s, p.prefix); ok {
			if bits, err := strconv.Atoi(rest); err == nil && (bits == 8 || bits == 16 || bits == 32 || bits == 64) {
				return p.shape(bits), optional
			}
		}
	}
	return category.Other(s), optional
}

// GoType renders the Go type of a field definition.
func GoType(fd model.FieldDef) string {
	var t string
	switch fd.Shape.Kind {
	case category.KindSigned:
		t = fmt.Sprintf("int%d", fd.Shape.Width)
	case category.KindUnsigned:
		t = fmt.Sprintf("uint%d", fd.Shape.Width)
	case category.KindText:
		t = "string"
	case category.KindBinary:
		t = "[]byte"
	default:
		t = fd.Shape.Name
	}
	if fd.Optional {
		t = "*" + t
	}
	return t
}
