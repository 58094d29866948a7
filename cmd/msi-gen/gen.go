package main

import (
	"bytes"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/shrek82/msitable/model"
	"github.com/shrek82/msitable/schemafile"
)

const modelTemplate = `// Code generated by msi-gen. DO NOT EDIT.

package {{.Package}}
{{range .Models}}
// {{.StructName}} is a row of the {{.RawTableName}} table.
type {{.StructName}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}}{{if .Tag}} ` + "`" + `msi:"{{.Tag}}"` + "`" + `{{end}}
{{- end}}
}

// TableName returns the installer table name.
func ({{.StructName}}) TableName() string {
	return {{printf "%q" .RawTableName}}
}
{{end}}`

var tmpl = template.Must(template.New("model").Parse(modelTemplate))

// Field is one struct field of a generated model.
type Field struct {
	Name string // Go field name
	Type string // Go type
	Tag  string // msi tag
}

// ModelData is one generated struct.
type ModelData struct {
	StructName   string
	RawTableName string
	Fields       []Field
}

// FileData is the template input of one generated file.
type FileData struct {
	Package string
	Models  []ModelData
}

func newGenCmd(opts *globalOptions) *cobra.Command {
	var (
		pkgName   string
		outDir    string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "gen FILE",
		Short: "Generate Go DAO types from a schema file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Generated code must compile into valid schemas, so check first.
			f, _, err := opts.compileFile(cmd, args[0])
			if err != nil {
				return err
			}
			pkg := pkgName
			if pkg == "" {
				pkg = f.Package
			}
			if pkg == "" {
				pkg = "tables"
			}
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			for _, t := range f.Tables {
				path := filepath.Join(outDir, strings.ToLower(strings.Trim(t.Name, "_"))+".go")
				if _, err := os.Stat(path); err == nil && !overwrite {
					printf(cmd, "skip %s (exists, use --overwrite)\n", path)
					continue
				}
				src, err := Generate(pkg, t)
				if err != nil {
					return fmt.Errorf("generate %s: %w", t.Name, err)
				}
				if err := os.WriteFile(path, src, 0644); err != nil {
					return err
				}
				printf(cmd, "wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pkgName, "pkg", "", "Package name of the generated code (default: the file's package, or tables)")
	cmd.Flags().StringVar(&outDir, "out", ".", "Output directory")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	return cmd
}

// Generate renders the Go source of one table.
func Generate(pkg string, tables ...schemafile.Table) ([]byte, error) {
	data := FileData{Package: pkg}
	for _, t := range tables {
		def := t.Definition()
		m := ModelData{StructName: t.Type, RawTableName: t.Name}
		if m.StructName == "" {
			m.StructName = exportName(t.Name) + "Dao"
		}
		for _, fd := range def.Fields {
			name := exportName(fd.Name)
			attrs := fd.Attrs
			if name != fd.Name && attrs.Column == "" {
				attrs.Column = fd.Name
			}
			m.Fields = append(m.Fields, Field{Name: name, Type: schemafile.GoType(fd), Tag: generateTag(attrs)})
		}
		data.Models = append(data.Models, m)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return format.Source(buf.Bytes())
}

// generateTag renders attributes in the msi tag syntax.
func generateTag(a model.Attributes) string {
	var parts []string
	if a.Key != nil {
		if *a.Key {
			parts = append(parts, "pk")
		} else {
			parts = append(parts, "pk:false")
		}
	}
	if a.Category != "" {
		parts = append(parts, "category:"+a.Category)
	}
	if a.Width > 0 {
		parts = append(parts, "size:"+strconv.Itoa(a.Width))
	}
	if a.Column != "" {
		parts = append(parts, "column:"+a.Column)
	}
	if a.Nullable != nil {
		if *a.Nullable {
			parts = append(parts, "nullable")
		} else {
			parts = append(parts, "notnull")
		}
	}
	if a.Localizable != nil && *a.Localizable {
		parts = append(parts, "localizable")
	}
	if a.ForeignKey != nil {
		fk := "fk:" + a.ForeignKey.Table
		if a.ForeignKey.Column != 0 {
			fk += "." + strconv.Itoa(a.ForeignKey.Column)
		}
		parts = append(parts, fk)
	}
	switch {
	case a.Generated:
		parts = append(parts, "generated")
	case a.Identifier:
		parts = append(parts, "identifier")
	}
	return strings.Join(parts, " ")
}

// exportName turns a column or table name into an exported Go identifier.
func exportName(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
		}
	}
	name := strings.TrimLeft(sb.String(), "_")
	if name == "" {
		return "X"
	}
	runes := []rune(name)
	if unicode.IsDigit(runes[0]) {
		return "X" + name
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
