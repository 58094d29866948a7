// Package msitable compiles annotated Go structs into installer table
// schemas and converts between struct values and table rows.
package msitable

import (
	"github.com/shrek82/msitable/category"
	"github.com/shrek82/msitable/core"
	"github.com/shrek82/msitable/model"
	"github.com/shrek82/msitable/validator"
)

// Re-export core types and functions
type Compiler = core.Compiler
type Options = core.Options
type Mapping = core.Mapping
type Value = core.Value
type Row = core.Row
type Codec[T any] = core.Codec[T]
type Table[T any] = core.Table[T]
type Exporter = core.Exporter

var (
	NewCompiler   = core.NewCompiler
	Compile       = core.Compile
	OpenExporter  = core.OpenExporter
	NewIdentifier = core.NewIdentifierGenerator
	Null          = core.Null
	Int           = core.Int
	Str           = core.Str
	Binary        = core.Binary
)

// NewCodec compiles T into a typed conversion pair.
func NewCodec[T any](c *Compiler) (*Codec[T], error) { return core.NewCodec[T](c) }

// NewTable compiles T and returns an empty entry table.
func NewTable[T any](c *Compiler) (*Table[T], error) { return core.NewTable[T](c) }

// Re-export schema types
type TableSchema = model.TableSchema
type Column = model.Column
type Catalog = category.Catalog
type ValidationErrors = validator.ValidationErrors

var StandardCatalog = category.Standard

// Errors
var (
	ErrUnknownCategory  = core.ErrUnknownCategory
	ErrUnsupportedType  = core.ErrUnsupportedType
	ErrInvalidSchema    = core.ErrInvalidSchema
	ErrConversion       = core.ErrConversion
	ErrRowShapeMismatch = core.ErrRowShapeMismatch
	ErrDuplicateKey     = core.ErrDuplicateKey
)
