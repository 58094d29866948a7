package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/shrek82/msitable/category"
	"github.com/shrek82/msitable/logger"
	"github.com/shrek82/msitable/model"
	"github.com/shrek82/msitable/validator"
)

// Options defines the configuration of a Compiler.
type Options struct {
	// Catalog is the category catalog; category.Standard() when nil.
	Catalog *category.Catalog
	// Logger receives compile events; a silent logger when nil.
	Logger logger.Logger
	// Rules replaces the default validator rule set when non-empty.
	Rules []validator.Rule
	// RulesVersion is mixed into cache keys. Set it whenever the behaviour of
	// Rules changes without a change to their names, or when compilers with
	// different rule sets share one schema cache.
	RulesVersion string
}

// Compiler turns DAO definitions into table schemas and conversions.
// It is safe for concurrent use.
type Compiler struct {
	catalog *category.Catalog
	logger  logger.Logger
	rules   []validator.Rule
	version string

	mu          sync.RWMutex
	middlewares []CompileMiddleware

	mappings sync.Map
}

// NewCompiler creates a compiler with the given options.
func NewCompiler(opts *Options) *Compiler {
	c := &Compiler{
		catalog: category.Standard(),
		logger:  logger.NewNopLogger(),
		rules:   validator.DefaultRules(),
	}
	if opts != nil {
		if opts.Catalog != nil {
			c.catalog = opts.Catalog
		}
		if opts.Logger != nil {
			c.logger = opts.Logger
		}
		if len(opts.Rules) > 0 {
			c.rules = opts.Rules
		}
		c.version = opts.RulesVersion
	}
	return c
}

// Catalog returns the catalog the compiler resolves categories against.
func (c *Compiler) Catalog() *category.Catalog {
	return c.catalog
}

// Logger returns the compiler's logger.
func (c *Compiler) Logger() logger.Logger {
	return c.logger
}

// Use initialises and appends middleware to the compile chain.
func (c *Compiler) Use(mws ...CompileMiddleware) error {
	for _, m := range mws {
		if err := m.Init(c); err != nil {
			return fmt.Errorf("init middleware %s: %w", m.Name(), err)
		}
		c.mu.Lock()
		c.middlewares = append(c.middlewares, m)
		c.mu.Unlock()
	}
	return nil
}

// Close shuts down every middleware.
func (c *Compiler) Close() error {
	c.mu.Lock()
	mws := c.middlewares
	c.middlewares = nil
	c.mu.Unlock()

	var errs []error
	for _, m := range mws {
		if err := m.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("shutdown middleware %s: %w", m.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// CacheKey identifies the compile result of def under this compiler's
// catalog and rule set.
func (c *Compiler) CacheKey(def *model.Definition) (string, error) {
	data, err := json.Marshal(def)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(c.catalog.Fingerprint()))
	h.Write([]byte{0})
	h.Write([]byte(c.version))
	for _, r := range c.rules {
		h.Write([]byte{0})
		h.Write([]byte(r.Name()))
	}
	h.Write([]byte{0})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Compile runs the pipeline for one definition: field resolution,
// validation and schema emission, wrapped by the middleware chain.
func (c *Compiler) Compile(ctx context.Context, def *model.Definition) (*model.TableSchema, error) {
	c.mu.RLock()
	next := CompileFunc(c.compile)
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		m, n := c.middlewares[i], next
		next = func(ctx context.Context, def *model.Definition) (*model.TableSchema, error) {
			return m.Process(ctx, def, n)
		}
	}
	c.mu.RUnlock()
	return next(ctx, def)
}

func (c *Compiler) compile(ctx context.Context, def *model.Definition) (*model.TableSchema, error) {
	start := time.Now()
	schema, err := c.build(def)
	if err != nil {
		c.logger.Compile(def.Name, 0, time.Since(start), err)
		return nil, err
	}
	c.logger.Compile(def.Name, len(schema.Columns), time.Since(start), nil)
	return schema, nil
}

func (c *Compiler) build(def *model.Definition) (*model.TableSchema, error) {
	fields, err := model.Build(c.catalog, def)
	if err != nil {
		return nil, err
	}
	if err := validator.Validate(def.Name, fields, c.rules...); err != nil {
		return nil, err
	}
	return emitSchema(def.Name, fields), nil
}

// CompileAll compiles every definition and checks the foreign keys between
// them. Errors of all definitions are returned together.
func (c *Compiler) CompileAll(ctx context.Context, defs ...*model.Definition) ([]*model.TableSchema, error) {
	schemas := make([]*model.TableSchema, 0, len(defs))
	var errs []error
	for _, def := range defs {
		s, err := c.Compile(ctx, def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		schemas = append(schemas, s)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if err := model.CheckForeignKeys(schemas...); err != nil {
		return nil, err
	}
	return schemas, nil
}

// CompileType compiles a DAO struct value or type into its mapping.
// Mappings are cached per type.
func (c *Compiler) CompileType(dao any) (*Mapping, error) {
	if dao == nil {
		return nil, fmt.Errorf("%w: value is nil", ErrInvalidModel)
	}
	typ, ok := dao.(reflect.Type)
	if !ok {
		typ = reflect.TypeOf(dao)
	}
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}

	if cached, ok := c.mappings.Load(typ); ok {
		return cached.(*Mapping), nil
	}

	def, err := model.ParseType(typ)
	if err != nil {
		return nil, err
	}
	schema, err := c.Compile(context.Background(), def)
	if err != nil {
		return nil, err
	}
	m, err := newMapping(schema, typ)
	if err != nil {
		return nil, err
	}

	actual, _ := c.mappings.LoadOrStore(typ, m)
	return actual.(*Mapping), nil
}

var defaultCompiler = NewCompiler(nil)

// Compile compiles a DAO with the standard catalog.
func Compile(dao any) (*Mapping, error) {
	return defaultCompiler.CompileType(dao)
}

// Default returns the compiler used by the package-level functions.
func Default() *Compiler {
	return defaultCompiler
}
