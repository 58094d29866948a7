package core

import (
	"context"

	"github.com/shrek82/msitable/model"
)

// Component is the base interface for all compiler components/middleware.
type Component interface {
	Name() string
	Init(c *Compiler) error
	Shutdown() error
}

// CompileFunc is the function type for the next step in the middleware chain.
type CompileFunc func(ctx context.Context, def *model.Definition) (*model.TableSchema, error)

// CompileMiddleware is the interface for compile interceptors.
type CompileMiddleware interface {
	Component
	Process(ctx context.Context, def *model.Definition, next CompileFunc) (*model.TableSchema, error)
}

type sourceKey struct{}

// WithSource records where the definitions compiled under ctx came from.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFrom returns the source recorded by WithSource.
func SourceFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(sourceKey{}).(string)
	return s, ok
}
