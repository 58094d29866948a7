package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shrek82/msitable/core"
	"github.com/shrek82/msitable/model"
)

type traceKey struct{}

// WithTraceID attaches a trace id to ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceKey{}, id)
}

// TraceIDFrom returns the trace id attached by WithTraceID.
func TraceIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(traceKey{}).(string)
	return id, ok
}

// TracingMiddleware logs each compile at debug level with its trace id and
// the source recorded by core.WithSource. Compiles without a trace id get a
// fresh one.
type TracingMiddleware struct {
	compiler *core.Compiler
}

func NewTracing() *TracingMiddleware {
	return &TracingMiddleware{}
}

func (m *TracingMiddleware) Name() string {
	return "Tracing"
}

func (m *TracingMiddleware) Init(c *core.Compiler) error {
	m.compiler = c
	return nil
}

func (m *TracingMiddleware) Shutdown() error {
	return nil
}

func (m *TracingMiddleware) Process(ctx context.Context, def *model.Definition, next core.CompileFunc) (*model.TableSchema, error) {
	id, ok := TraceIDFrom(ctx)
	if !ok {
		id = strings.ReplaceAll(uuid.NewString(), "-", "")
		ctx = WithTraceID(ctx, id)
	}

	fields := map[string]any{"trace_id": id, "table": def.Name}
	if src, ok := core.SourceFrom(ctx); ok {
		fields["source"] = src
	}
	log := m.compiler.Logger().WithFields(fields)
	log.Debug("compile start")

	s, err := next(ctx, def)
	if err != nil {
		log.Debug("compile failed: %v", err)
		return nil, err
	}
	log.Debug("compile done: %d columns", len(s.Columns))
	return s, nil
}
