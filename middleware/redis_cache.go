package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shrek82/msitable/core"
	"github.com/shrek82/msitable/model"
)

// RedisCacheMiddleware shares compiled schemas between processes through
// Redis. A TTL of zero stores entries without expiration.
type RedisCacheMiddleware struct {
	Client   *redis.Client
	TTL      time.Duration
	compiler *core.Compiler
}

func NewRedisCache(opt *redis.Options, ttl time.Duration) *RedisCacheMiddleware {
	return &RedisCacheMiddleware{
		Client: redis.NewClient(opt),
		TTL:    ttl,
	}
}

func (m *RedisCacheMiddleware) Name() string {
	return "RedisCache"
}

func (m *RedisCacheMiddleware) Init(c *core.Compiler) error {
	m.compiler = c
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Ping(ctx).Err()
}

func (m *RedisCacheMiddleware) Shutdown() error {
	return m.Client.Close()
}

func (m *RedisCacheMiddleware) Process(ctx context.Context, def *model.Definition, next core.CompileFunc) (*model.TableSchema, error) {
	key, err := schemaKey(m.compiler, def)
	if err != nil {
		return next(ctx, def)
	}

	data, err := m.Client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if s, ok := decodeSchema(data); ok {
			return s, nil
		}
	case err != redis.Nil:
		m.compiler.Logger().Warn("redis cache get %s: %v", def.Name, err)
	}

	s, err := next(ctx, def)
	if err != nil {
		return nil, err
	}

	if data, err := encodeSchema(s); err == nil {
		if err := m.Client.Set(ctx, key, data, m.TTL).Err(); err != nil {
			m.compiler.Logger().Warn("redis cache set %s: %v", def.Name, err)
		}
	}
	return s, nil
}
