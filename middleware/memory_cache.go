package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/shrek82/msitable/core"
	"github.com/shrek82/msitable/model"
)

// MemoryCacheMiddleware caches compiled schemas in memory. Failed compiles
// are never cached.
type MemoryCacheMiddleware struct {
	items      map[string]memoryCacheEntry
	mu         sync.RWMutex
	stopClean  chan struct{}
	compiler   *core.Compiler
	DefaultTTL time.Duration
}

type memoryCacheEntry struct {
	Data      []byte
	ExpiresAt time.Time
}

// NewMemoryCache creates a memory cache; a zero TTL keeps entries forever.
func NewMemoryCache(defaultTTL ...time.Duration) *MemoryCacheMiddleware {
	ttl := 5 * time.Minute
	if len(defaultTTL) > 0 {
		ttl = defaultTTL[0]
	}
	return &MemoryCacheMiddleware{
		items:      make(map[string]memoryCacheEntry),
		stopClean:  make(chan struct{}),
		DefaultTTL: ttl,
	}
}

func (m *MemoryCacheMiddleware) Name() string {
	return "MemoryCache"
}

func (m *MemoryCacheMiddleware) Init(c *core.Compiler) error {
	m.compiler = c
	go m.cleanupLoop()
	return nil
}

func (m *MemoryCacheMiddleware) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopClean:
			return
		case <-ticker.C:
			m.cleanup()
		}
	}
}

func (m *MemoryCacheMiddleware) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for k, v := range m.items {
		if !v.ExpiresAt.IsZero() && now.After(v.ExpiresAt) {
			delete(m.items, k)
		}
	}
}

func (m *MemoryCacheMiddleware) Shutdown() error {
	close(m.stopClean)
	return nil
}

// Len returns the number of cached schemas.
func (m *MemoryCacheMiddleware) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *MemoryCacheMiddleware) Process(ctx context.Context, def *model.Definition, next core.CompileFunc) (*model.TableSchema, error) {
	key, err := schemaKey(m.compiler, def)
	if err != nil {
		return next(ctx, def)
	}

	m.mu.RLock()
	entry, found := m.items[key]
	m.mu.RUnlock()

	if found {
		if entry.ExpiresAt.IsZero() || time.Now().Before(entry.ExpiresAt) {
			if s, ok := decodeSchema(entry.Data); ok {
				return s, nil
			}
		} else {
			m.mu.Lock()
			delete(m.items, key)
			m.mu.Unlock()
		}
	}

	s, err := next(ctx, def)
	if err != nil {
		return nil, err
	}

	if data, err := encodeSchema(s); err == nil {
		var expires time.Time
		if m.DefaultTTL > 0 {
			expires = time.Now().Add(m.DefaultTTL)
		}
		m.mu.Lock()
		m.items[key] = memoryCacheEntry{Data: data, ExpiresAt: expires}
		m.mu.Unlock()
	}
	return s, nil
}
