package middleware

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shrek82/msitable/core"
	"github.com/shrek82/msitable/model"
)

// FileCacheMiddleware caches compiled schemas as JSON files, so repeated CLI
// runs over an unchanged schema file skip compilation.
type FileCacheMiddleware struct {
	CacheDir   string
	DefaultTTL time.Duration
	compiler   *core.Compiler
}

func NewFileCache(cacheDir string, defaultTTL ...time.Duration) *FileCacheMiddleware {
	ttl := 24 * time.Hour
	if len(defaultTTL) > 0 {
		ttl = defaultTTL[0]
	}
	return &FileCacheMiddleware{
		CacheDir:   cacheDir,
		DefaultTTL: ttl,
	}
}

func (m *FileCacheMiddleware) Name() string {
	return "FileCache"
}

func (m *FileCacheMiddleware) Init(c *core.Compiler) error {
	if m.CacheDir == "" {
		return fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(m.CacheDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	m.compiler = c
	return nil
}

func (m *FileCacheMiddleware) Shutdown() error {
	return nil
}

type fileCacheEntry struct {
	Data      json.RawMessage `json:"data"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (m *FileCacheMiddleware) path(key string) string {
	hash := md5.Sum([]byte(key))
	return filepath.Join(m.CacheDir, hex.EncodeToString(hash[:])+".json")
}

func (m *FileCacheMiddleware) Process(ctx context.Context, def *model.Definition, next core.CompileFunc) (*model.TableSchema, error) {
	key, err := schemaKey(m.compiler, def)
	if err != nil {
		return next(ctx, def)
	}
	filename := m.path(key)

	if data, err := os.ReadFile(filename); err == nil {
		var entry fileCacheEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			if entry.ExpiresAt.IsZero() || time.Now().Before(entry.ExpiresAt) {
				if s, ok := decodeSchema(entry.Data); ok {
					return s, nil
				}
			} else {
				_ = os.Remove(filename)
			}
		}
	}

	s, err := next(ctx, def)
	if err != nil {
		return nil, err
	}

	if data, err := encodeSchema(s); err == nil {
		entry := fileCacheEntry{Data: data}
		if m.DefaultTTL > 0 {
			entry.ExpiresAt = time.Now().Add(m.DefaultTTL)
		}
		fileBytes, _ := json.Marshal(entry)
		if err := os.WriteFile(filename, fileBytes, 0644); err != nil {
			m.compiler.Logger().Warn("file cache: %v", err)
		}
	}
	return s, nil
}
