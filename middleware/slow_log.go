package middleware

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shrek82/msitable/core"
	"github.com/shrek82/msitable/logger"
	"github.com/shrek82/msitable/model"
)

// SlowLogMiddleware logs compiles that take longer than the specified threshold.
type SlowLogMiddleware struct {
	Threshold time.Duration
	LogPath   string
	logger    logger.Logger
	file      *os.File
}

// NewSlowLog creates a new SlowLogMiddleware.
// threshold: compiles taking longer than this will be logged.
// logPath: path to a JSON log file. If empty, the compiler's logger is used.
func NewSlowLog(threshold time.Duration, logPath string) *SlowLogMiddleware {
	return &SlowLogMiddleware{
		Threshold: threshold,
		LogPath:   logPath,
	}
}

// SetOutput sets the output destination for the logger.
func (m *SlowLogMiddleware) SetOutput(w io.Writer) {
	m.logger = logger.New(w, logger.LogLevelWarn, logger.LogFormatJSON)
}

func (m *SlowLogMiddleware) Name() string {
	return "SlowLog"
}

func (m *SlowLogMiddleware) Init(c *core.Compiler) error {
	// If logger is already set (e.g. by SetOutput), don't overwrite it
	if m.logger != nil {
		return nil
	}

	if m.LogPath != "" {
		f, err := os.OpenFile(m.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open slow log file: %w", err)
		}
		m.file = f
		m.logger = logger.New(f, logger.LogLevelWarn, logger.LogFormatJSON)
	} else {
		m.logger = c.Logger()
	}
	return nil
}

func (m *SlowLogMiddleware) Shutdown() error {
	if m.file != nil {
		return m.file.Close()
	}
	return nil
}

func (m *SlowLogMiddleware) Process(ctx context.Context, def *model.Definition, next core.CompileFunc) (*model.TableSchema, error) {
	start := time.Now()
	s, err := next(ctx, def)
	duration := time.Since(start)

	if duration > m.Threshold {
		m.logger.WithFields(map[string]any{
			"table":    def.Name,
			"fields":   len(def.Fields),
			"duration": duration.String(),
		}).Warn("slow compile: err=%v", err)
	}
	return s, err
}
