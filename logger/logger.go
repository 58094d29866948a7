package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel defines the severity of the log
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// ParseLevel maps a level name to a LogLevel. Unknown names yield LogLevelInfo.
func ParseLevel(s string) LogLevel {
	switch s {
	case "silent", "off":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelInfo
	}
}

// LogFormat defines the output format of the log
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Logger is the interface for compile events and internal messages
type Logger interface {
	SetLevel(level LogLevel)
	SetFormat(format LogFormat)
	SetOutput(w io.Writer)
	WithFields(fields map[string]any) Logger
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Compile(table string, columns int, duration time.Duration, err error)
}

type zeroLogger struct {
	level  LogLevel
	format LogFormat
	writer io.Writer
	fields map[string]any
	zl     zerolog.Logger
}

// NewStdLogger creates a text logger writing to standard output.
func NewStdLogger() Logger {
	return New(os.Stdout, LogLevelInfo, LogFormatText)
}

// NewNopLogger creates a logger that discards everything.
func NewNopLogger() Logger {
	return New(io.Discard, LogLevelSilent, LogFormatText)
}

// New creates a logger with the given output, level and format.
func New(w io.Writer, level LogLevel, format LogFormat) Logger {
	l := &zeroLogger{
		level:  level,
		format: format,
		writer: w,
		fields: make(map[string]any),
	}
	l.rebuild()
	return l
}

func (l *zeroLogger) rebuild() {
	out := l.writer
	if l.format != LogFormatJSON {
		out = zerolog.ConsoleWriter{Out: l.writer, NoColor: true, TimeFormat: "2006-01-02 15:04:05"}
	}
	l.zl = zerolog.New(out).
		Level(zerologLevel(l.level)).
		With().Timestamp().Str("component", "msitable").Fields(l.fields).
		Logger()
}

func zerologLevel(level LogLevel) zerolog.Level {
	switch level {
	case LogLevelSilent:
		return zerolog.Disabled
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.InfoLevel
	}
}

func (l *zeroLogger) SetLevel(level LogLevel) {
	l.level = level
	l.rebuild()
}

func (l *zeroLogger) SetFormat(format LogFormat) {
	l.format = format
	l.rebuild()
}

func (l *zeroLogger) SetOutput(w io.Writer) {
	l.writer = w
	l.rebuild()
}

func (l *zeroLogger) WithFields(fields map[string]any) Logger {
	newFields := make(map[string]any, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	nl := &zeroLogger{
		level:  l.level,
		format: l.format,
		writer: l.writer,
		fields: newFields,
	}
	nl.rebuild()
	return nl
}

func (l *zeroLogger) Debug(format string, args ...any) {
	l.zl.Debug().Msgf(format, args...)
}

func (l *zeroLogger) Info(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *zeroLogger) Warn(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

func (l *zeroLogger) Error(format string, args ...any) {
	l.zl.Error().Msgf(format, args...)
}

func (l *zeroLogger) Compile(table string, columns int, duration time.Duration, err error) {
	if err != nil {
		l.zl.Error().Err(err).Str("table", table).Dur("duration", duration).Msg("compile failed")
		return
	}
	l.zl.Info().Str("table", table).Int("columns", columns).Dur("duration", duration).Msg("compiled")
}
