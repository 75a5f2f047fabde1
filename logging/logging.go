package logging

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// ANSI colour codes for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorBold   = "\033[1m"
)

// Level orders log severities; a logger drops messages below its level
type Level int32

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name such as "debug" or "WARN"
func ParseLevel(name string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return DebugLevel, nil
	case "", "info":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	case "fatal":
		return FatalLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level: %q", name)
	}
}

// Fields represents structured logging fields
type Fields map[string]any

// Logger is the structured logger every component takes
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(err error, msg string, fields ...Fields)
	Fatal(err error, msg string, fields ...Fields)

	// WithFields returns a logger with preset fields
	WithFields(fields Fields) Logger

	// WithContext returns a logger carrying the fields stored by ContextWithFields
	WithContext(ctx context.Context) Logger

	// SetLevel sets the minimum log level
	SetLevel(level Level)
}

type fieldsKey struct{}

// ContextWithFields stores logging fields on a context for WithContext
func ContextWithFields(ctx context.Context, fields Fields) context.Context {
	return context.WithValue(ctx, fieldsKey{}, fields)
}

func fieldsFromContext(ctx context.Context) (Fields, bool) {
	if ctx == nil {
		return nil, false
	}
	fields, ok := ctx.Value(fieldsKey{}).(Fields)
	return fields, ok
}

// loggerBox lets atomic.Value hold loggers of different concrete types
type loggerBox struct{ Logger }

var global atomic.Value

func init() {
	global.Store(loggerBox{NewDefaultLogger()})
}

// SetGlobalLogger replaces the logger behind the package helpers.
// nil installs a NoOpLogger.
func SetGlobalLogger(logger Logger) {
	if logger == nil {
		logger = &NoOpLogger{}
	}
	global.Store(loggerBox{logger})
}

// GetGlobalLogger returns the current global logger
func GetGlobalLogger() Logger {
	return global.Load().(loggerBox).Logger
}

func Debug(msg string, fields ...Fields) { GetGlobalLogger().Debug(msg, fields...) }

func Info(msg string, fields ...Fields) { GetGlobalLogger().Info(msg, fields...) }

func Warn(msg string, fields ...Fields) { GetGlobalLogger().Warn(msg, fields...) }

func Error(err error, msg string, fields ...Fields) { GetGlobalLogger().Error(err, msg, fields...) }

func Fatal(err error, msg string, fields ...Fields) { GetGlobalLogger().Fatal(err, msg, fields...) }

// WithFields returns a child of the global logger. Components call this once
// at construction; later SetGlobalLogger calls do not reach the child.
func WithFields(fields Fields) Logger { return GetGlobalLogger().WithFields(fields) }

func WithContext(ctx context.Context) Logger { return GetGlobalLogger().WithContext(ctx) }

func SetLevel(level Level) { GetGlobalLogger().SetLevel(level) }

// DisableColors turns off ANSI colours on the global DefaultLogger and its children
func DisableColors() {
	if l, ok := GetGlobalLogger().(*DefaultLogger); ok {
		l.useColors.Store(false)
	}
}
