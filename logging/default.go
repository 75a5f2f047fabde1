package logging

import (
	"context"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"
	"strings"
	"sync/atomic"
)

// levelColors maps levels written to stderr to their ANSI prefix
var levelColors = map[Level]string{
	WarnLevel:  ColorYellow,
	ErrorLevel: ColorRed,
	FatalLevel: ColorBold + ColorRed,
}

// DefaultLogger writes "[LEVEL] msg: err k=v ..." lines through the standard
// log package. Debug and Info go to stdout, everything else to stderr,
// coloured when stdout is a terminal.
//
// Child loggers from WithFields share the level and colour switches of their
// parent, so SetLevel and DisableColors reach component loggers created
// earlier. All methods are safe for concurrent use.
type DefaultLogger struct {
	out    *log.Logger
	errOut *log.Logger

	level     *atomic.Int32
	useColors *atomic.Bool

	fields Fields
	exit   func(int)
}

// NewDefaultLogger creates a logger writing to stdout/stderr
func NewDefaultLogger() *DefaultLogger {
	l := NewWriterLogger(os.Stdout, os.Stderr)
	l.useColors.Store(isTerminal())
	return l
}

// NewWriterLogger creates an uncoloured logger over arbitrary writers
func NewWriterLogger(stdout, stderr io.Writer) *DefaultLogger {
	l := &DefaultLogger{
		out:       log.New(stdout, "", log.LstdFlags),
		errOut:    log.New(stderr, "", log.LstdFlags),
		level:     new(atomic.Int32),
		useColors: new(atomic.Bool),
		fields:    Fields{},
		exit:      os.Exit,
	}
	l.level.Store(int32(InfoLevel))
	return l
}

func isTerminal() bool {
	info, err := os.Stdout.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// format renders one line. Fields are sorted so output is stable.
func (d *DefaultLogger) format(level Level, err error, msg string, extra []Fields) string {
	fields := maps.Clone(d.fields)
	for _, f := range extra {
		maps.Copy(fields, f)
	}

	color, colored := levelColors[level]
	colored = colored && d.useColors.Load()

	var b strings.Builder
	if colored {
		b.WriteString(color)
	}
	fmt.Fprintf(&b, "[%s] %s", level, msg)
	if err != nil {
		fmt.Fprintf(&b, ": %v", err)
	}
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	if colored {
		b.WriteString(ColorReset)
	}
	return b.String()
}

func (d *DefaultLogger) log(level Level, err error, msg string, extra []Fields) {
	if level < Level(d.level.Load()) {
		return
	}

	line := d.format(level, err, msg, extra)
	if level <= InfoLevel {
		d.out.Println(line)
		return
	}

	d.errOut.Println(line)
	if level == FatalLevel {
		d.exit(1)
	}
}

func (d *DefaultLogger) Debug(msg string, fields ...Fields) {
	d.log(DebugLevel, nil, msg, fields)
}

func (d *DefaultLogger) Info(msg string, fields ...Fields) {
	d.log(InfoLevel, nil, msg, fields)
}

func (d *DefaultLogger) Warn(msg string, fields ...Fields) {
	d.log(WarnLevel, nil, msg, fields)
}

func (d *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	d.log(ErrorLevel, err, msg, fields)
}

// Fatal logs and exits with status 1
func (d *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	d.log(FatalLevel, err, msg, fields)
}

// WithFields returns a child logger carrying the merged fields
func (d *DefaultLogger) WithFields(fields Fields) Logger {
	child := *d
	child.fields = maps.Clone(d.fields)
	maps.Copy(child.fields, fields)
	return &child
}

func (d *DefaultLogger) WithContext(ctx context.Context) Logger {
	if fields, ok := fieldsFromContext(ctx); ok {
		return d.WithFields(fields)
	}
	return d
}

func (d *DefaultLogger) SetLevel(level Level) {
	d.level.Store(int32(level))
}

// NoOpLogger discards everything
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
