// Package log provides context-aware logging for ws.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

type ctxKey struct{}

// Logger provides output and verbose command logging.
// It is safe for concurrent use; per-repository workers share one Logger.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool
	quiet   bool
	trace   *zap.Logger
}

// New creates a new logger. quiet suppresses everything, including verbose output.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, verbose: verbose, quiet: quiet}
}

// SetTrace mirrors debug and command lines into z regardless of verbosity.
func (l *Logger) SetTrace(z *zap.Logger) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trace = z
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

// Printf writes formatted output.
func (l *Logger) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.trace != nil {
		l.trace.Info(strings.TrimSpace(msg))
	}
	if l.quiet {
		return
	}
	fmt.Fprint(l.out, msg)
}

// Println writes a line of output.
func (l *Logger) Println(args ...any) {
	msg := fmt.Sprintln(args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.trace != nil && strings.TrimSpace(msg) != "" {
		l.trace.Info(strings.TrimSpace(msg))
	}
	if l.quiet {
		return
	}
	fmt.Fprint(l.out, msg)
}

// Debug writes a message with key=value pairs when verbose.
// A trailing key without a value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.trace != nil {
		fields := make([]zap.Field, 0, len(keyvals)/2)
		for i := 0; i+1 < len(keyvals); i += 2 {
			fields = append(fields, zap.Any(fmt.Sprint(keyvals[i]), keyvals[i+1]))
		}
		l.trace.Debug(msg, fields...)
	}

	if !l.verbose || l.quiet {
		return
	}
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
	}
	fmt.Fprintln(l.out, b.String())
}

// Command logs an external command execution and returns a function that
// records its duration once the command finished.
// Only prints when verbose mode is enabled.
func (l *Logger) Command(dir, name string, args ...string) func(time.Duration) {
	line := "$ " + name
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	if dir != "" {
		line = "[" + dir + "] " + line
	}

	return func(d time.Duration) {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.trace != nil {
			l.trace.Debug("exec", zap.String("dir", dir), zap.String("cmd", name), zap.Strings("args", args), zap.Duration("took", d))
		}
		if !l.verbose || l.quiet {
			return
		}
		fmt.Fprintf(l.out, "%s (%s)\n", line, d.Round(time.Millisecond))
	}
}

// IsVerbose returns true if verbose output is enabled and not silenced by quiet.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// IsQuiet returns true if progress output is suppressed.
func (l *Logger) IsQuiet() bool {
	return l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}
