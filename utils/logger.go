package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/pantryshop/storefront/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	userLogger     *log.Logger
	userWriter     io.Writer = os.Stdout
	internalLogger *zap.SugaredLogger
	logLevel       = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	loggerMu       sync.RWMutex
)

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

func init() {
	userLogger = log.New(userWriter, "", 0)
	if os.Getenv(constants.EnvDebug) != "" {
		logLevel.SetLevel(zapcore.DebugLevel)
	}
	initInternalLogger()
}

func initInternalLogger() {
	// Internal logger: JSON to stderr so platform log drains can index fields
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = logLevel
	l, err := cfg.Build()
	if err != nil {
		log.Printf("Failed to initialize zap logger: %v, falling back to standard logger", err)
		internalLogger = nil
		return
	}
	internalLogger = l.Sugar()
}

func sugar() *zap.SugaredLogger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return internalLogger
}

// SetLevel changes the internal logger level ("debug", "info", "warn", "error").
func SetLevel(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logLevel.SetLevel(lvl)
	return nil
}

// Level returns the current internal logger level.
func Level() string {
	return logLevel.Level().String()
}

func User(format string, v ...any) {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if userLogger != nil {
		userLogger.Printf(format, v...)
	}
}

func Info(format string, v ...any) {
	if l := sugar(); l != nil {
		l.Infof(format, v...)
	}
}

func Warn(format string, v ...any) {
	if l := sugar(); l != nil {
		l.Warnf(format, v...)
	}
}

func Error(format string, v ...any) {
	if l := sugar(); l != nil {
		l.Errorf(format, v...)
	}
}

func Debug(format string, v ...any) {
	if l := sugar(); l != nil {
		l.Debugf(format, v...)
	}
}

func SetUserOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	loggerMu.Lock()
	defer loggerMu.Unlock()
	userWriter = w
	userLogger = log.New(userWriter, "", 0)
}

// SetInternalOutput redirects the internal logger, keeping the current level.
func SetInternalOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(w),
		logLevel,
	)
	loggerMu.Lock()
	defer loggerMu.Unlock()
	internalLogger = zap.New(core).Sugar()
}

// Sync flushes buffered log entries.
func Sync() {
	if l := sugar(); l != nil {
		_ = l.Sync()
	}
}

// Errorf logs the error message and returns it as an error value.
func Errorf(format string, v ...any) error {
	err := fmt.Errorf(format, v...)
	if l := sugar(); l != nil {
		l.Errorf("%s", err)
	}
	return err
}

// LoggerWriter adapts a printf-style log function to io.Writer, one entry per line.
type LoggerWriter struct {
	Fn     func(string, ...any)
	Prefix string
}

func (w *LoggerWriter) Write(p []byte) (n int, err error) {
	lines := strings.Split(string(p), "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			if w.Prefix != "" {
				w.Fn("%s%s", w.Prefix, line)
			} else {
				w.Fn("%s", line)
			}
		}
	}
	return len(p), nil
}

// StdLogger returns a *log.Logger that writes through fn, for APIs such as
// http.Server.ErrorLog.
func StdLogger(fn func(string, ...any), prefix string) *log.Logger {
	return log.New(&LoggerWriter{Fn: fn, Prefix: prefix}, "", 0)
}

// WithRequestID returns a new context with the given request ID.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey, reqID)
}

// RequestIDFromContext extracts the request ID from context, if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(requestIDKey)
	if s, ok := v.(string); ok {
		return s, true
	}
	return "", false
}

func withRequestID(ctx context.Context, fields []any) []any {
	if reqID, ok := RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", reqID)
	}
	return fields
}

// InfoCtx logs an info message with context, including request ID if present.
func InfoCtx(ctx context.Context, msg string, fields ...any) {
	if l := sugar(); l != nil {
		l.Infow(msg, withRequestID(ctx, fields)...)
	}
}

// WarnCtx logs a warning message with context, including request ID if present.
func WarnCtx(ctx context.Context, msg string, fields ...any) {
	if l := sugar(); l != nil {
		l.Warnw(msg, withRequestID(ctx, fields)...)
	}
}

// ErrorCtx logs an error message with context, including request ID if present.
func ErrorCtx(ctx context.Context, msg string, fields ...any) {
	if l := sugar(); l != nil {
		l.Errorw(msg, withRequestID(ctx, fields)...)
	}
}

// DebugCtx logs a debug message with context, including request ID if present.
func DebugCtx(ctx context.Context, msg string, fields ...any) {
	if l := sugar(); l != nil {
		l.Debugw(msg, withRequestID(ctx, fields)...)
	}
}
