package event

import (
	"context"
	"sort"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/pantryshop/storefront/utils"
)

// Logger routes Watermill's logs through the utils logger so they follow
// its level and JSON format.
type Logger struct {
	fields watermill.LogFields
}

var _ watermill.LoggerAdapter = (*Logger)(nil)

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Error(msg string, err error, fields watermill.LogFields) {
	utils.ErrorCtx(context.Background(), msg, append(l.pairs(fields), "error", err)...)
}

func (l *Logger) Info(msg string, fields watermill.LogFields) {
	utils.InfoCtx(context.Background(), msg, l.pairs(fields)...)
}

func (l *Logger) Debug(msg string, fields watermill.LogFields) {
	utils.DebugCtx(context.Background(), msg, l.pairs(fields)...)
}

// Trace has no zap counterpart and is logged at debug.
func (l *Logger) Trace(msg string, fields watermill.LogFields) {
	utils.DebugCtx(context.Background(), msg, l.pairs(fields)...)
}

func (l *Logger) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &Logger{fields: l.fields.Add(fields)}
}

// pairs flattens the bound and call fields into sorted key/value pairs.
func (l *Logger) pairs(fields watermill.LogFields) []any {
	all := l.fields.Add(fields)
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		out = append(out, k, all[k])
	}
	return out
}
