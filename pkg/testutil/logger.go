package testutil

import (
	"context"
	"sync"

	"github.com/nimburion/storefront/pkg/observability/logger"
)

// LogEntry is a single entry captured by RecordingLogger.
type LogEntry struct {
	Level  string
	Msg    string
	Fields map[string]interface{}
}

// RecordingLogger captures log entries so tests can assert on them.
// Children created with With share the parent's entry list.
type RecordingLogger struct {
	mu     *sync.Mutex
	logs   *[]LogEntry
	fields map[string]interface{}
}

// NewRecordingLogger returns an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{mu: &sync.Mutex{}, logs: &[]LogEntry{}, fields: map[string]interface{}{}}
}

func (r *RecordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *RecordingLogger) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *RecordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *RecordingLogger) Error(msg string, args ...any) { r.record("error", msg, args) }

func (r *RecordingLogger) With(args ...any) logger.Logger {
	fields := make(map[string]interface{}, len(r.fields))
	for k, v := range r.fields {
		fields[k] = v
	}
	for k, v := range argsToMap(args) {
		fields[k] = v
	}
	return &RecordingLogger{mu: r.mu, logs: r.logs, fields: fields}
}

func (r *RecordingLogger) WithContext(ctx context.Context) logger.Logger {
	return r
}

// Entries returns a snapshot of the captured entries.
func (r *RecordingLogger) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]LogEntry, len(*r.logs))
	copy(out, *r.logs)
	return out
}

// Find returns the first entry with the given level and message.
func (r *RecordingLogger) Find(level, msg string) (LogEntry, bool) {
	for _, e := range r.Entries() {
		if e.Level == level && e.Msg == msg {
			return e, true
		}
	}
	return LogEntry{}, false
}

func (r *RecordingLogger) record(level, msg string, args []any) {
	fields := argsToMap(args)
	for k, v := range r.fields {
		if _, ok := fields[k]; !ok {
			fields[k] = v
		}
	}
	r.mu.Lock()
	*r.logs = append(*r.logs, LogEntry{Level: level, Msg: msg, Fields: fields})
	r.mu.Unlock()
}

func argsToMap(args []any) map[string]interface{} {
	fields := make(map[string]interface{})
	for i := 0; i < len(args)-1; i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	return fields
}
