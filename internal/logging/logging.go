package logging

import (
	"encoding/json"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// Logger writes one JSON object per line, tagged with a component name.
// Every event carries ts, level and component; callers add the rest.
type Logger struct {
	component string
	loc       *time.Location

	mu  sync.Mutex
	enc *json.Encoder
}

// New creates a logger that writes to stdout. A nil location defaults to UTC.
func New(component string, loc *time.Location) *Logger {
	return NewWithWriter(component, loc, os.Stdout)
}

// NewWithWriter creates a logger over an arbitrary writer, used by tests.
func NewWithWriter(component string, loc *time.Location, w io.Writer) *Logger {
	if loc == nil {
		loc = time.UTC
	}
	return &Logger{component: component, loc: loc, enc: json.NewEncoder(w)}
}

// Info emits an info-level event.
func (l *Logger) Info(event string, fields map[string]any) {
	l.emit("info", event, fields)
}

// Error emits an error-level event. A nil err is allowed.
func (l *Logger) Error(event string, err error, fields map[string]any) {
	if fields == nil {
		fields = map[string]any{}
	}
	if err != nil {
		fields["error_message"] = err.Error()
	}
	l.emit("error", event, fields)
}

func (l *Logger) emit(level, event string, fields map[string]any) {
	data := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		data[k] = v
	}
	data["ts"] = time.Now().In(l.loc).Format(time.RFC3339Nano)
	data["level"] = level
	data["component"] = l.component
	data["event"] = event

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(data); err != nil {
		log.Printf("failed to encode log event: %v", err)
	}
}
