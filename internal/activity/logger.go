package activity

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event names one step of the run.
type Event string

const (
	EventCatalogFetched Event = "catalog_fetched"
	EventCatalogFailed  Event = "catalog_failed"
	EventEntryDropped   Event = "catalog_entry_dropped"
	EventSkipped        Event = "skipped"
	EventStarted        Event = "started"
	EventSucceeded      Event = "succeeded"
	EventFailed         Event = "failed"
	EventRunCompleted   Event = "run_completed"
)

// level returns the logrus level an event is logged at.
func (e Event) level() logrus.Level {
	switch e {
	case EventCatalogFailed, EventFailed:
		return logrus.ErrorLevel
	case EventSkipped, EventEntryDropped:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

// Entry is one record of the audit trail.
type Entry struct {
	// Time defaults to the time Record is called.
	Time time.Time

	// Identifier is the asset id, empty for run-level events.
	Identifier string

	Event Event

	// Detail is free-form context: error text, byte counts, paths.
	Detail string
}

// Field names of the JSON log lines.
const (
	FieldRunID  = "run_id"
	FieldAsset  = "asset"
	FieldEvent  = "event"
	FieldDetail = "detail"
)

// Logger is an append-only sink for entries. It is safe for concurrent use.
type Logger struct {
	file    *logrus.Logger
	console *logrus.Logger
	closer  io.Closer
	runID   string
	dropped atomic.Int64
}

// New creates a Logger writing JSON lines to w. console, when not nil,
// receives the same entries as text.
func New(w io.Writer, console io.Writer) *Logger {
	l := &Logger{runID: uuid.NewString()}

	l.file = logrus.New()
	l.file.SetOutput(&bestEffortWriter{w: w, dropped: &l.dropped})
	l.file.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	l.file.SetLevel(logrus.InfoLevel)

	if console != nil {
		l.console = logrus.New()
		l.console.SetOutput(&bestEffortWriter{w: console, dropped: &l.dropped})
		l.console.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
		l.console.SetLevel(logrus.InfoLevel)
	}

	return l
}

// Open creates a Logger appending to the file at path, creating the file
// and its parent directory if needed.
func Open(path string, console io.Writer) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	l := New(f, console)
	l.closer = f
	return l, nil
}

// Discard returns a Logger that drops every entry.
func Discard() *Logger {
	return New(io.Discard, nil)
}

// RunID returns the id stamped on every entry of this logger.
func (l *Logger) RunID() string {
	return l.runID
}

// Record appends an entry. It never fails and never panics; entries that
// cannot be written are counted by Dropped.
func (l *Logger) Record(e Entry) {
	defer func() {
		if recover() != nil {
			l.dropped.Add(1)
		}
	}()

	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	fields := logrus.Fields{
		FieldRunID: l.runID,
		FieldEvent: string(e.Event),
	}
	if e.Identifier != "" {
		fields[FieldAsset] = e.Identifier
	}
	if e.Detail != "" {
		fields[FieldDetail] = e.Detail
	}

	l.file.WithFields(fields).WithTime(e.Time).Log(e.Event.level(), e.Event)
	if l.console != nil {
		l.console.WithFields(fields).WithTime(e.Time).Log(e.Event.level(), e.Event)
	}
}

// Dropped returns the number of writes lost because the sink failed.
func (l *Logger) Dropped() int64 {
	return l.dropped.Load()
}

// Close closes the log file opened by Open. It is a no-op for loggers
// created with New.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// bestEffortWriter reports every write as successful so logrus never
// complains on stderr; failures are only counted.
type bestEffortWriter struct {
	w       io.Writer
	dropped *atomic.Int64
}

func (b *bestEffortWriter) Write(p []byte) (int, error) {
	if _, err := b.w.Write(p); err != nil {
		b.dropped.Add(1)
	}
	return len(p), nil
}
