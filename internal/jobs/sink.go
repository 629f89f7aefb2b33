package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Timestamp layouts used in job log files
const (
	DayFirstLayout = "02/01/2006-15:04:05"
	ISOLayout      = "2006-01-02 15:04:05"
)

// Log files written by the jobs
const (
	HeartbeatLogFile = "crm_heartbeat_log.txt"
	LowStockLogFile  = "low_stock_updates_log.txt"
	RemindersLogFile = "order_reminders_log.txt"
	ReportLogFile    = "crm_report_log.txt"
)

// LogSink appends "<timestamp> <message>" lines to a file
type LogSink struct {
	path   string
	layout string
	now    func() time.Time

	mu sync.Mutex
}

// NewLogSink creates a sink for dir/file stamping lines with layout
func NewLogSink(dir, file, layout string) *LogSink {
	return &LogSink{
		path:   filepath.Join(dir, file),
		layout: layout,
		now:    time.Now,
	}
}

// Path returns the file the sink writes to
func (s *LogSink) Path() string {
	return s.path
}

// Now returns the sink's current time, used to stamp a run's lines
func (s *LogSink) Now() time.Time {
	return s.now()
}

// Append writes each message as one line stamped with at
func (s *LogSink) Append(at time.Time, messages ...string) error {
	if len(messages) == 0 {
		return nil
	}

	stamp := at.Format(s.layout)
	var b strings.Builder
	for _, m := range messages {
		b.WriteString(stamp)
		b.WriteByte(' ')
		b.WriteString(m)
		b.WriteByte('\n')
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}
