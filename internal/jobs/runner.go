package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sort"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
)

// ErrUnknownJob is returned by Runner.Run for a name with no job
var ErrUnknownJob = errors.New("unknown job")

// Runner runs jobs by name
type Runner struct {
	jobs   map[string]Job
	logger *slog.Logger
}

// NewRunner wires the four CRM jobs against api
func NewRunner(api API, cfg Config, logger *slog.Logger) (*Runner, error) {
	tmplText := cfg.ReminderTemplate
	if tmplText == "" {
		tmplText = DefaultReminderTemplate
	}
	tmpl, err := ParseReminderTemplate(tmplText)
	if err != nil {
		return nil, err
	}

	remindersSink := NewLogSink(cfg.LogDir, RemindersLogFile, ISOLayout)

	return &Runner{
		jobs: map[string]Job{
			models.JobHeartbeat: NewHeartbeat(api, NewLogSink(cfg.LogDir, HeartbeatLogFile, DayFirstLayout), logger),
			models.JobLowStock: NewLowStock(api, NewLogSink(cfg.LogDir, LowStockLogFile, DayFirstLayout),
				cfg.LowStockThreshold, cfg.RestockAmount, logger),
			models.JobOrderReminders: NewOrderReminders(api, remindersSink, NewLogSender(remindersSink), tmpl,
				cfg.ReminderWindow, logger),
			models.JobWeeklyReport: NewWeeklyReport(api, NewLogSink(cfg.LogDir, ReportLogFile, ISOLayout), logger),
		},
		logger: logger,
	}, nil
}

// Names lists the registered jobs
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run runs the named job. A panic inside the job is recovered and returned
// as an error so the caller keeps running.
func (r *Runner) Run(ctx context.Context, name string) (err error) {
	job, ok := r.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}

	start := time.Now()
	logger := r.logger.With(slog.String("job", name))

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("job panicked",
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)
			err = fmt.Errorf("job %s panicked: %v", name, rec)
		}
	}()

	logger.Info("job started")
	job.Run(ctx)
	logger.Info("job finished", slog.Duration("duration", time.Since(start)))

	return nil
}
