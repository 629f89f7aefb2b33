// Package jobs implements the periodic CRM jobs. Every job talks to the API
// through the API interface and writes its outcome to its own log file. A job
// never returns an error or panics to its caller; failures end up in its log.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Raymond9734/crm-backend/internal/apiclient"
	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// API is the part of the CRM API the jobs use
type API interface {
	Hello(ctx context.Context) (string, error)
	RestockLowStock(ctx context.Context, threshold, amount int) (*service.RestockResult, error)
	ListOrders(ctx context.Context, q apiclient.OrderQuery) (*service.OrderListResult, error)
	Summary(ctx context.Context) (*models.Summary, error)
}

// Config holds job settings
type Config struct {
	LogDir            string
	LowStockThreshold int
	RestockAmount     int
	ReminderWindow    time.Duration
	ReminderTemplate  string
}

// Job is one periodic task
type Job interface {
	Run(ctx context.Context)
}

// appendOrLog writes to the sink and falls back to the process log
func appendOrLog(logger *slog.Logger, sink *LogSink, at time.Time, messages ...string) {
	if err := sink.Append(at, messages...); err != nil {
		logger.Error("failed to write job log",
			slog.String("path", sink.Path()),
			slog.String("error", err.Error()),
		)
	}
}

// Heartbeat records liveness and probes the hello query
type Heartbeat struct {
	api    API
	sink   *LogSink
	logger *slog.Logger
}

// NewHeartbeat creates the heartbeat job
func NewHeartbeat(api API, sink *LogSink, logger *slog.Logger) *Heartbeat {
	return &Heartbeat{api: api, sink: sink, logger: logger}
}

// Run appends "CRM is alive" and the hello probe outcome
func (j *Heartbeat) Run(ctx context.Context) {
	at := j.sink.Now()
	appendOrLog(j.logger, j.sink, at, "CRM is alive")

	hello, err := j.api.Hello(ctx)
	if err != nil {
		j.logger.Warn("heartbeat probe failed", slog.String("error", err.Error()))
		appendOrLog(j.logger, j.sink, at, fmt.Sprintf("API heartbeat failed: %v", err))
		return
	}

	appendOrLog(j.logger, j.sink, at, fmt.Sprintf("API hello -> %s", hello))
}

// LowStock restocks products below the threshold
type LowStock struct {
	api       API
	sink      *LogSink
	threshold int
	amount    int
	logger    *slog.Logger
}

// NewLowStock creates the low-stock job
func NewLowStock(api API, sink *LogSink, threshold, amount int, logger *slog.Logger) *LowStock {
	return &LowStock{api: api, sink: sink, threshold: threshold, amount: amount, logger: logger}
}

// Run calls the restock mutation and logs every updated product
func (j *LowStock) Run(ctx context.Context) {
	at := j.sink.Now()

	result, err := j.api.RestockLowStock(ctx, j.threshold, j.amount)
	if err != nil {
		j.logger.Error("low-stock restock failed", slog.String("error", err.Error()))
		appendOrLog(j.logger, j.sink, at, fmt.Sprintf("Stock update failed: %v", err))
		return
	}

	lines := make([]string, 0, len(result.UpdatedProducts)+1)
	lines = append(lines, result.Success)
	for _, p := range result.UpdatedProducts {
		lines = append(lines, fmt.Sprintf("Updated %s -> New stock: %d", p.Name, p.Stock))
	}
	appendOrLog(j.logger, j.sink, at, lines...)

	j.logger.Info("low-stock job completed", slog.Int("updated", len(result.UpdatedProducts)))
}

// OrderReminders sends a reminder for each recent pending order
type OrderReminders struct {
	api      API
	sink     *LogSink
	sender   ReminderSender
	template *ReminderTemplate
	window   time.Duration
	logger   *slog.Logger
}

// NewOrderReminders creates the reminders job
func NewOrderReminders(api API, sink *LogSink, sender ReminderSender, template *ReminderTemplate, window time.Duration, logger *slog.Logger) *OrderReminders {
	return &OrderReminders{
		api:      api,
		sink:     sink,
		sender:   sender,
		template: template,
		window:   window,
		logger:   logger,
	}
}

// Run lists pending orders placed within the window and sends one reminder each
func (j *OrderReminders) Run(ctx context.Context) {
	at := j.sink.Now()
	since := at.Add(-j.window).UTC()

	result, err := j.api.ListOrders(ctx, apiclient.OrderQuery{
		Status:       models.OrderStatusPending,
		OrderDateGte: &since,
	})
	if err != nil {
		j.logger.Error("failed to fetch pending orders", slog.String("error", err.Error()))
		appendOrLog(j.logger, j.sink, at, fmt.Sprintf("Error fetching orders: %v", err))
		return
	}

	sent := 0
	for _, order := range result.Data {
		if err := j.sender.Send(ctx, order, j.template.Render(order)); err != nil {
			j.logger.Error("failed to send order reminder",
				slog.Int64("order_id", order.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		sent++
	}

	appendOrLog(j.logger, j.sink, j.sink.Now(), "Order reminders processed!")

	j.logger.Info("order reminders processed",
		slog.Int("orders", len(result.Data)),
		slog.Int("sent", sent),
	)
}

// WeeklyReport logs customer, order and revenue totals
type WeeklyReport struct {
	api    API
	sink   *LogSink
	logger *slog.Logger
}

// NewWeeklyReport creates the report job
func NewWeeklyReport(api API, sink *LogSink, logger *slog.Logger) *WeeklyReport {
	return &WeeklyReport{api: api, sink: sink, logger: logger}
}

// Run fetches the summary and appends one report line
func (j *WeeklyReport) Run(ctx context.Context) {
	at := j.sink.Now()

	summary, err := j.api.Summary(ctx)
	if err != nil {
		j.logger.Error("failed to build weekly report", slog.String("error", err.Error()))
		appendOrLog(j.logger, j.sink, at, fmt.Sprintf("- Report failed: %v", err))
		return
	}

	appendOrLog(j.logger, j.sink, at, fmt.Sprintf("- Report: %d customers, %d orders, %s revenue",
		summary.CustomerCount, summary.OrderCount, summary.TotalRevenue.StringFixed(2)))
}
