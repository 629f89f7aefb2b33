package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/crm-backend/internal/apiclient"
	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

var fixedNow = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

type fakeAPI struct {
	hello      string
	helloErr   error
	restock    *service.RestockResult
	restockErr error
	orders     []*models.Order
	ordersErr  error
	lastQuery  apiclient.OrderQuery
	summary    *models.Summary
	summaryErr error
	panicOn    string
}

func (f *fakeAPI) Hello(ctx context.Context) (string, error) {
	if f.panicOn == "hello" {
		panic("hello exploded")
	}
	return f.hello, f.helloErr
}

func (f *fakeAPI) RestockLowStock(ctx context.Context, threshold, amount int) (*service.RestockResult, error) {
	return f.restock, f.restockErr
}

func (f *fakeAPI) ListOrders(ctx context.Context, q apiclient.OrderQuery) (*service.OrderListResult, error) {
	f.lastQuery = q
	if f.ordersErr != nil {
		return nil, f.ordersErr
	}
	return &service.OrderListResult{Data: f.orders, TotalCount: int64(len(f.orders))}, nil
}

func (f *fakeAPI) Summary(ctx context.Context) (*models.Summary, error) {
	return f.summary, f.summaryErr
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedSink(dir, file, layout string) *LogSink {
	s := NewLogSink(dir, file, layout)
	s.now = func() time.Time { return fixedNow }
	return s
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestLogSink_AppendsStampedLines(t *testing.T) {
	dir := t.TempDir()
	sink := fixedSink(dir, "test.log", DayFirstLayout)

	require.NoError(t, sink.Append(sink.Now(), "first"))
	require.NoError(t, sink.Append(sink.Now(), "second", "third"))

	assert.Equal(t, []string{
		"04/03/2025-05:06:07 first",
		"04/03/2025-05:06:07 second",
		"04/03/2025-05:06:07 third",
	}, readLines(t, filepath.Join(dir, "test.log")))
}

func TestLogSink_MissingDirectory(t *testing.T) {
	sink := NewLogSink(filepath.Join(t.TempDir(), "missing"), "x.log", ISOLayout)
	assert.Error(t, sink.Append(time.Now(), "line"))
}

func TestHeartbeat(t *testing.T) {
	t.Run("hello succeeds", func(t *testing.T) {
		dir := t.TempDir()
		sink := fixedSink(dir, HeartbeatLogFile, DayFirstLayout)

		NewHeartbeat(&fakeAPI{hello: "Hello, CRM!"}, sink, discardLogger()).Run(context.Background())

		assert.Equal(t, []string{
			"04/03/2025-05:06:07 CRM is alive",
			"04/03/2025-05:06:07 API hello -> Hello, CRM!",
		}, readLines(t, sink.Path()))
	})

	t.Run("hello fails", func(t *testing.T) {
		dir := t.TempDir()
		sink := fixedSink(dir, HeartbeatLogFile, DayFirstLayout)

		NewHeartbeat(&fakeAPI{helloErr: errors.New("connection refused")}, sink, discardLogger()).Run(context.Background())

		assert.Equal(t, []string{
			"04/03/2025-05:06:07 CRM is alive",
			"04/03/2025-05:06:07 API heartbeat failed: connection refused",
		}, readLines(t, sink.Path()))
	})
}

func TestLowStock(t *testing.T) {
	t.Run("updated products", func(t *testing.T) {
		dir := t.TempDir()
		sink := fixedSink(dir, LowStockLogFile, DayFirstLayout)
		api := &fakeAPI{restock: &service.RestockResult{
			Success: "Restocked 2 product(s) with stock below 10",
			UpdatedProducts: []*models.Product{
				{ID: 1, Name: "Laptop", Stock: 13},
				{ID: 3, Name: "Cable", Stock: 10},
			},
		}}

		NewLowStock(api, sink, 10, 10, discardLogger()).Run(context.Background())

		assert.Equal(t, []string{
			"04/03/2025-05:06:07 Restocked 2 product(s) with stock below 10",
			"04/03/2025-05:06:07 Updated Laptop -> New stock: 13",
			"04/03/2025-05:06:07 Updated Cable -> New stock: 10",
		}, readLines(t, sink.Path()))
	})

	t.Run("api failure", func(t *testing.T) {
		dir := t.TempDir()
		sink := fixedSink(dir, LowStockLogFile, DayFirstLayout)

		NewLowStock(&fakeAPI{restockErr: errors.New("timeout")}, sink, 10, 10, discardLogger()).Run(context.Background())

		assert.Equal(t, []string{"04/03/2025-05:06:07 Stock update failed: timeout"}, readLines(t, sink.Path()))
	})
}

func TestOrderReminders(t *testing.T) {
	dir := t.TempDir()
	sink := fixedSink(dir, RemindersLogFile, ISOLayout)
	api := &fakeAPI{orders: []*models.Order{
		{ID: 4, Customer: &models.Customer{Email: "alice@example.com"}},
		{ID: 9, Customer: &models.Customer{Email: "bob@example.com"}},
	}}
	tmpl, err := ParseReminderTemplate(DefaultReminderTemplate)
	require.NoError(t, err)

	NewOrderReminders(api, sink, NewLogSender(sink), tmpl, 7*24*time.Hour, discardLogger()).Run(context.Background())

	assert.Equal(t, []string{
		"2025-03-04 05:06:07 Order 4 -> alice@example.com",
		"2025-03-04 05:06:07 Order 9 -> bob@example.com",
		"2025-03-04 05:06:07 Order reminders processed!",
	}, readLines(t, sink.Path()))

	assert.Equal(t, models.OrderStatusPending, api.lastQuery.Status)
	require.NotNil(t, api.lastQuery.OrderDateGte)
	assert.Equal(t, fixedNow.Add(-7*24*time.Hour), *api.lastQuery.OrderDateGte)
}

func TestOrderReminders_FetchError(t *testing.T) {
	dir := t.TempDir()
	sink := fixedSink(dir, RemindersLogFile, ISOLayout)
	tmpl, err := ParseReminderTemplate(DefaultReminderTemplate)
	require.NoError(t, err)

	NewOrderReminders(&fakeAPI{ordersErr: errors.New("502")}, sink, NewLogSender(sink), tmpl, time.Hour, discardLogger()).
		Run(context.Background())

	assert.Equal(t, []string{"2025-03-04 05:06:07 Error fetching orders: 502"}, readLines(t, sink.Path()))
}

func TestWeeklyReport(t *testing.T) {
	dir := t.TempDir()
	sink := fixedSink(dir, ReportLogFile, ISOLayout)
	api := &fakeAPI{summary: &models.Summary{
		CustomerCount: 3,
		OrderCount:    1,
		TotalRevenue:  decimal.RequireFromString("1025.49"),
	}}

	NewWeeklyReport(api, sink, discardLogger()).Run(context.Background())

	assert.Equal(t, []string{"2025-03-04 05:06:07 - Report: 3 customers, 1 orders, 1025.49 revenue"}, readLines(t, sink.Path()))
}

func TestRunner(t *testing.T) {
	dir := t.TempDir()
	api := &fakeAPI{hello: "Hello, CRM!"}

	runner, err := NewRunner(api, Config{LogDir: dir, LowStockThreshold: 10, RestockAmount: 10, ReminderWindow: time.Hour}, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{
		models.JobHeartbeat,
		models.JobLowStock,
		models.JobOrderReminders,
		models.JobWeeklyReport,
	}, runner.Names())

	require.NoError(t, runner.Run(context.Background(), models.JobHeartbeat))
	lines := readLines(t, filepath.Join(dir, HeartbeatLogFile))
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[1], "API hello -> Hello, CRM!"))

	err = runner.Run(context.Background(), "defrag")
	assert.ErrorIs(t, err, ErrUnknownJob)

	api.panicOn = "hello"
	err = runner.Run(context.Background(), models.JobHeartbeat)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panicked")
}

func TestNewRunner_RejectsBadTemplate(t *testing.T) {
	_, err := NewRunner(&fakeAPI{}, Config{LogDir: t.TempDir(), ReminderTemplate: "Order {order_number}"}, discardLogger())
	assert.Error(t, err)
}

func TestReminderTemplate_Render(t *testing.T) {
	tmpl, err := ParseReminderTemplate("Hi {customer_name}, order {order_id} ({total}) from {order_date} is pending")
	require.NoError(t, err)

	order := &models.Order{
		ID:          12,
		Customer:    &models.Customer{Name: "Alice", Email: "alice@example.com"},
		TotalAmount: decimal.RequireFromString("45"),
		OrderDate:   fixedNow,
	}
	assert.Equal(t, "Hi Alice, order 12 (45.00) from 2025-03-04 is pending", tmpl.Render(order))

	_, err = ParseReminderTemplate("  ")
	assert.Error(t, err)
}
