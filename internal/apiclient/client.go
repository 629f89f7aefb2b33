// Package apiclient calls the CRM HTTP API. The periodic jobs use it so they
// exercise the same surface as any other client.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/service"
)

// DefaultRetries is how many times a request is retried after a transport error
const DefaultRetries = 3

// Error is a non-2xx answer from the API
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api returned %d", e.Status)
	}
	return fmt.Sprintf("api returned %d %s: %s", e.Status, e.Code, e.Message)
}

// Client is a typed client for the CRM API
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	backoff    time.Duration
	logger     *slog.Logger
}

// Config holds API client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retries int
}

// New creates a new API client
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = DefaultRetries
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		retries:    retries,
		backoff:    200 * time.Millisecond,
		logger:     logger,
	}
}

// OrderQuery selects orders for ListOrders
type OrderQuery struct {
	Status       string
	OrderDateGte *time.Time
	Page         int
	PageSize     int
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	if q.OrderDateGte != nil {
		v.Set("order_date_gte", q.OrderDateGte.UTC().Format(time.RFC3339))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return v
}

// Hello runs the trivial health query
func (c *Client) Hello(ctx context.Context) (string, error) {
	var resp struct {
		Hello string `json:"hello"`
	}
	if err := c.do(ctx, http.MethodGet, "/hello", nil, &resp); err != nil {
		return "", err
	}
	return resp.Hello, nil
}

// RestockLowStock restocks every product below threshold by amount
func (c *Client) RestockLowStock(ctx context.Context, threshold, amount int) (*service.RestockResult, error) {
	req := service.RestockRequest{Threshold: &threshold, Amount: &amount}

	var result service.RestockResult
	if err := c.do(ctx, http.MethodPost, "/products/restock-low-stock", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListOrders lists orders matching q
func (c *Client) ListOrders(ctx context.Context, q OrderQuery) (*service.OrderListResult, error) {
	path := "/orders"
	if v := q.values(); len(v) > 0 {
		path += "?" + v.Encode()
	}

	var result service.OrderListResult
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Summary fetches the customer, order and revenue totals
func (c *Client) Summary(ctx context.Context) (*models.Summary, error) {
	var summary models.Summary
	if err := c.do(ctx, http.MethodGet, "/reports/summary", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// do sends one request, retrying transport failures, and decodes the answer
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff * time.Duration(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		resp, err := c.send(ctx, method, path, payload)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			c.logger.Warn("api request failed",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("attempt", attempt+1),
				slog.String("error", err.Error()),
			)
			continue
		}

		return decodeResponse(resp, out)
	}

	return lastErr
}

func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

func decodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{Status: resp.StatusCode}
		var body struct {
			Errors []struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && len(body.Errors) > 0 {
			apiErr.Code = body.Errors[0].Code
			apiErr.Message = body.Errors[0].Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
