package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"retailenroll/infrastructure/submission"
)

// DefaultTimeout bounds a single webhook POST.
const DefaultTimeout = 30 * time.Second

// ErrNotConfigured is returned when no webhook URL is set.
var ErrNotConfigured = errors.New("sheet webhook url not configured")

// Error describes a failed delivery. StatusCode is 0 when the request never got a response.
type Error struct {
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sheet webhook returned %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("sheet webhook: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client posts enrollment records to the spreadsheet web app. Each call is
// a single attempt.
type Client struct {
	URL  string
	HTTP *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		URL: url,
		HTTP: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Send marshals rec and posts it as a plain-text JSON body, which the web
// app accepts without a CORS preflight.
func (c *Client) Send(ctx context.Context, rec submission.Record) error {
	if c.URL == "" {
		return &Error{Err: ErrNotConfigured}
	}
	body, err := json.Marshal(rec)
	if err != nil {
		return &Error{Err: fmt.Errorf("marshal record: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return &Error{Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return &Error{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	slog.Info("sheet webhook delivered",
		slog.String("update_type", string(rec.UpdateType)),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Duration("took", time.Since(start)),
	)
	if resp.StatusCode >= http.StatusBadRequest {
		return &Error{StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return nil
}
