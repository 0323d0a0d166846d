// Package sheets talks to the spreadsheet-backed web app that stores the
// shared copy of users, customers and orders.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrDisabled is returned when no API URL is configured.
	ErrDisabled = errors.New("sheet sync is not configured")
	// ErrRemote wraps a {"status":"error"} answer.
	ErrRemote = errors.New("sheet api error")
	// ErrTransport wraps a failed request or an answer that is not an envelope.
	ErrTransport = errors.New("sheet api unreachable")
)

// API is a remote action endpoint.
type API interface {
	Call(ctx context.Context, action string, data any, out any) error
}

type request struct {
	Action string `json:"action"`
	Data   any    `json:"data"`
}

type response struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client posts {action, data} envelopes as text/plain so the web app sees a
// simple request without a CORS preflight.
type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// Enabled reports whether a URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

// Call performs one action and decodes the data field into out when out is non-nil.
func (c *Client) Call(ctx context.Context, action string, data any, out any) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if data == nil {
		data = struct{}{}
	}

	body, err := json.Marshal(request{Action: action, Data: data})
	if err != nil {
		return fmt.Errorf("encode %s: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrTransport, action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: read body: %w", ErrTransport, action, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s: http status %d", ErrTransport, action, resp.StatusCode)
	}

	var env response
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %s: invalid json response: %w", ErrTransport, action, err)
	}
	if env.Status == "error" {
		return fmt.Errorf("%w: %s: %s", ErrRemote, action, env.Message)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: %s: decode data: %w", ErrTransport, action, err)
	}
	return nil
}
