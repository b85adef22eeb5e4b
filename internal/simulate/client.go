package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// client talks JSON to the rating service.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends a request and decodes the JSON body into out when out is non-nil.
// It returns the status code.
func (c *client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func (c *client) health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	return err
}

// submit reports one game. duplicate is true when the service already had it.
func (c *client) submit(ctx context.Context, g Game) (duplicate bool, err error) { //nolint:gocritic // hugeParam: request bodies travel by value
	var ack AckResponse
	status, err := c.do(ctx, http.MethodPost, "/games", g, &ack)
	if err != nil {
		return false, err
	}
	return status == http.StatusOK || ack.Duplicate, nil
}

func (c *client) closePeriod(ctx context.Context) (PeriodSummary, error) {
	var s PeriodSummary
	_, err := c.do(ctx, http.MethodPost, "/periods/close", nil, &s)
	return s, err
}

func (c *client) player(ctx context.Context, id string) (Entry, error) {
	var e Entry
	_, err := c.do(ctx, http.MethodGet, "/players/"+url.PathEscape(id), nil, &e)
	return e, err
}
