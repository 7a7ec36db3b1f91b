package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"rtc/internal/payload"
)

// Response is the analytics API's answer to an upload.
type Response struct {
	ID      string   `json:"id"`
	RunID   string   `json:"run_id"`
	Queued  int      `json:"queued"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// Client submits payloads to the analytics API. Batches are independent:
// a failed submission does not affect the others and nothing is retried.
type Client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// New creates a new Client for the given endpoint and API token.
func New(endpoint, token string) *Client {
	return &Client{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Submit uploads one payload. A transport failure, a non-2xx status, an
// undecodable body or a non-empty error list in the response are all
// submission errors.
func (c *Client) Submit(ctx context.Context, p payload.Payload) (*Response, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Token token=%q", c.token))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send payload: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upload response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("analytics API returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var parsed Response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse upload response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return &parsed, fmt.Errorf("analytics API rejected payload: %s", strings.Join(parsed.Errors, "; "))
	}

	return &parsed, nil
}
