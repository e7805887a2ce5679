package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a Service talking to a remote Handler.
type Client struct {
	baseURL string
	http    *http.Client
}

// Compile-time check that Client implements Service.
var _ Service = (*Client)(nil)

// NewClient creates a client for the API at baseURL. A nil hc uses a client
// with a short timeout.
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// FetchLeaderboard implements Service.
func (c *Client) FetchLeaderboard(ctx context.Context) ([]Entry, error) {
	var msg boardMessage
	if err := c.do(ctx, http.MethodGet, "/api/leaderboard", nil, &msg); err != nil {
		return nil, err
	}
	return msg.Entries, nil
}

// SubmitScore implements Service.
func (c *Client) SubmitScore(ctx context.Context, sub Submission) (Entry, error) {
	sub, err := sub.Normalize()
	if err != nil {
		return Entry{}, err
	}
	var entry Entry
	if err := c.do(ctx, http.MethodPost, "/api/scores", sub, &entry); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// FetchPlayCount implements Service.
func (c *Client) FetchPlayCount(ctx context.Context) (int64, error) {
	var msg playsMessage
	if err := c.do(ctx, http.MethodGet, "/api/plays", nil, &msg); err != nil {
		return 0, err
	}
	return msg.Plays, nil
}

// IncrementPlayCount implements Service.
func (c *Client) IncrementPlayCount(ctx context.Context) (int64, error) {
	var msg playsMessage
	if err := c.do(ctx, http.MethodPost, "/api/plays", nil, &msg); err != nil {
		return 0, err
	}
	return msg.Plays, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		var msg errorMessage
		_ = json.NewDecoder(resp.Body).Decode(&msg)
		return fmt.Errorf("%w: %s", ErrInvalidEntry, msg.Error)
	case resp.StatusCode >= 300:
		return fmt.Errorf("%w: %s %s: %s", ErrUnavailable, method, path, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnavailable, path, err)
	}
	return nil
}
