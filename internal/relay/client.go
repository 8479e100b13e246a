package relay

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

// Client posts update batches to the realtime service's notify endpoint,
// authenticated with a shared bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient constructs a Client. The timeout bounds the whole request; there
// is no retry on top of it.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Send posts the updates as one JSON array. Non-2xx responses are errors;
// the caller decides whether to care.
func (c *Client) Send(ctx context.Context, updates []Update) error {
	body, err := json.Marshal(updates)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/notify", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("notify returned status %d", resp.StatusCode)
	}
	return nil
}
