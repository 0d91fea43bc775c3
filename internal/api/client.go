package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"pong-arena/internal/match"
)

// EnvAPIAddr names the environment variable holding the remote
// history service address (for example "http://localhost:8090").
const EnvAPIAddr = "PONG_API_ADDR"

// Client submits match results to a remote history service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// ClientFromEnv returns a client for PONG_API_ADDR, or nil when the
// variable is unset and results should stay local.
func ClientFromEnv() *Client {
	addr := os.Getenv(EnvAPIAddr)
	if addr == "" {
		return nil
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return NewClient(addr)
}

// SubmitResult implements match.Submitter over HTTP.
func (c *Client) SubmitResult(ctx context.Context, res match.Result) error {
	body, err := json.Marshal(payloadFrom(res))
	if err != nil {
		return fmt.Errorf("api: cannot encode result: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/matches", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("api: cannot build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("api: submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	// A duplicate means an earlier attempt landed; treat it as saved.
	if resp.StatusCode == http.StatusConflict {
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("api: submit rejected with status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
}

var _ match.Submitter = (*Client)(nil)
