// Implements a minimal client for the disc API.

// Package smoke exercises a running disc API instance over HTTP.
package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/maruel/discdb/internal/discs"
)

// StatusError is returned when the server answers with an unexpected status.
type StatusError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Body)
}

// Client talks to one disc API instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL, e.g. "http://localhost:3000".
// A nil httpClient uses a client with a 10 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), httpClient: httpClient}
}

// do performs a request and decodes a JSON response into out when out is not
// nil. Any status other than want is an error.
func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != want {
		return &StatusError{Method: method, Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse %s %s response: %w", method, path, err)
	}
	return nil
}

// Health returns nil once the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, http.StatusOK, nil)
}

// List returns all records.
func (c *Client) List(ctx context.Context) ([]discs.Record, error) {
	var out []discs.Record
	if err := c.do(ctx, http.MethodGet, "/Id", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one record.
func (c *Client) Get(ctx context.Context, id int64) (*discs.Record, error) {
	var out discs.Record
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/Id/%d", id), nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts a new record and returns it with its assigned id. The ID of
// r is ignored by the server.
func (c *Client) Create(ctx context.Context, r *discs.Record) (*discs.Record, error) {
	var out discs.Record
	if err := c.do(ctx, http.MethodPost, "/Id/", r, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes every record with id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/Id/%d", id), nil, http.StatusOK, nil)
}
