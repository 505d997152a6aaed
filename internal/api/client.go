// Package api is the HTTP client for the Japa backend.
//
// Every call is a single JSON request with no retries. A non-2xx status is
// returned as *RequestError carrying the server's message, and a transport
// failure or an unparsable body as *NetworkError. Cancellation is only
// through the request context.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Endpoints consumed by the client.
const (
	PathRegister = "/register"
	PathLogin    = "/login"
	PathPosts    = "/posts"
	PathRequest  = "/request"
)

// Response is the outcome of one request.
type Response struct {
	// OK is true for a 2xx status.
	OK bool
	// Status is the HTTP status code.
	Status int
	// Data is the decoded JSON body, "null" when the body was empty.
	Data json.RawMessage
}

// Client issues requests against a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// BaseURL returns the root every endpoint is resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends body (when non-nil) as JSON to endpoint and decodes the JSON answer.
// On a non-2xx status both the Response and a *RequestError are returned;
// the message is taken from data.message, then data.error.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any) (*Response, error) {
	return c.do(ctx, method, endpoint, body, "message", "error")
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, msgKeys ...string) (*Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("read response: %w", err)}
	}

	data := json.RawMessage("null")
	if len(bytes.TrimSpace(raw)) > 0 {
		if !json.Valid(raw) {
			return nil, &NetworkError{Err: fmt.Errorf("invalid response from %s (status %d)", endpoint, resp.StatusCode)}
		}
		data = raw
	}

	out := &Response{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Data:   data,
	}
	if !out.OK {
		return out, &RequestError{Status: resp.StatusCode, Message: extractMessage(data, msgKeys...)}
	}
	return out, nil
}

func decode[T any](resp *Response, endpoint string) (T, error) {
	var v T
	if err := json.Unmarshal(resp.Data, &v); err != nil {
		return v, &NetworkError{Err: fmt.Errorf("decode %s response: %w", endpoint, err)}
	}
	return v, nil
}
