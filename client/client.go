package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"solder/common"
)

// Client is a client for the solder API. Toolchain endpoints (compile,
// deploy) go through a separate http client whose timeout covers a full
// build.
type Client struct {
	baseURL    string
	httpClient *http.Client
	slowClient *http.Client
}

// NewClient creates a client pointed at the local solder server.
func NewClient() *Client {
	return NewClientWithURL(fmt.Sprintf("http://localhost:%d", common.GetServerPort()))
}

// NewClientWithURL is used by tests and callers with a non-default server.
func NewClientWithURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		slowClient: &http.Client{
			Timeout: 10 * time.Minute,
		},
	}
}

// APIError is a non-2xx response from the server, carrying the message from
// its JSON error envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}

// NotFound reports whether the error is a 404 from the server.
func (e *APIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// do sends one JSON request and decodes the response envelope into out.
func (c *Client) do(method, path string, body any, out any) error {
	return c.send(c.httpClient, method, path, body, out)
}

// doSlow is do with the long toolchain timeout.
func (c *Client) doSlow(method, path string, body any, out any) error {
	return c.send(c.slowClient, method, path, body, out)
}

func (c *Client) send(httpClient *http.Client, method, path string, body any, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to API: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body (status %s): %w", resp.Status, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errorResponse struct {
			Error string `json:"error"`
		}
		message := string(bodyBytes)
		if json.Unmarshal(bodyBytes, &errorResponse) == nil && errorResponse.Error != "" {
			message = errorResponse.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("failed to decode API response (status %s): %w. Full response body: %s", resp.Status, err, string(bodyBytes))
	}
	return nil
}

// escapePath escapes each segment of a project-relative path while keeping
// the slash separators intact.
func escapePath(p string) string {
	segments := strings.Split(p, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
