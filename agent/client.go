package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"solder/common"
)

// Client talks to the external AI agent collaborator. The agent is an
// opaque HTTP endpoint: it accepts source text plus free-form context and
// returns either a structured object with a response-text field or raw
// text. Responses are treated as untrusted input.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: common.GetAgentURL(),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// NewClientWithURL is used by tests and callers with a non-default endpoint.
func NewClientWithURL(url string) *Client {
	c := NewClient()
	c.baseURL = url
	return c
}

type agentRequest struct {
	Code        string `json:"code"`
	Context     string `json:"context,omitempty"`
	RequestType string `json:"requestType"`
}

// Query sends one request to the agent and returns its response as a
// display string.
func (c *Client) Query(ctx context.Context, code, contextText, requestType string) (string, error) {
	requestBody, err := json.Marshal(agentRequest{
		Code:        code,
		Context:     contextText,
		RequestType: requestType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal agent request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create agent request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read agent response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("agent returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return extractResponseText(bodyBytes), nil
}

// responseTextKeys are the field names agents have been observed to use for
// their response text, in precedence order.
var responseTextKeys = []string{"response", "text", "message", "output"}

// extractResponseText tolerantly parses an agent response body: a JSON
// object with any of the known response keys, or raw text as a fallback.
func extractResponseText(body []byte) string {
	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, key := range responseTextKeys {
			if raw, ok := parsed[key]; ok {
				var text string
				if err := json.Unmarshal(raw, &text); err == nil && text != "" {
					return text
				}
			}
		}
	}
	return strings.TrimSpace(string(body))
}

// DebugAssist asks the agent for help with a failed build. This is a UX
// side effect invoked on compile/deploy failure, not error recovery.
func (c *Client) DebugAssist(ctx context.Context, source, buildError string) (string, error) {
	return c.Query(ctx, source, buildError, "debug")
}
