// Package gqlclient is a minimal GraphQL-over-HTTP client.
package gqlclient

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

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors Errors          `json:"errors"`
}

// Error is one entry of a GraphQL response's errors list.
type Error struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// Errors is returned when the server answered with a non-empty errors list.
type Errors []Error

func (e Errors) Error() string {
	messages := make([]string, len(e))
	for i, err := range e {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

// HTTPStatusError is returned when the endpoint answers with a status other than 200.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("graphql endpoint returned status %d", e.StatusCode)
}

type Client struct {
	endpoint   string
	httpClient *http.Client
}

// New returns a client for endpoint whose calls give up after timeout.
func New(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Post sends query and returns the raw HTTP status with the response body.
// Only transport failures produce an error.
func (c *Client) Post(ctx context.Context, query string, vars map[string]interface{}) (int, []byte, error) {
	body, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read graphql response: %w", err)
	}
	return resp.StatusCode, payload, nil
}

// Do executes query and decodes the data member of the response into out.
func (c *Client) Do(ctx context.Context, query string, vars map[string]interface{}, out interface{}) error {
	status, payload, err := c.Post(ctx, query, vars)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &HTTPStatusError{StatusCode: status}
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("failed to decode graphql response: %w", err)
	}
	if len(env.Errors) > 0 {
		return env.Errors
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode graphql data: %w", err)
	}
	return nil
}
