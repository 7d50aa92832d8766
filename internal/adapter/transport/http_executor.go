// Package transport implements the query/mutation execution facility over
// GraphQL-on-HTTP.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pantrylab/pantry/internal/graph"
)

const requestIDHeader = "X-Request-Id"

type HTTPExecutor struct {
	endpoint string
	client   *http.Client
}

// NewHTTPExecutor builds an executor POSTing to the given GraphQL endpoint.
// When client is nil a default client with a cookie jar is used, so the
// session cookie set by the login mutation is carried on later requests.
func NewHTTPExecutor(endpoint string, client *http.Client) *HTTPExecutor {
	if client == nil {
		jar, _ := cookiejar.New(nil)
		client = &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		}
	}

	return &HTTPExecutor{endpoint: endpoint, client: client}
}

type requestBody struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type responseBody struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphError    `json:"errors"`
}

type graphError struct {
	Message string `json:"message"`
}

func (e *HTTPExecutor) Execute(ctx context.Context, op graph.Operation, vars map[string]any, _ ...graph.RequestOption) <-chan graph.Result {
	out := make(chan graph.Result, 2)
	out <- graph.Result{Fetching: true}

	go func() {
		defer close(out)
		data, err := e.roundTrip(ctx, op, vars)
		select {
		case out <- graph.Result{Data: data, Err: err}:
		case <-ctx.Done():
		}
	}()

	return out
}

func (e *HTTPExecutor) roundTrip(ctx context.Context, op graph.Operation, vars map[string]any) (json.RawMessage, error) {
	body, err := json.Marshal(requestBody{
		OperationName: op.Name,
		Query:         op.Document,
		Variables:     vars,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, uuid.NewString())

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", op.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("execute %s: unexpected status %d", op.Name, resp.StatusCode)
	}

	var decoded responseBody
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(decoded.Errors) > 0 {
		messages := make([]string, len(decoded.Errors))
		for i, ge := range decoded.Errors {
			messages[i] = ge.Message
		}
		return nil, fmt.Errorf("execute %s: %s", op.Name, strings.Join(messages, "; "))
	}

	if decoded.Data == nil {
		return nil, fmt.Errorf("execute %s: empty response", op.Name)
	}

	return decoded.Data, nil
}
