// Package rpc implements the JSON-RPC 2.0 envelope the SDK speaks to a
// Neo node: request/response framing, error mapping, and the method and
// parameter-encoding rules the node expects.
package rpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Transport exchanges a request JSON string for a response JSON string.
// It is the only suspension point in the SDK; everything above it is
// synchronous. Implementations may be backed by HTTP, WebSocket, an
// in-process node, or a test double.
type Transport interface {
	Call(ctx context.Context, requestJSON string) (string, error)
}

// HTTPTransport is the default Transport, a thin wrapper over net/http
// POSTing the request body to a fixed URL. It adds no retry/backoff or
// connection-pool tuning — callers who need that supply their own
// Transport.
type HTTPTransport struct {
	client *http.Client
	url    string
}

// NewHTTPTransport builds an HTTPTransport posting to url using client.
// If client is nil, http.DefaultClient is used.
func NewHTTPTransport(client *http.Client, url string) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client, url: url}
}

// Call implements Transport.
func (t *HTTPTransport) Call(ctx context.Context, requestJSON string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader([]byte(requestJSON)))
	if err != nil {
		return "", fmt.Errorf("rpc: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("rpc: transport: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("rpc: reading response: %w", err)
	}
	return string(body), nil
}
