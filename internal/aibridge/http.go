package aibridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseBytes caps how much of a backend body is read.
const maxResponseBytes = 1 << 20

// HTTPBackend posts requests to an endpoint speaking the backend contract.
type HTTPBackend struct {
	endpoint string
	client   *http.Client
}

// NewHTTPBackend returns an HTTPBackend. timeout bounds each round trip.
func NewHTTPBackend(endpoint string, timeout time.Duration) *HTTPBackend {
	return &HTTPBackend{endpoint: endpoint, client: &http.Client{Timeout: timeout}}
}

func (b *HTTPBackend) Name() string { return "http" }

func (b *HTTPBackend) Suggest(ctx context.Context, r BackendRequest) (*BackendResponse, error) {
	if r.Text == "" && r.Prompt != "" {
		r.Text = r.Prompt
	}
	body, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req) // #nosec G107 -- endpoint is operator configuration.
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend status %d", resp.StatusCode)
	}
	out, err := ParseResponse(raw)
	if err != nil {
		return nil, err
	}
	if out.Error != "" {
		return nil, fmt.Errorf("backend error: %s", out.Error)
	}
	return out, nil
}
