// Package payload resolves application payloads from bundle references.
//
// Transactions on the feed only carry a bundle reference; the payload itself
// lives on the node and has to be fetched and decoded per message. Callers
// must not assume extraction is cheap: it is a network round trip.
package payload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Extractor resolves the application payload for a bundle reference.
type Extractor interface {
	Extract(ctx context.Context, bundleRef string) (json.RawMessage, error)
}

// HTTPExtractor resolves payloads from the node's HTTP API.
type HTTPExtractor struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewHTTPExtractor creates an extractor against the given node URL.
func NewHTTPExtractor(nodeURL string, timeout time.Duration) (*HTTPExtractor, error) {
	if nodeURL == "" {
		return nil, fmt.Errorf("node URL is required")
	}
	baseURL, err := url.Parse(nodeURL)
	if err != nil {
		return nil, fmt.Errorf("invalid node URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPExtractor{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// bundleResponse is the node's bundle lookup response envelope.
type bundleResponse struct {
	Bundle  string          `json:"bundle"`
	Payload json.RawMessage `json:"payload"`
}

// Extract fetches and decodes the payload for a bundle reference.
func (e *HTTPExtractor) Extract(ctx context.Context, bundleRef string) (json.RawMessage, error) {
	if bundleRef == "" {
		return nil, fmt.Errorf("bundle reference cannot be empty")
	}

	ref := e.baseURL.JoinPath("bundles", bundleRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build bundle request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("bundle lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("bundle lookup returned %d: %s", resp.StatusCode, string(body))
	}

	var decoded bundleResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode bundle response: %w", err)
	}
	if len(decoded.Payload) == 0 {
		return nil, fmt.Errorf("bundle %s has no payload", bundleRef)
	}

	return decoded.Payload, nil
}

// Verify that HTTPExtractor implements the Extractor interface at compile time
var _ Extractor = (*HTTPExtractor)(nil)
