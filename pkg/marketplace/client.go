// Package marketplace provides an HTTP client for the marketplace API.
//
// The marketplace is an external collaborator of the relay: participants
// register themselves, submit trade proposals and poll order state over
// plain HTTP. The relay itself never calls the marketplace; the CLI and the
// one-shot tooling do.
package marketplace

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client provides HTTP access to the marketplace API
type Client struct {
	config     Config
	httpClient *http.Client
	baseURL    *url.URL
}

// NewClient creates a new marketplace client
func NewClient(config Config) (*Client, error) {
	config.SetDefaults()

	if config.BaseURL == "" {
		return nil, fmt.Errorf("BaseURL is required")
	}

	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid BaseURL: %w", err)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
		baseURL:    baseURL,
	}, nil
}

// CreateUser registers a new marketplace participant and stores the returned
// API key on the client for subsequent authenticated calls.
func (c *Client) CreateUser(ctx context.Context, name string) (*UserCredentials, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	var creds UserCredentials
	err := c.doRequest(ctx, "POST", "/api/v1/users", CreateUserRequest{Name: name}, &creds, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// The credential token must at least decode and not be expired.
	if _, err := ParseCredentialToken(creds.Token); err != nil {
		return nil, fmt.Errorf("marketplace returned unusable credentials: %w", err)
	}

	c.config.APIKey = creds.APIKey
	return &creds, nil
}

// SubmitProposal submits a trade proposal
func (c *Client) SubmitProposal(ctx context.Context, proposal Proposal) (*ProposalReceipt, error) {
	if c.config.APIKey == "" {
		return nil, fmt.Errorf("client has no API key - call CreateUser first or set one in Config")
	}

	var receipt ProposalReceipt
	err := c.doRequest(ctx, "POST", "/api/v1/proposals", proposal, &receipt, true)
	if err != nil {
		return nil, fmt.Errorf("failed to submit proposal: %w", err)
	}

	return &receipt, nil
}

// GetOrder fetches the current state of an order
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if c.config.APIKey == "" {
		return nil, fmt.Errorf("client has no API key - call CreateUser first or set one in Config")
	}

	var order Order
	path := fmt.Sprintf("/api/v1/orders/%s", orderID)
	err := c.doRequest(ctx, "GET", path, nil, &order, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &order, nil
}

// AwaitOrderStatus polls an order until it reaches the wanted status or the
// context is done. Returns the order in its final observed state.
func (c *Client) AwaitOrderStatus(ctx context.Context, orderID, status string, interval time.Duration) (*Order, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		order, err := c.GetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		if order.Status == status {
			return order, nil
		}

		select {
		case <-ctx.Done():
			return order, fmt.Errorf("order %s still %q: %w", orderID, order.Status, ctx.Err())
		case <-ticker.C:
		}
	}
}

// doRequest performs an HTTP request with JSON encoding/decoding
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}, authenticated bool) error {
	requestURL := c.baseURL.JoinPath(path)

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL.String(), bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if authenticated {
		req.Header.Set("X-API-Key", c.config.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return fmt.Errorf("marketplace returned %d: %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("marketplace returned %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
