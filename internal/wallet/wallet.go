// Package wallet provides one-shot wallet tooling: seed generation and
// faucet funding. Nothing here holds state between calls.
package wallet

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rmacdonaldsmith/txrelay-go/pkg/tags"
)

// SeedLength is the length of a wallet seed in trytes.
const SeedLength = 81

// NewSeed generates a cryptographically random seed.
func NewSeed() (string, error) {
	alphabetSize := big.NewInt(int64(len(tags.Alphabet)))

	var b strings.Builder
	b.Grow(SeedLength)
	for i := 0; i < SeedLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to generate seed: %w", err)
		}
		b.WriteByte(tags.Alphabet[n.Int64()])
	}

	return b.String(), nil
}

// Faucet requests test funds for an address and waits for them to arrive.
type Faucet struct {
	baseURL      *url.URL
	httpClient   *http.Client
	pollInterval time.Duration
}

// NewFaucet creates a faucet client against the given base URL.
func NewFaucet(baseURL string) (*Faucet, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("faucet URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid faucet URL: %w", err)
	}

	return &Faucet{
		baseURL:      parsed,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		pollInterval: 2 * time.Second,
	}, nil
}

type fundRequest struct {
	Address string `json:"address"`
}

type balanceResponse struct {
	Balance int64 `json:"balance"`
}

// Fund requests funds for the address and polls the balance until it turns
// positive or the context is done.
func (f *Faucet) Fund(ctx context.Context, address string) (int64, error) {
	if address == "" {
		return 0, fmt.Errorf("address is required")
	}

	if err := f.requestFunds(ctx, address); err != nil {
		return 0, err
	}

	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		balance, err := f.balance(ctx, address)
		if err != nil {
			return 0, err
		}
		if balance > 0 {
			return balance, nil
		}

		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("funds for %s not confirmed: %w", address, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (f *Faucet) requestFunds(ctx context.Context, address string) error {
	body, err := json.Marshal(fundRequest{Address: address})
	if err != nil {
		return fmt.Errorf("failed to marshal fund request: %w", err)
	}

	fundsURL := f.baseURL.JoinPath("api", "v1", "funds")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fundsURL.String(), strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("failed to build fund request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fund request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("faucet returned %d", resp.StatusCode)
	}
	return nil
}

func (f *Faucet) balance(ctx context.Context, address string) (int64, error) {
	balanceURL := f.baseURL.JoinPath("api", "v1", "balance", address)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, balanceURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build balance request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("balance request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("balance lookup returned %d", resp.StatusCode)
	}

	var decoded balanceResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, fmt.Errorf("failed to decode balance response: %w", err)
	}
	return decoded.Balance, nil
}
