package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	completionsPath    = "/chat/completions"
	defaultTemperature = 0.3
	defaultMaxTokens   = 200
)

// ErrBadResponse marks an upstream reply that is missing the expected
// message content; callers treat it the same as an upstream failure
var ErrBadResponse = errors.New("completion response missing message content")

// shared HTTP client for completion calls
var completionHTTPClient = &http.Client{
	Timeout: 60 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
}

// rate limiter for completion calls (10 requests/second with burst of 5);
// self-hosted Gaia nodes fall over under burstier load
var completionRateLimiter = rate.NewLimiter(10, 5)

// Client calls an OpenAI-compatible chat completion endpoint
type Client struct {
	config     Config
	httpClient *http.Client
}

func NewClient(config Config) *Client {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	return &Client{
		config:     config,
		httpClient: completionHTTPClient,
	}
}

func (c *Client) Model() string {
	return c.config.Model
}

// sends the messages to the completion endpoint and returns the reply text.
// The response must contain a non-empty message; anything else fails with
// ErrBadResponse and is not retried here.
func (c *Client) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	if opts.Temperature == 0 {
		opts.Temperature = defaultTemperature
	}

	if opts.MaxTokens == 0 {
		opts.MaxTokens = defaultMaxTokens
	}

	reqBody := completionRequest{
		Model:       c.config.Model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+completionsPath, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	// rate limiting
	if err := completionRateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body) //nolint:errcheck
		return "", fmt.Errorf("completion request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var completionResp completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completionResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(completionResp.Choices) == 0 {
		return "", ErrBadResponse
	}

	text := strings.TrimSpace(completionResp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrBadResponse
	}

	return text, nil
}
