// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genai asks a Generative AI model research questions and derives
// note material (key concepts, follow-up questions) from the answers.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/askalan/pubnote/internal/httputil"
	"github.com/askalan/pubnote/pkg/types"
)

// claudeAPIURL is the Claude API endpoint. Package-level var for test substitution.
var claudeAPIURL = "https://api.anthropic.com/v1/messages"

const defaultMaxTokens = 4096

// Answer is the model's reply to a query, with timing for display.
type Answer struct {
	Text    string
	Model   string
	Elapsed time.Duration
}

// Client calls the Claude Messages API.
type Client struct {
	cfg   types.AIConfig
	httpc *http.Client
}

// NewClient builds a genai client from cfg.
func NewClient(cfg types.AIConfig, httpc *http.Client) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("an API key is required for the %s API", cfg.Model)
	}
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &Client{cfg: cfg, httpc: httpc}, nil
}

// claudeRequest is the request body for the Claude Messages API.
type claudeRequest struct {
	Model       string          `json:"model"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature float64         `json:"temperature,omitempty"`
	Messages    []claudeMessage `json:"messages"`
}

// claudeMessage is a single message in the Claude API conversation.
type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// claudeResponse is the response body from the Claude Messages API.
type claudeResponse struct {
	Content []claudeContent `json:"content"`
}

// claudeContent is a content block in the Claude API response.
type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Ask sends the query to the model and returns its reply.
func (c *Client) Ask(ctx context.Context, query string) (Answer, error) {
	start := time.Now()
	text, err := c.complete(ctx, query, c.cfg.Temperature)
	if err != nil {
		return Answer{}, err
	}
	return Answer{Text: text, Model: c.cfg.Model, Elapsed: time.Since(start)}, nil
}

// complete performs one Messages API call and returns the first text block.
// HTTP 429 responses are retried with exponential backoff up to MaxRetries.
func (c *Client) complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	reqBody := claudeRequest{
		Model:       c.cfg.Model,
		MaxTokens:   defaultMaxTokens,
		Temperature: temperature,
		Messages: []claudeMessage{
			{Role: "user", Content: prompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, claudeAPIURL, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := httputil.DoWithRetry(ctx, c.httpc, req, c.cfg.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Claude API returned %d: %s", resp.StatusCode, string(body))
	}

	var cResp claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&cResp); err != nil {
		return "", fmt.Errorf("decoding Claude response: %w", err)
	}

	for _, block := range cResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in Claude API response")
}
