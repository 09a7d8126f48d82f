// Package openai is a hand-rolled client for OpenAI-compatible inference
// endpoints: chat completions for text candidates and image generations for
// the image feature.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lumis-app/lumis-backend/internal/config"
	"github.com/lumis-app/lumis-backend/internal/provider"
)

const retryBackoff = 500 * time.Millisecond

// Client talks to one OpenAI-compatible base URL.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from configuration. No transport-level timeout
// is set; the executor abandons a call that outlives its candidate's slot
// rather than cancelling it.
func NewClient(cfg config.OpenAIConfig, logger *slog.Logger) *Client {
	return NewClientWithURL(cfg.BaseURL, cfg.APIKey, logger)
}

// NewClientWithURL creates a Client with a custom base URL (for testing).
func NewClientWithURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		log:        logger.With("adapter", "openai"),
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateText runs one chat completion and returns the assistant text.
func (c *Client) GenerateText(ctx context.Context, model, system, prompt string) (provider.Payload, error) {
	msgs := []chatMessage{}
	if system != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: system})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: prompt})

	body, err := c.post(ctx, "/chat/completions", chatRequest{Model: model, Messages: msgs})
	if err != nil {
		return nil, err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: empty choices from %s", model)
	}

	return resp.Choices[0].Message.Content, nil
}

type imageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format,omitempty"`
}

// GenerateImage runs one image generation. The decoded response object is
// returned as-is; compatible backends disagree on the payload field
// (b64_json, url, data URI), so shape-sniffing is left to the normalizer.
func (c *Client) GenerateImage(ctx context.Context, model, prompt string) (provider.Payload, error) {
	body, err := c.post(ctx, "/images/generations", imageRequest{
		Model:          model,
		Prompt:         prompt,
		N:              1,
		ResponseFormat: "b64_json",
	})
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("openai: decode image response: %w", err)
	}

	return payload, nil
}

func (c *Client) post(ctx context.Context, path string, reqBody any) ([]byte, error) {
	raw, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("openai: marshal request: %w", err)
	}

	c.log.DebugContext(ctx, "openai request", slog.String("path", path))

	resp, err := c.doWithRetry(ctx, path, raw)
	if err != nil {
		c.log.ErrorContext(ctx, "openai request failed",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.WarnContext(ctx, "openai non-200",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &provider.StatusError{Provider: "openai", Status: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. The request is rebuilt per attempt so each one sends a fresh body.
func (c *Client) doWithRetry(ctx context.Context, path string, raw []byte) (*http.Response, error) {
	resp, err := c.do(ctx, path, raw)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "openai retry", slog.String("path", path), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(retryBackoff)

	return c.do(ctx, path, raw)
}

func (c *Client) do(ctx context.Context, path string, raw []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return c.httpClient.Do(req)
}
