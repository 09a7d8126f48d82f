// Package segmenter calls an image segmentation API that returns a
// foreground mask for the background-removal feature.
package segmenter

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lumis-app/lumis-backend/internal/config"
	"github.com/lumis-app/lumis-backend/internal/provider"
)

// Client talks to one segmentation base URL. Models map to URL paths
// (e.g. /isnet-general), the convention used by hosted segmentation APIs.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.SegmenterConfig, logger *slog.Logger) *Client {
	return NewClientWithURL(cfg.BaseURL, cfg.APIKey, logger)
}

// NewClientWithURL creates a Client with a custom base URL (for testing).
func NewClientWithURL(baseURL, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		log:        logger.With("adapter", "segmenter"),
	}
}

type segmentRequest struct {
	Image string `json:"image"`
}

// RemoveBackground posts the original image and returns the provider's mask
// payload. Depending on the backend the response is either raw image bytes
// (content type image/*) or a JSON object carrying the mask under a
// provider-specific field; both are handed to the normalizer untouched.
func (c *Client) RemoveBackground(ctx context.Context, model string, image []byte) (provider.Payload, error) {
	reqBody, err := json.Marshal(segmentRequest{Image: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return nil, fmt.Errorf("segmenter: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("segmenter: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	c.log.DebugContext(ctx, "segmenter request",
		slog.String("model", model),
		slog.Int("image_bytes", len(image)),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "segmenter request failed",
			slog.String("model", model),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("segmenter: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("segmenter: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.WarnContext(ctx, "segmenter non-200",
			slog.String("model", model),
			slog.Int("status", resp.StatusCode),
		)
		return nil, &provider.StatusError{Provider: "segmenter", Status: resp.StatusCode, Body: string(body)}
	}

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "image/") {
		return body, nil
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("segmenter: decode response: %w", err)
	}
	return payload, nil
}
