// Package anthropic adapts the Anthropic Messages API to the provider
// contract used by the fallback executor.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/lumis-app/lumis-backend/internal/config"
	"github.com/lumis-app/lumis-backend/internal/provider"
)

const defaultMaxTokens = 4096

// Client calls Claude models for text-bearing features.
type Client struct {
	client sdk.Client
	log    *slog.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.AnthropicConfig, logger *slog.Logger) *Client {
	return &Client{
		client: sdk.NewClient(option.WithAPIKey(cfg.APIKey)),
		log:    logger.With("adapter", "anthropic"),
	}
}

// GenerateText sends one prompt to the given model and returns the raw text
// of the first content block. ctx carries no deadline; a call that outlives
// its candidate's slot is abandoned by the executor, not cancelled.
func (c *Client) GenerateText(ctx context.Context, model, system, prompt string) (provider.Payload, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(model),
		MaxTokens: defaultMaxTokens,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	c.log.DebugContext(ctx, "anthropic request", slog.String("model", model))

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, c.mapError(ctx, model, err)
	}

	if len(msg.Content) == 0 {
		return nil, fmt.Errorf("anthropic: empty response from %s", model)
	}

	c.log.DebugContext(ctx, "anthropic response",
		slog.String("model", model),
		slog.Int("blocks", len(msg.Content)),
	)

	return msg.Content[0].Text, nil
}

// mapError translates SDK failures into the shared provider taxonomy so the
// executor can classify them without knowing about this SDK.
func (c *Client) mapError(ctx context.Context, model string, err error) error {
	c.log.ErrorContext(ctx, "anthropic request failed",
		slog.String("model", model),
		slog.String("error", err.Error()),
	)

	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		return &provider.StatusError{Provider: "anthropic", Status: apiErr.StatusCode}
	}
	return fmt.Errorf("anthropic: %s: %w", model, err)
}
