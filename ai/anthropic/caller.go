package anthropic

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/vipresearch/bibchat/ai"
	"github.com/vipresearch/bibchat/core"
)

// Caller implements ai.Completer against the Anthropic messages API,
// walking an ordered fallback chain of candidate models. One underlying
// client serves every candidate; the model is selected per call.
type Caller struct {
	client llms.Model
	config *ai.Config
	logger *slog.Logger
}

var _ ai.Completer = (*Caller)(nil)

// Option configures a Caller.
type Option func(*Caller) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Caller) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewCaller creates a fallback caller using the provided configuration.
//
// Returns ai.Completer interface to enforce abstraction.
func NewCaller(config *ai.Config, opts ...Option) (ai.Completer, error) {
	return newCaller(config, opts...)
}

func newCaller(config *ai.Config, opts ...Option) (*Caller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clientOpts := []anthropic.Option{
		anthropic.WithToken(config.Token),
		anthropic.WithModel(config.Models[0]),
	}
	if config.BaseURL != "" {
		clientOpts = append(clientOpts, anthropic.WithBaseURL(config.BaseURL))
	}
	client, err := anthropic.New(clientOpts...)
	if err != nil {
		return nil, err
	}

	c := &Caller{
		client: client,
		config: config,
		logger: slog.Default().With("component", "anthropic-caller"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Complete tries each candidate model in configured order and returns the
// first successful reply. A per-candidate failure is recorded and the chain
// advances without retrying that candidate; the configured timeout bounds
// the chain as a whole. When every candidate fails the returned
// *ai.ExhaustedError carries the last failure.
func (c *Caller) Complete(ctx context.Context, systemPrompt string, turns []core.ChatTurn) (*ai.Completion, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	content := buildContent(systemPrompt, turns)

	var lastErr error
	attempts := 0
	for _, model := range c.config.Models {
		// The overall bound, not any single attempt, decides when to
		// stop waiting.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempts++

		completion, err := c.attempt(ctx, model, content)
		if err != nil {
			c.logger.Warn("model candidate failed, advancing",
				"model", model, "attempt", attempts, "err", err)
			lastErr = err
			continue
		}

		c.logger.Debug("completion succeeded", "model", model, "attempt", attempts)
		return completion, nil
	}

	return nil, &ai.ExhaustedError{Attempts: attempts, Last: lastErr}
}

// attempt issues one call against one candidate model.
func (c *Caller) attempt(ctx context.Context, model string, content []llms.MessageContent) (*ai.Completion, error) {
	callOpts := []llms.CallOption{
		llms.WithModel(model),
		llms.WithMaxTokens(c.config.MaxTokens),
		llms.WithTemperature(c.config.Temperature),
	}

	response, err := c.client.GenerateContent(ctx, content, callOpts...)
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("model %s returned no choices", model)
	}

	choice := response.Choices[0]
	return &ai.Completion{
		Reply:     choice.Content,
		ModelUsed: model,
		Usage:     usageFrom(choice.GenerationInfo),
	}, nil
}

// buildContent maps the system prompt and conversation turns onto message
// content. Pending placeholders never reach the provider.
func buildContent(systemPrompt string, turns []core.ChatTurn) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(turns)+1)
	if systemPrompt != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		})
	}
	for _, turn := range turns {
		if turn.Pending {
			continue
		}
		role := llms.ChatMessageTypeHuman
		if turn.Role == core.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(turn.Content)},
		})
	}
	return content
}

// usageFrom extracts token counts from provider generation info. Providers
// report counts with differing numeric types.
func usageFrom(info map[string]any) ai.Usage {
	return ai.Usage{
		InputTokens:  intFrom(info, "InputTokens"),
		OutputTokens: intFrom(info, "OutputTokens"),
	}
}

func intFrom(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
