package ai

import (
	"context"

	"github.com/vipresearch/bibchat/core"
)

// Completer produces a model reply for a conversation grounded by a system
// prompt. Implementations must be thread-safe for concurrent use.
type Completer interface {
	// Complete sends the system prompt and conversation turns to the
	// model and returns the first successful reply. Implementations with
	// multiple candidate models advance through them in priority order;
	// the returned Completion names the model that actually answered.
	// Returns *ExhaustedError when every candidate fails.
	Complete(ctx context.Context, systemPrompt string, turns []core.ChatTurn) (*Completion, error)
}

// Usage reports token consumption for one completion.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Completion is a successful model response.
type Completion struct {
	// Reply is the assistant's text, lightly marked up; rendering is the
	// caller's concern.
	Reply string
	// ModelUsed is the candidate that produced the reply.
	ModelUsed string
	Usage     Usage
}
