package chat

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/vipresearch/bibchat/ai"
	"github.com/vipresearch/bibchat/core"
)

// Message is one inbound conversation message as sent by the widget.
type Message struct {
	Role    core.Role `json:"role"`
	Content string    `json:"content"`
}

// Request is the inbound payload for one question-answer exchange. The
// messages array carries the conversation as the client sees it, ending
// with the user's new question. Entries, if present, are a caller-supplied
// shortlist used when the server-side catalog is empty.
type Request struct {
	Messages  []Message           `json:"messages"`
	Entries   []core.Entry        `json:"entries,omitempty"`
	TeamData  *core.TeamAggregate `json:"teamData,omitempty"`
	UserEmail string              `json:"userEmail"`
}

// RankedEntry is one catalog entry in the shape the rendering layer
// formats links from.
type RankedEntry struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Response is the successful outbound payload.
type Response struct {
	Message   string        `json:"message"`
	Usage     ai.Usage      `json:"usage"`
	ModelUsed string        `json:"modelUsed"`
	Entries   []RankedEntry `json:"entries,omitempty"`
}

// ErrorBody is the outbound payload for a failed exchange. Error carries
// only user-presentable text; internal detail goes to Details.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorBodyFor renders an error from Handle as a user-facing body. Fatal
// internal failures get a generic apologetic message with the underlying
// cause relegated to Details; rate-limit denials report the precise
// retry-after minute count.
func ErrorBodyFor(err error) ErrorBody {
	if err == nil {
		return ErrorBody{}
	}
	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return ErrorBody{
			Error: fmt.Sprintf("Rate limit reached. Please try again in %d minutes.", rateErr.RetryAfterMinutes),
		}
	}
	switch StatusOf(err) {
	case http.StatusBadRequest:
		return ErrorBody{Error: "Messages array is required"}
	case http.StatusForbidden:
		return ErrorBody{Error: "A verified organization email is required"}
	default:
		return ErrorBody{Error: "Failed to get response from AI", Details: err.Error()}
	}
}
