package core

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat turn.
type Role string

const (
	// RoleUser marks a turn written by the visitor.
	RoleUser Role = "user"
	// RoleAssistant marks a turn produced by the model.
	RoleAssistant Role = "assistant"
)

// Entry is one curated research citation plus annotation, as indexed from the
// catalog page. Entries are immutable once a catalog build pass has produced
// them; a rebuild replaces the whole catalog rather than patching entries.
type Entry struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Snippet     string   `json:"snippet"`
	URL         string   `json:"url"`
	Tags        []string `json:"tags,omitempty"`
	Context     string   `json:"context,omitempty"`
	PaperAuthor string   `json:"paperAuthor,omitempty"`
	Contributor string   `json:"contributor,omitempty"`

	// FullText is the lowercased concatenation of title, citation text,
	// annotation, raw tag string and context. It exists only for lexical
	// scoring and is never rendered.
	FullText string `json:"-"`
}

// ScoredEntry is an Entry paired with its lexical relevance score.
// Produced per query and discarded after ranking.
type ScoredEntry struct {
	Entry
	Score int `json:"score"`
}

// ChatTurn is a single message in a conversation. Turns are append-only
// within a session; a Pending turn is a placeholder for an in-flight model
// call and is never persisted.
type ChatTurn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Pending   bool      `json:"-"`
}

// NewChatTurn creates a turn with a fresh ID and the current timestamp.
func NewChatTurn(role Role, content string) ChatTurn {
	return ChatTurn{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}

// MemberContribution is one team member's contribution count.
type MemberContribution struct {
	Name          string `json:"name"`
	Contributions int    `json:"contributions"`
}

// TeamAggregate summarizes team contribution statistics supplied by the
// catalog page alongside the entries.
type TeamAggregate struct {
	TotalMembers       int                  `json:"totalMembers"`
	TotalContributions int                  `json:"totalContributions"`
	PerMember          []MemberContribution `json:"members,omitempty"`
}

// Clone returns a deep copy so that callers can hold the aggregate without
// sharing the PerMember backing array.
func (t *TeamAggregate) Clone() *TeamAggregate {
	if t == nil {
		return nil
	}
	out := &TeamAggregate{
		TotalMembers:       t.TotalMembers,
		TotalContributions: t.TotalContributions,
	}
	if len(t.PerMember) > 0 {
		out.PerMember = make([]MemberContribution, len(t.PerMember))
		copy(out.PerMember, t.PerMember)
	}
	return out
}

// GroundingContext is the bundle of ranked entries, team aggregates and prior
// turns supplied to the language model as factual context. It is assembled
// per request and never persisted.
type GroundingContext struct {
	Entries    []ScoredEntry
	Team       *TeamAggregate
	PriorTurns []ChatTurn
}
