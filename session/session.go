package session

import (
	"sync"

	"github.com/vipresearch/bibchat/core"
)

// HistoryLimit is the number of most recent non-pending turns kept when a
// session is persisted.
const HistoryLimit = 20

// Session is an append-only, in-memory turn list for one conversation.
// It is safe for concurrent use.
type Session struct {
	mu    sync.Mutex
	turns []core.ChatTurn
}

// NewSession creates a session seeded with restored prior turns, if any.
func NewSession(prior ...core.ChatTurn) *Session {
	turns := make([]core.ChatTurn, len(prior))
	copy(turns, prior)
	return &Session{turns: turns}
}

// Append adds a turn and returns it with its assigned ID and timestamp.
func (s *Session) Append(role core.Role, content string) (core.ChatTurn, error) {
	turn := core.NewChatTurn(role, content)
	if err := core.ValidateChatTurn(&turn); err != nil {
		return core.ChatTurn{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	return turn, nil
}

// AppendPending adds an assistant placeholder turn for an in-flight model
// call. The caller must later Resolve or Remove it.
func (s *Session) AppendPending() core.ChatTurn {
	turn := core.NewChatTurn(core.RoleAssistant, "")
	turn.Pending = true

	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	return turn
}

// Resolve replaces a pending placeholder with the completed assistant reply.
func (s *Session) Resolve(turnID, content string) (core.ChatTurn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.turns {
		if s.turns[i].ID != turnID {
			continue
		}
		if !s.turns[i].Pending {
			return core.ChatTurn{}, ErrNotPending
		}
		s.turns[i].Pending = false
		s.turns[i].Content = content
		return s.turns[i], nil
	}
	return core.ChatTurn{}, ErrTurnNotFound
}

// Remove deletes a turn by ID.
func (s *Session) Remove(turnID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.turns {
		if s.turns[i].ID == turnID {
			s.turns = append(s.turns[:i], s.turns[i+1:]...)
			return nil
		}
	}
	return ErrTurnNotFound
}

// Turns returns a copy of all turns in order, pending included.
func (s *Session) Turns() []core.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]core.ChatTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// History returns the most recent HistoryLimit non-pending turns in order.
// This is the persistable view of the session: a pending placeholder never
// appears in it.
func (s *Session) History() []core.ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]core.ChatTurn, 0, len(s.turns))
	for _, turn := range s.turns {
		if turn.Pending {
			continue
		}
		history = append(history, turn)
	}
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}
	return history
}
