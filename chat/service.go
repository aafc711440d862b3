// Copyright 2026 VIP Research Exchange
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vipresearch/bibchat/ai"
	"github.com/vipresearch/bibchat/core"
	"github.com/vipresearch/bibchat/index"
	"github.com/vipresearch/bibchat/ratelimit"
	"github.com/vipresearch/bibchat/session"
)

// DefaultOrgSuffix is the identity domain suffix admitted by default.
const DefaultOrgSuffix = "@gatech.edu"

// HistoryStore persists conversation turns between exchanges. A store
// failure never fails the exchange; the Service logs it and continues with
// in-memory state.
type HistoryStore interface {
	Load(ctx context.Context, identity string, now time.Time) ([]core.ChatTurn, error)
	Save(ctx context.Context, identity string, turns []core.ChatTurn) error
}

// Service runs the full pipeline for one exchange: validate, gate on
// identity, charge the rate limiter, assemble grounding, complete, record.
type Service struct {
	holder    *index.Holder
	assembler *Assembler
	limiter   *ratelimit.Limiter
	completer ai.Completer
	history   HistoryStore
	orgSuffix string
	logger    *slog.Logger
	now       func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service) error

// WithLimiter replaces the default rate limiter.
func WithLimiter(limiter *ratelimit.Limiter) ServiceOption {
	return func(s *Service) error {
		if limiter != nil {
			s.limiter = limiter
		}
		return nil
	}
}

// WithAssembler replaces the default grounding assembler.
func WithAssembler(assembler *Assembler) ServiceOption {
	return func(s *Service) error {
		if assembler != nil {
			s.assembler = assembler
		}
		return nil
	}
}

// WithHistoryStore attaches a persistent history store. Without one,
// conversation state lives only in the inbound request.
func WithHistoryStore(store HistoryStore) ServiceOption {
	return func(s *Service) error {
		s.history = store
		return nil
	}
}

// WithOrgSuffix overrides the identity domain suffix that gates access.
func WithOrgSuffix(suffix string) ServiceOption {
	return func(s *Service) error {
		if suffix != "" {
			s.orgSuffix = strings.ToLower(suffix)
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithClock injects the time source used for history freshness checks.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) error {
		if now == nil {
			now = time.Now
		}
		s.now = now
		return nil
	}
}

// NewService wires a pipeline around the given catalog holder and
// completion provider.
func NewService(holder *index.Holder, completer ai.Completer, opts ...ServiceOption) (*Service, error) {
	if holder == nil {
		holder = index.NewHolder()
	}
	if completer == nil {
		return nil, fmt.Errorf("chat service: completer is required")
	}

	assembler, err := NewAssembler()
	if err != nil {
		return nil, err
	}
	limiter, err := ratelimit.NewLimiter()
	if err != nil {
		return nil, err
	}

	s := &Service{
		holder:    holder,
		assembler: assembler,
		limiter:   limiter,
		completer: completer,
		orgSuffix: DefaultOrgSuffix,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Handle runs one exchange. The rate-limit slot is charged before the
// provider call and is not refunded when the call fails. On provider
// exhaustion nothing is persisted to the history store.
func (s *Service) Handle(ctx context.Context, req *Request) (*Response, error) {
	query, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	identity, err := s.gate(req.UserEmail)
	if err != nil {
		return nil, err
	}

	decision := s.limiter.Admit(identity)
	if !decision.Allowed {
		return nil, &RateLimitError{RetryAfterMinutes: decision.RetryAfterMinutes()}
	}

	sess := s.restoreSession(ctx, identity, req)

	grounding := s.assembler.Assemble(s.holder.Current(), query, req.TeamData, sess.History())
	if len(grounding.Entries) == 0 && len(req.Entries) > 0 {
		grounding.Entries = shortlistFromRequest(req.Entries, s.assembler.topK)
	}
	prompt := BuildSystemPrompt(grounding)

	userTurn, err := sess.Append(core.RoleUser, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	pending := sess.AppendPending()

	completion, err := s.completer.Complete(ctx, prompt, sess.History())
	if err != nil {
		// The pending placeholder and the user turn die with the
		// in-memory session; nothing reaches the store.
		s.logger.Error("completion failed", "identity", identity, "err", err)
		return nil, err
	}

	if _, err := sess.Resolve(pending.ID, completion.Reply); err != nil {
		return nil, err
	}
	s.persistSession(ctx, identity, sess)

	s.logger.Info("exchange completed",
		"identity", identity,
		"model", completion.ModelUsed,
		"entries", len(grounding.Entries),
		"turn", userTurn.ID)

	return &Response{
		Message:   completion.Reply,
		Usage:     completion.Usage,
		ModelUsed: completion.ModelUsed,
		Entries:   rankedEntries(grounding.Entries),
	}, nil
}

// validate checks the message array and returns the user's new question.
func (s *Service) validate(req *Request) (string, error) {
	if req == nil || len(req.Messages) == 0 {
		return "", fmt.Errorf("%w: messages array is required", ErrInvalidRequest)
	}
	for _, msg := range req.Messages {
		if err := core.ValidateRole(msg.Role); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		if strings.TrimSpace(msg.Content) == "" {
			return "", fmt.Errorf("%w: message content cannot be empty", ErrInvalidRequest)
		}
	}
	last := req.Messages[len(req.Messages)-1]
	if last.Role != core.RoleUser {
		return "", fmt.Errorf("%w: last message must be from the user", ErrInvalidRequest)
	}
	return last.Content, nil
}

// gate admits only identities carrying the organization domain suffix.
func (s *Service) gate(userEmail string) (string, error) {
	identity := strings.ToLower(strings.TrimSpace(userEmail))
	if identity == "" {
		return "", fmt.Errorf("%w: identity is required", ErrUnauthorized)
	}
	if !strings.HasSuffix(identity, s.orgSuffix) {
		return "", fmt.Errorf("%w: identity must end with %s", ErrUnauthorized, s.orgSuffix)
	}
	return identity, nil
}

// restoreSession loads stored history for the identity. When the store has
// nothing, the leading inbound messages seed the session so the provider
// still sees the conversation the client sees. Store failures are logged
// and treated as no history.
func (s *Service) restoreSession(ctx context.Context, identity string, req *Request) *session.Session {
	var stored []core.ChatTurn
	if s.history != nil {
		turns, err := s.history.Load(ctx, identity, s.now())
		if err != nil {
			s.logger.Warn("history load failed, starting empty", "identity", identity, "err", err)
		} else {
			stored = turns
		}
	}

	sess := session.NewSession(stored...)
	if len(stored) == 0 {
		for _, msg := range req.Messages[:len(req.Messages)-1] {
			if _, err := sess.Append(msg.Role, msg.Content); err != nil {
				s.logger.Warn("skipping malformed seed turn", "err", err)
			}
		}
	}
	return sess
}

func (s *Service) persistSession(ctx context.Context, identity string, sess *session.Session) {
	if s.history == nil {
		return
	}
	if err := s.history.Save(ctx, identity, sess.Turns()); err != nil {
		s.logger.Warn("history save failed, continuing in memory", "identity", identity, "err", err)
	}
}

// shortlistFromRequest falls back to the caller-supplied entries when the
// server-side catalog produced no candidates.
func shortlistFromRequest(entries []core.Entry, limit int) []core.ScoredEntry {
	if len(entries) > limit {
		entries = entries[:limit]
	}
	out := make([]core.ScoredEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, core.ScoredEntry{Entry: entry})
	}
	return out
}

func rankedEntries(scored []core.ScoredEntry) []RankedEntry {
	if len(scored) == 0 {
		return nil
	}
	out := make([]RankedEntry, 0, len(scored))
	for _, entry := range scored {
		out = append(out, RankedEntry{
			ID:      entry.ID,
			Title:   entry.Title,
			URL:     entry.URL,
			Snippet: entry.Snippet,
		})
	}
	return out
}
