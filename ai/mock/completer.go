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

// Package mock provides a test double for the ai.Completer interface.
package mock

import (
	"context"
	"sync"

	"github.com/vipresearch/bibchat/ai"
	"github.com/vipresearch/bibchat/core"
)

// Completer is a configurable ai.Completer for tests. Behavior is
// injected through CompleteFunc; calls are recorded for inspection.
type Completer struct {
	CompleteFunc func(ctx context.Context, systemPrompt string, turns []core.ChatTurn) (*ai.Completion, error)

	mu    sync.Mutex
	calls []Call
}

// Call records the arguments of one Complete invocation.
type Call struct {
	SystemPrompt string
	Turns        []core.ChatTurn
}

var _ ai.Completer = (*Completer)(nil)

func (m *Completer) Complete(ctx context.Context, systemPrompt string, turns []core.ChatTurn) (*ai.Completion, error) {
	m.mu.Lock()
	m.calls = append(m.calls, Call{SystemPrompt: systemPrompt, Turns: turns})
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, systemPrompt, turns)
	}
	return &ai.Completion{Reply: "mock reply", ModelUsed: "mock-model"}, nil
}

// Calls returns a copy of the recorded invocations.
func (m *Completer) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount reports how many times Complete has been invoked.
func (m *Completer) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
