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

// Package bibchat answers natural-language questions about a curated
// research catalog. The Assistant facade wires the catalog index, lexical
// relevance scoring, per-identity rate limiting, persistent chat history
// and the model-fallback completion caller into one pipeline.
package bibchat

import (
	"context"
	"log/slog"

	"github.com/vipresearch/bibchat/ai"
	"github.com/vipresearch/bibchat/ai/anthropic"
	"github.com/vipresearch/bibchat/chat"
	"github.com/vipresearch/bibchat/core"
	"github.com/vipresearch/bibchat/index"
	"github.com/vipresearch/bibchat/ratelimit"
	"github.com/vipresearch/bibchat/relevance"
	sessionbadger "github.com/vipresearch/bibchat/session/badger"
)

// Assistant owns the full question-answer pipeline. Construct one with
// NewAssistant, feed it a catalog via Rebuild, and serve requests through
// Ask. Close releases the history store and the builder's worker pool.
type Assistant struct {
	holder    *index.Holder
	builder   *index.Builder
	scorer    *relevance.Scorer
	store     *sessionbadger.HistoryStore
	service   *chat.Service
	completer ai.Completer
	logger    *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig      *ai.Config
	completer     ai.Completer
	storePath     string
	inMemoryStore bool
	orgSuffix     string
	baseURL       string
	weights       *relevance.Weights
	logger        *slog.Logger
}

// WithAIConfig sets the completion provider configuration.
func WithAIConfig(cfg *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithCompleter injects a prebuilt completion caller, bypassing the
// provider configuration. Intended for tests and custom providers.
func WithCompleter(completer ai.Completer) AssistantOption {
	return func(o *assistantOptions) {
		o.completer = completer
	}
}

// WithStorePath enables on-disk chat history at the given directory.
func WithStorePath(path string) AssistantOption {
	return func(o *assistantOptions) {
		o.storePath = path
	}
}

// WithInMemoryStore enables chat history kept only for the process
// lifetime.
func WithInMemoryStore() AssistantOption {
	return func(o *assistantOptions) {
		o.inMemoryStore = true
	}
}

// WithOrgSuffix sets the identity domain suffix that gates access.
func WithOrgSuffix(suffix string) AssistantOption {
	return func(o *assistantOptions) {
		o.orgSuffix = suffix
	}
}

// WithBaseURL sets the canonical page URL entry anchors are built from.
func WithBaseURL(baseURL string) AssistantOption {
	return func(o *assistantOptions) {
		o.baseURL = baseURL
	}
}

// WithScoringWeights overrides the lexical scoring weights.
func WithScoringWeights(weights relevance.Weights) AssistantOption {
	return func(o *assistantOptions) {
		o.weights = &weights
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AssistantOption {
	return func(o *assistantOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewAssistant wires the pipeline. Without WithStorePath or
// WithInMemoryStore, conversations rely on the history the client sends.
func NewAssistant(opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig:  ai.DefaultConfig(),
		orgSuffix: chat.DefaultOrgSuffix,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	completer := options.completer
	if completer == nil {
		var err error
		completer, err = anthropic.NewCaller(options.aiConfig, anthropic.WithLogger(options.logger))
		if err != nil {
			return nil, err
		}
	}

	builder, err := index.NewBuilder(
		index.WithBaseURL(options.baseURL),
		index.WithLogger(options.logger),
	)
	if err != nil {
		return nil, err
	}

	scorerOpts := []relevance.Option{relevance.WithLogger(options.logger)}
	if options.weights != nil {
		scorerOpts = append(scorerOpts, relevance.WithWeights(*options.weights))
	}
	scorer, err := relevance.NewScorer(scorerOpts...)
	if err != nil {
		builder.Release()
		return nil, err
	}

	var store *sessionbadger.HistoryStore
	switch {
	case options.storePath != "":
		store, err = sessionbadger.Open(options.storePath, sessionbadger.WithLogger(options.logger))
	case options.inMemoryStore:
		store, err = sessionbadger.OpenInMemory(sessionbadger.WithLogger(options.logger))
	}
	if err != nil {
		builder.Release()
		return nil, err
	}

	assembler, err := chat.NewAssembler(chat.WithScorer(scorer))
	if err != nil {
		closeStore(store, options.logger)
		builder.Release()
		return nil, err
	}
	limiter, err := ratelimit.NewLimiter(ratelimit.WithLogger(options.logger))
	if err != nil {
		closeStore(store, options.logger)
		builder.Release()
		return nil, err
	}

	holder := index.NewHolder()
	serviceOpts := []chat.ServiceOption{
		chat.WithAssembler(assembler),
		chat.WithLimiter(limiter),
		chat.WithOrgSuffix(options.orgSuffix),
		chat.WithLogger(options.logger),
	}
	if store != nil {
		serviceOpts = append(serviceOpts, chat.WithHistoryStore(store))
	}
	service, err := chat.NewService(holder, completer, serviceOpts...)
	if err != nil {
		closeStore(store, options.logger)
		builder.Release()
		return nil, err
	}

	return &Assistant{
		holder:    holder,
		builder:   builder,
		scorer:    scorer,
		store:     store,
		service:   service,
		completer: completer,
		logger:    options.logger,
	}, nil
}

// Rebuild indexes the source and atomically replaces the published
// catalog. Returns the number of entries indexed.
func (a *Assistant) Rebuild(ctx context.Context, source index.RecordSource) (int, error) {
	catalog, err := a.builder.Build(ctx, source)
	if err != nil {
		return 0, err
	}
	a.holder.Publish(catalog)
	return catalog.Len(), nil
}

// Catalog returns the currently published catalog snapshot.
func (a *Assistant) Catalog() *index.Catalog {
	return a.holder.Current()
}

// Search ranks catalog entries for the query without running a chat
// exchange.
func (a *Assistant) Search(query string, limit int) []core.ScoredEntry {
	return a.scorer.Score(a.holder.Current(), query, limit)
}

// Ask runs one full question-answer exchange.
func (a *Assistant) Ask(ctx context.Context, req *chat.Request) (*chat.Response, error) {
	return a.service.Handle(ctx, req)
}

// Close releases the builder's worker pool and the history store.
func (a *Assistant) Close() error {
	a.builder.Release()
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("error closing history store", "err", err)
		return err
	}
	return nil
}

func closeStore(store *sessionbadger.HistoryStore, logger *slog.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.Error("error closing history store", "err", err)
	}
}
