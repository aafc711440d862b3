package relevance

import (
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/vipresearch/bibchat/core"
	"github.com/vipresearch/bibchat/index"
)

// DefaultLimit is the top-K cutoff when the caller does not set one.
const DefaultLimit = 5

// minTokenLen is the shortest query token that participates in scoring;
// shorter tokens are discarded during tokenization.
const minTokenLen = 3

// Weights holds the additive signal weights used by the scorer.
type Weights struct {
	TitlePhrase    int
	SnippetPhrase  int
	FullTextPhrase int
	TitleToken     int
	SnippetToken   int
	FullTextToken  int
	TagToken       int
	ContextToken   int
}

// DefaultWeights returns the tuned production weights.
func DefaultWeights() Weights {
	return Weights{
		TitlePhrase:    100,
		SnippetPhrase:  50,
		FullTextPhrase: 20,
		TitleToken:     15,
		SnippetToken:   10,
		FullTextToken:  3,
		TagToken:       30,
		ContextToken:   5,
	}
}

// Scorer ranks catalog entries for a query. Score is a pure function of its
// inputs; a Scorer is safe for concurrent use.
type Scorer struct {
	weights Weights
	logger  *slog.Logger
}

// Option configures a Scorer.
type Option func(*Scorer) error

// WithWeights overrides the default signal weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) error {
		s.weights = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewScorer creates a scorer.
func NewScorer(opts ...Option) (*Scorer, error) {
	s := &Scorer{
		weights: DefaultWeights(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Score returns the top-scoring entries for query, at most limit of them
// (DefaultLimit when limit is not positive). Entries scoring zero are
// excluded; ties keep catalog order. The catalog is never mutated.
func (s *Scorer) Score(catalog *index.Catalog, query string, limit int) []core.ScoredEntry {
	return s.ScoreWithMonitor(catalog, query, limit, nil)
}

// ScoreWithMonitor scores with observation hooks for each stage.
func (s *Scorer) ScoreWithMonitor(catalog *index.Catalog, query string, limit int, monitor QueryMonitor) []core.ScoredEntry {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	monitor.Start(query)

	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		monitor.Finish(nil)
		return []core.ScoredEntry{}
	}

	tokens := tokenize(queryLower)
	monitor.AfterTokenize(tokens)

	results := make([]core.ScoredEntry, 0, catalog.Len())
	for i := 0; i < catalog.Len(); i++ {
		entry := catalog.At(i)
		score := s.scoreEntry(&entry, queryLower, tokens)
		monitor.EntryScored(entry.ID, score)
		if score <= 0 {
			continue
		}
		results = append(results, core.ScoredEntry{Entry: entry, Score: score})
	}

	// Stable sort keeps catalog order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > limit {
		results = results[:limit]
	}

	monitor.Finish(results)
	return results
}

// scoreEntry accumulates the weighted signals for one entry. All matching
// uses literal substring semantics; tokens are never interpreted as
// patterns.
func (s *Scorer) scoreEntry(entry *core.Entry, queryLower string, tokens []string) int {
	titleLower := strings.ToLower(entry.Title)
	snippetLower := strings.ToLower(entry.Snippet)
	contextLower := strings.ToLower(entry.Context)

	score := 0

	// Exact phrase signals.
	if strings.Contains(titleLower, queryLower) {
		score += s.weights.TitlePhrase
	}
	if strings.Contains(snippetLower, queryLower) {
		score += s.weights.SnippetPhrase
	}
	if strings.Contains(entry.FullText, queryLower) {
		score += s.weights.FullTextPhrase
	}

	// Per-token signals.
	for _, token := range tokens {
		score += strings.Count(titleLower, token) * s.weights.TitleToken
		score += strings.Count(snippetLower, token) * s.weights.SnippetToken
		score += strings.Count(entry.FullText, token) * s.weights.FullTextToken

		// At most once per token, however many tags match.
		for _, tag := range entry.Tags {
			if strings.Contains(strings.ToLower(tag), token) {
				score += s.weights.TagToken
				break
			}
		}

		if contextLower != "" && strings.Contains(contextLower, token) {
			score += s.weights.ContextToken
		}
	}

	return score
}

// tokenize splits an already-lowercased query on whitespace, discarding
// tokens shorter than minTokenLen runes.
func tokenize(queryLower string) []string {
	fields := strings.Fields(queryLower)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if utf8.RuneCountInString(field) < minTokenLen {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}
