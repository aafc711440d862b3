package chat

import (
	"github.com/vipresearch/bibchat/core"
	"github.com/vipresearch/bibchat/index"
	"github.com/vipresearch/bibchat/relevance"
)

// Assembler builds the grounding context for one exchange. It is a pure
// composition step: it ranks catalog entries for the query, deep-copies
// the caller's team aggregate, and carries forward prior turns with any
// pending placeholder stripped. Inputs are never mutated.
type Assembler struct {
	scorer *relevance.Scorer
	topK   int
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler) error

// WithScorer replaces the default relevance scorer.
func WithScorer(scorer *relevance.Scorer) AssemblerOption {
	return func(a *Assembler) error {
		if scorer != nil {
			a.scorer = scorer
		}
		return nil
	}
}

// WithTopK overrides how many ranked entries the grounding context holds.
func WithTopK(topK int) AssemblerOption {
	return func(a *Assembler) error {
		if topK < 1 {
			topK = relevance.DefaultLimit
		}
		a.topK = topK
		return nil
	}
}

// NewAssembler creates an assembler with a default scorer and top-K of
// relevance.DefaultLimit.
func NewAssembler(opts ...AssemblerOption) (*Assembler, error) {
	scorer, err := relevance.NewScorer()
	if err != nil {
		return nil, err
	}
	a := &Assembler{scorer: scorer, topK: relevance.DefaultLimit}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Assemble ranks the catalog for the query and bundles the result with the
// team aggregate and prior turns.
func (a *Assembler) Assemble(catalog *index.Catalog, query string, team *core.TeamAggregate, prior []core.ChatTurn) core.GroundingContext {
	grounding := core.GroundingContext{
		Entries: a.scorer.Score(catalog, query, a.topK),
		Team:    team.Clone(),
	}
	for _, turn := range prior {
		if turn.Pending {
			continue
		}
		grounding.PriorTurns = append(grounding.PriorTurns, turn)
	}
	return grounding
}
