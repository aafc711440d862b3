package relevance

import "github.com/vipresearch/bibchat/core"

// QueryMonitor provides hooks to observe the scoring process.
// Implement this interface to track intermediate steps during ranking.
type QueryMonitor interface {
	Start(query string)
	AfterTokenize(tokens []string)
	EntryScored(id string, score int)
	Finish(results []core.ScoredEntry)
}

// noopMonitor is a no-op implementation of QueryMonitor
type noopMonitor struct{}

var _ QueryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)              {}
func (n *noopMonitor) AfterTokenize(_ []string)    {}
func (n *noopMonitor) EntryScored(_ string, _ int) {}
func (n *noopMonitor) Finish(_ []core.ScoredEntry) {}
