package search

import "github.com/fossouo/creche-pilou-chatbot/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(dimensions int)
	AfterScoring(scored, skipped int)
	Finish(results []core.RankedChunk)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)              {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)   {}
func (n *noopMonitor) AfterScoring(_, _ int)       {}
func (n *noopMonitor) Finish(_ []core.RankedChunk) {}
