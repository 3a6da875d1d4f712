package search

import "github.com/toriana04/fraudintel/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEncoding(vector []float32)
	AfterRanking(best core.Hit, rows int)
	AfterRelated(related []core.ArticleRecord)
	Finish(result *core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                      {}
func (n *noopMonitor) AfterQueryEncoding(_ []float32)      {}
func (n *noopMonitor) AfterRanking(_ core.Hit, _ int)      {}
func (n *noopMonitor) AfterRelated(_ []core.ArticleRecord) {}
func (n *noopMonitor) Finish(_ *core.SearchResult)         {}
