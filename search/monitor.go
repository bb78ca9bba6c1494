package search

import (
	"github.com/docsieve/docsieve/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterQueryEmbedding(dimension int)
	AfterSemanticSearch(results []*core.SearchResult)
	AfterKeywordExtraction(keywords []string)
	AfterKeywordSearch(matches []*core.KeywordMatch)
	Finish(summary *Summary)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                             {}
func (n *noopMonitor) AfterQueryEmbedding(_ int)                  {}
func (n *noopMonitor) AfterSemanticSearch(_ []*core.SearchResult) {}
func (n *noopMonitor) AfterKeywordExtraction(_ []string)          {}
func (n *noopMonitor) AfterKeywordSearch(_ []*core.KeywordMatch)  {}
func (n *noopMonitor) Finish(_ *Summary)                          {}
