package search

import (
	"github.com/poiesic/larder/core"
)

// Monitor provides hooks to observe a pipeline run.
// Implement this interface to track intermediate subsets and pruned tags.
type Monitor interface {
	Start(query string, tags TagSet)
	AfterTextFilter(recipes []*core.Recipe)
	// TagsPruned is only called when at least one tag was dropped.
	TagsPruned(tags []core.Tag)
	AfterTagFilter(recipes []*core.Recipe)
	Finish(result FilterResult)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ TagSet) {}
func (n *noopMonitor) AfterTextFilter(_ []*core.Recipe) {}
func (n *noopMonitor) TagsPruned(_ []core.Tag) {}
func (n *noopMonitor) AfterTagFilter(_ []*core.Recipe) {}
func (n *noopMonitor) Finish(_ FilterResult) {}
