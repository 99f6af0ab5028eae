package search

import (
	"github.com/poiesic/larder/core"
)

// Catalog is the recipe source a pipeline run filters. *catalog.Catalog
// implements it.
type Catalog interface {
	// Recipes returns the recipes in catalog order.
	Recipes() []*core.Recipe
}

// DisplayState tells the presentation layer what to render for a result.
type DisplayState int

const (
	// DisplayNone means no active criteria: render neither results nor an
	// empty-state message.
	DisplayNone DisplayState = iota
	// DisplayResults means render the result recipes.
	DisplayResults
	// DisplayEmpty means criteria are active but nothing matched.
	DisplayEmpty
)

// String returns a human-readable display state.
func (d DisplayState) String() string {
	switch d {
	case DisplayNone:
		return "none"
	case DisplayResults:
		return "results"
	case DisplayEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// FilterResult is the output of one pipeline run.
type FilterResult struct {
	Query   string         // normalized text filter, "" when no text filter applied
	Recipes []*core.Recipe // final subset in catalog order
	Facets  FacetSnapshot  // facet values of the final subset
	Tags    TagSet         // active tags after pruning
	Pruned  []core.Tag     // tags dropped by this run, in set order
}

// HasCriteria reports whether a text filter or any tag is active.
func (r FilterResult) HasCriteria() bool {
	return r.Query != "" || r.Tags.Len() > 0
}

// Display applies the display policy to the result.
func (r FilterResult) Display() DisplayState {
	switch {
	case !r.HasCriteria():
		return DisplayNone
	case len(r.Recipes) == 0:
		return DisplayEmpty
	default:
		return DisplayResults
	}
}

// Run filters the catalog by query and tags. It is a pure function of its
// inputs: the same arguments always yield an equal result.
func Run(c Catalog, query string, tags TagSet) FilterResult {
	return RunWithMonitor(c, query, tags, nil)
}

// RunWithMonitor is Run with callbacks at each stage of the pipeline.
func RunWithMonitor(c Catalog, query string, tags TagSet, monitor Monitor) FilterResult {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query, tags)

	// 1. Text filter
	q := NormalizeQuery(query)
	all := c.Recipes()
	searchFiltered := all
	if q != "" {
		searchFiltered = make([]*core.Recipe, 0, len(all))
		for _, r := range all {
			if matchesNormalized(r, q) {
				searchFiltered = append(searchFiltered, r)
			}
		}
	}
	monitor.AfterTextFilter(searchFiltered)

	// 2-3. Drop tags the text-filtered subset no longer offers. Other tags
	// do not take part here.
	validity := ComputeFacets(searchFiltered)
	active, pruned := tags.partition(func(tag core.Tag) bool {
		return validity.Contains(tag.Type, tag.Value)
	})
	if len(pruned) > 0 {
		monitor.TagsPruned(pruned)
	}

	// 4. Every remaining tag must hold.
	finalFiltered := make([]*core.Recipe, 0, len(searchFiltered))
	for _, r := range searchFiltered {
		if compatibleWithAll(r, active) {
			finalFiltered = append(finalFiltered, r)
		}
	}
	monitor.AfterTagFilter(finalFiltered)

	// 5. Options for display
	result := FilterResult{
		Query:   q,
		Recipes: finalFiltered,
		Facets:  ComputeFacets(finalFiltered),
		Tags:    active,
		Pruned:  pruned,
	}
	monitor.Finish(result)

	return result
}

func compatibleWithAll(r *core.Recipe, tags TagSet) bool {
	for _, tag := range tags.tags {
		if !IsCompatible(r, tag) {
			return false
		}
	}
	return true
}
