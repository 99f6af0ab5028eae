package search

import (
	"slices"
	"strings"

	"github.com/poiesic/larder/core"
)

// FacetSnapshot maps each facet type to the distinct values observed in a
// recipe subset, in first-seen order. Every facet type has an entry.
type FacetSnapshot map[core.FacetType][]string

// Values returns the values for a facet type.
func (s FacetSnapshot) Values(t core.FacetType) []string {
	return s[t]
}

// Contains reports whether value is present for the facet type.
func (s FacetSnapshot) Contains(t core.FacetType, value string) bool {
	return slices.Contains(s[t], value)
}

// orderedSet keeps distinct strings in insertion order.
type orderedSet struct {
	values []string
	seen   map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{values: []string{}, seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}

// ComputeFacets collects the distinct facet values of recipes, iterating in
// the given order.
func ComputeFacets(recipes []*core.Recipe) FacetSnapshot {
	ingredients := newOrderedSet()
	utensils := newOrderedSet()
	appliances := newOrderedSet()

	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			ingredients.add(ing.Name)
		}
		for _, u := range r.Utensils {
			utensils.add(u)
		}
		appliances.add(r.Appliance)
	}

	return FacetSnapshot{
		core.FacetIngredients: ingredients.values,
		core.FacetUtensils:    utensils.values,
		core.FacetAppliances:  appliances.values,
	}
}

// IsCompatible reports whether a recipe satisfies a tag. Values are compared
// for exact equality; both sides are already normalized.
func IsCompatible(recipe *core.Recipe, tag core.Tag) bool {
	switch tag.Type {
	case core.FacetIngredients:
		for _, ing := range recipe.Ingredients {
			if ing.Name == tag.Value {
				return true
			}
		}
		return false
	case core.FacetUtensils:
		return slices.Contains(recipe.Utensils, tag.Value)
	case core.FacetAppliances:
		return recipe.Appliance == tag.Value
	default:
		return false
	}
}

// FacetOptions returns the selectable options of a facet for a result: the
// display facet values minus the tags already active for that facet type,
// narrowed to values containing filter (case-insensitive). An empty filter
// does not narrow.
func FacetOptions(result FilterResult, t core.FacetType, filter string) []string {
	f := core.Normalize(filter)
	options := []string{}
	for _, v := range result.Facets.Values(t) {
		if result.Tags.Contains(core.Tag{Type: t, Value: v}) {
			continue
		}
		if f != "" && !strings.Contains(v, f) {
			continue
		}
		options = append(options, v)
	}
	return options
}
