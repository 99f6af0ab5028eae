package search

import (
	"strings"
	"unicode/utf8"

	"github.com/poiesic/larder/core"
)

// MinQueryLength is the shortest trimmed query that filters recipes.
const MinQueryLength = 3

// NormalizeQuery trims and lowercases a query. It returns "" when the
// trimmed query is shorter than MinQueryLength, meaning no text filter.
func NormalizeQuery(query string) string {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinQueryLength {
		return ""
	}
	return strings.ToLower(q)
}

// Matches reports whether the recipe contains the query, case-insensitively,
// in its title, description, appliance, any ingredient name or any utensil.
// A query shorter than MinQueryLength matches every recipe.
func Matches(recipe *core.Recipe, query string) bool {
	q := NormalizeQuery(query)
	if q == "" {
		return true
	}
	return matchesNormalized(recipe, q)
}

// matchesNormalized expects q as returned by NormalizeQuery.
func matchesNormalized(recipe *core.Recipe, q string) bool {
	if strings.Contains(strings.ToLower(recipe.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(recipe.Description), q) {
		return true
	}
	// Facet values are already lowercase.
	if strings.Contains(recipe.Appliance, q) {
		return true
	}
	for _, ing := range recipe.Ingredients {
		if strings.Contains(ing.Name, q) {
			return true
		}
	}
	for _, u := range recipe.Utensils {
		if strings.Contains(u, q) {
			return true
		}
	}
	return false
}
