package api

import (
	"github.com/gin-gonic/gin"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/search"
)

// Response is the envelope of every API reply.
type Response struct {
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Error     bool   `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func successResponse(c *gin.Context, message string, data any) Response {
	return Response{
		Message:   message,
		Data:      data,
		RequestID: c.GetString(requestIDKey),
	}
}

func errorResponse(c *gin.Context, message string) Response {
	return Response{
		Message:   message,
		Error:     true,
		RequestID: c.GetString(requestIDKey),
	}
}

// IngredientView is an ingredient line of a recipe card.
type IngredientView struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity,omitempty"`
	Unit     string  `json:"unit,omitempty"`
	Line     string  `json:"line"`
}

// RecipeView is a recipe as rendered on a card.
type RecipeView struct {
	ID               int              `json:"id"`
	Name             string           `json:"name"`
	Time             int              `json:"time"`
	Servings         int              `json:"servings"`
	Description      string           `json:"description"`
	ShortDescription string           `json:"short_description"`
	Appliance        string           `json:"appliance"`
	Utensils         []string         `json:"utensils"`
	Ingredients      []IngredientView `json:"ingredients"`
}

func newRecipeView(r *core.Recipe, descriptionLimit int) RecipeView {
	v := RecipeView{
		ID:               r.ID,
		Name:             r.Name,
		Time:             r.Time,
		Servings:         r.Servings,
		Description:      r.Description,
		ShortDescription: r.ShortDescription(descriptionLimit),
		Appliance:        r.Appliance,
		Utensils:         r.Utensils,
		Ingredients:      make([]IngredientView, len(r.Ingredients)),
	}
	for i, ing := range r.Ingredients {
		v.Ingredients[i] = IngredientView{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Line:     ing.String(),
		}
	}
	return v
}

// TagView is an active or pruned tag.
type TagView struct {
	Type  core.FacetType `json:"type"`
	Value string         `json:"value"`
}

func newTagViews(tags []core.Tag) []TagView {
	views := make([]TagView, len(tags))
	for i, t := range tags {
		views[i] = TagView{Type: t.Type, Value: t.Value}
	}
	return views
}

// SearchView is the result of a search request. Options holds the
// selectable values of each facet, active tags excluded.
type SearchView struct {
	Query   string                      `json:"query"`
	Display string                      `json:"display"`
	Count   int                         `json:"count"`
	Recipes []RecipeView                `json:"recipes"`
	Options map[core.FacetType][]string `json:"options"`
	Tags    []TagView                   `json:"tags"`
	Pruned  []TagView                   `json:"pruned"`
}

func newSearchView(result search.FilterResult, descriptionLimit int) SearchView {
	v := SearchView{
		Query:   result.Query,
		Display: result.Display().String(),
		Count:   len(result.Recipes),
		Recipes: make([]RecipeView, len(result.Recipes)),
		Options: make(map[core.FacetType][]string, len(core.FacetTypes)),
		Tags:    newTagViews(result.Tags.Tags()),
		Pruned:  newTagViews(result.Pruned),
	}
	for i, r := range result.Recipes {
		v.Recipes[i] = newRecipeView(r, descriptionLimit)
	}
	for _, t := range core.FacetTypes {
		v.Options[t] = search.FacetOptions(result, t, "")
	}
	return v
}
