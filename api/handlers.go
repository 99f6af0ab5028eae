package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/search"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, successResponse(c, "ok", gin.H{"recipes": len(s.catalog.Recipes())}))
}

// runFromQuery runs the pipeline for the q and tag query parameters.
func (s *Server) runFromQuery(c *gin.Context) (search.FilterResult, error) {
	tags := search.TagSet{}
	for _, expr := range c.QueryArray("tag") {
		tag, err := core.ParseTag(expr)
		if err != nil {
			return search.FilterResult{}, err
		}
		tags = tags.Add(tag)
	}
	return search.Run(s.catalog, c.Query("q"), tags), nil
}

// searchRecipes handles GET /api/v1/recipes?q=...&tag=type:value
func (s *Server) searchRecipes(c *gin.Context) {
	result, err := s.runFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(c, err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse(c, "recipes found", newSearchView(result, s.descriptionLimit)))
}

// getRecipe handles GET /api/v1/recipes/:id
func (s *Server) getRecipe(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(c, "invalid recipe id"))
		return
	}
	recipe, ok := s.catalog.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse(c, "recipe not found"))
		return
	}
	c.JSON(http.StatusOK, successResponse(c, "recipe found", newRecipeView(recipe, s.descriptionLimit)))
}

// facetOptions handles GET /api/v1/facets/:type?q=...&tag=...&filter=...
func (s *Server) facetOptions(c *gin.Context) {
	t, err := core.ParseFacetType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusNotFound, errorResponse(c, err.Error()))
		return
	}
	result, err := s.runFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(c, err.Error()))
		return
	}
	c.JSON(http.StatusOK, successResponse(c, "facet options", gin.H{
		"type":    t,
		"options": search.FacetOptions(result, t, c.Query("filter")),
	}))
}
