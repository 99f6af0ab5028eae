// Package catalog holds the immutable, normalized recipe set the search
// engine filters.
//
// A Catalog is built once from raw records and never mutated afterwards, so
// it can be shared freely between engines and goroutines.
package catalog

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/poiesic/larder/core"
)

// Catalog is an ordered, read-only set of recipes.
type Catalog struct {
	recipes     []*core.Recipe
	byID        map[int]*core.Recipe
	fingerprint core.ID
}

// Load validates and normalizes raw records into a Catalog. It fails on the
// first malformed record, reporting it as a *core.MalformedRecipeError.
// Catalog order is input order.
func Load(raw []core.RawRecipe) (*Catalog, error) {
	recipes := make([]*core.Recipe, len(raw))
	for i := range raw {
		if err := core.ValidateRawRecipe(i, &raw[i]); err != nil {
			return nil, err
		}
		recipes[i] = core.NewRecipe(raw[i])
	}
	return Build(recipes)
}

// Build assembles a Catalog from already-normalized recipes. Identifiers must
// be unique.
func Build(recipes []*core.Recipe) (*Catalog, error) {
	c := &Catalog{
		recipes: slices.Clone(recipes),
		byID:    make(map[int]*core.Recipe, len(recipes)),
	}
	for i, r := range c.recipes {
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("%w: %w", core.ErrDuplicateRecipeID,
				&core.MalformedRecipeError{Index: i, ID: r.ID, Field: "id", Reason: "duplicate"})
		}
		c.byID[r.ID] = r
	}
	c.fingerprint = fingerprint(c.recipes)
	return c, nil
}

// Recipes returns the recipes in catalog order. The slice is a copy; the
// recipes themselves are shared and must not be modified.
func (c *Catalog) Recipes() []*core.Recipe {
	return slices.Clone(c.recipes)
}

// Len returns the number of recipes.
func (c *Catalog) Len() int {
	return len(c.recipes)
}

// Get returns the recipe with the given identifier.
func (c *Catalog) Get(id int) (*core.Recipe, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Fingerprint is a content hash of the normalized catalog, including order.
func (c *Catalog) Fingerprint() core.ID {
	return c.fingerprint
}

func fingerprint(recipes []*core.Recipe) core.ID {
	var b strings.Builder
	for _, r := range recipes {
		b.WriteString(strconv.Itoa(r.ID))
		b.WriteByte(0)
		b.WriteString(r.Name)
		b.WriteByte(0)
		b.WriteString(r.Description)
		b.WriteByte(0)
		b.WriteString(strconv.Itoa(r.Time))
		b.WriteByte(0)
		b.WriteString(strconv.Itoa(r.Servings))
		b.WriteByte(0)
		b.WriteString(r.Appliance)
		b.WriteByte(0)
		b.WriteString(strings.Join(r.Utensils, "\x01"))
		b.WriteByte(0)
		for _, ing := range r.Ingredients {
			b.WriteString(ing.String())
			b.WriteByte(1)
		}
		b.WriteByte(0)
	}
	return core.IDFromContent(b.String())
}
