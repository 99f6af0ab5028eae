package core

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// FacetType identifies one of the three tag categories.
type FacetType string

const (
	FacetIngredients FacetType = "ingredients"
	FacetUtensils    FacetType = "utensils"
	FacetAppliances  FacetType = "appliances"
)

// FacetTypes lists every facet type in display order.
var FacetTypes = []FacetType{FacetIngredients, FacetUtensils, FacetAppliances}

// facetNames maps accepted spellings to facet types. The raw data source
// spells utensils "ustensils".
var facetNames = map[string]FacetType{
	"ingredients": FacetIngredients,
	"ingredient":  FacetIngredients,
	"utensils":    FacetUtensils,
	"utensil":     FacetUtensils,
	"ustensils":   FacetUtensils,
	"ustensil":    FacetUtensils,
	"appliances":  FacetAppliances,
	"appliance":   FacetAppliances,
}

// ParseFacetType converts a facet name to a FacetType.
func ParseFacetType(name string) (FacetType, error) {
	if t, ok := facetNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFacetType, name)
}

// Valid reports whether t is one of the known facet types.
func (t FacetType) Valid() bool {
	switch t {
	case FacetIngredients, FacetUtensils, FacetAppliances:
		return true
	}
	return false
}

// Normalize returns the canonical form of a facet value: trimmed and lowercased.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// RawIngredient is an ingredient line as supplied by the data source.
type RawIngredient struct {
	Ingredient string  `json:"ingredient" yaml:"ingredient"`
	Quantity   float64 `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Unit       string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// RawRecipe is a recipe record as supplied by the data source.
type RawRecipe struct {
	ID          int             `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Servings    int             `json:"servings" yaml:"servings"`
	Time        int             `json:"time" yaml:"time"`
	Description string          `json:"description" yaml:"description"`
	Appliance   string          `json:"appliance" yaml:"appliance"`
	Ustensils   []string        `json:"ustensils" yaml:"ustensils"`
	Ingredients []RawIngredient `json:"ingredients" yaml:"ingredients"`
}

// Ingredient is a normalized ingredient. Only Name takes part in matching;
// a zero Quantity means none was given.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     string
}

// String renders the ingredient as a display line, e.g. "farine: 250 g".
func (i Ingredient) String() string {
	if i.Quantity == 0 {
		return i.Name
	}
	line := i.Name + ": " + strconv.FormatFloat(i.Quantity, 'f', -1, 64)
	if i.Unit != "" {
		line += " " + i.Unit
	}
	return line
}

// Recipe is a normalized, immutable recipe.
type Recipe struct {
	ID          int
	Name        string
	Description string
	Time        int // minutes
	Servings    int
	Appliance   string
	Utensils    []string
	Ingredients []Ingredient
}

// Duration returns the preparation time as a time.Duration.
func (r *Recipe) Duration() time.Duration {
	return time.Duration(r.Time) * time.Minute
}

// ShortDescription caps the description at limit characters, cutting on the
// last space and appending an ellipsis. A non-positive limit disables the cap.
func (r *Recipe) ShortDescription(limit int) string {
	runes := []rune(r.Description)
	if limit <= 0 || len(runes) <= limit {
		return r.Description
	}
	cut := string(runes[:limit-1])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return cut + " …"
}

// NewRecipe builds a normalized Recipe from a raw record. The record is not
// validated; use ValidateRawRecipe first.
func NewRecipe(raw RawRecipe) *Recipe {
	r := &Recipe{
		ID:          raw.ID,
		Name:        strings.TrimSpace(raw.Name),
		Description: strings.TrimSpace(raw.Description),
		Time:        raw.Time,
		Servings:    raw.Servings,
		Appliance:   Normalize(raw.Appliance),
		Utensils:    make([]string, 0, len(raw.Ustensils)),
		Ingredients: make([]Ingredient, 0, len(raw.Ingredients)),
	}
	for _, u := range raw.Ustensils {
		r.Utensils = append(r.Utensils, Normalize(u))
	}
	for _, ing := range raw.Ingredients {
		r.Ingredients = append(r.Ingredients, Ingredient{
			Name:     Normalize(ing.Ingredient),
			Quantity: ing.Quantity,
			Unit:     strings.TrimSpace(ing.Unit),
		})
	}
	return r
}

// Tag is a facet selection. Two tags are equal iff Type and Value match.
type Tag struct {
	Type  FacetType
	Value string
}

// NewTag creates a tag with a normalized value.
func NewTag(t FacetType, value string) Tag {
	return Tag{Type: t, Value: Normalize(value)}
}

// String returns "type:value".
func (t Tag) String() string {
	return string(t.Type) + ":" + t.Value
}

// ParseTag parses "type:value" or "type=value". The type accepts the
// spellings ParseFacetType does; the value is normalized and must not be
// empty.
func ParseTag(expr string) (Tag, error) {
	i := strings.IndexAny(expr, ":=")
	if i < 0 {
		return Tag{}, fmt.Errorf("%w: %q: want type:value", ErrInvalidTag, expr)
	}
	t, err := ParseFacetType(expr[:i])
	if err != nil {
		return Tag{}, fmt.Errorf("%w: %w", ErrInvalidTag, err)
	}
	tag := NewTag(t, expr[i+1:])
	if err := ValidateTag(tag); err != nil {
		return Tag{}, err
	}
	return tag, nil
}

// Checkpoint records the last import into a named catalog.
type Checkpoint struct {
	Name        string // catalog name, the checkpoint key
	Source      string // file or label the records came from
	Fingerprint ID
	Count       int
	UpdatedAt   time.Time
}
