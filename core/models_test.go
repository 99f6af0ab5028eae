package core

import (
	"errors"
	"testing"
	"time"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "tarte aux pommes"},
		{name: "empty string", content: ""},
		{name: "long content", content: "Mélanger la farine, le beurre et les pommes puis enfourner quarante minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)
			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	if IDFromContent("content1") == IDFromContent("content2") {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestParseFacetType(t *testing.T) {
	tests := []struct {
		input   string
		want    FacetType
		wantErr bool
	}{
		{input: "ingredients", want: FacetIngredients},
		{input: "Ingredient", want: FacetIngredients},
		{input: "utensils", want: FacetUtensils},
		{input: "ustensils", want: FacetUtensils},
		{input: " appliance ", want: FacetAppliances},
		{input: "tools", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFacetType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFacetType) {
					t.Errorf("ParseFacetType(%q) error = %v, want %v", tt.input, err, ErrInvalidFacetType)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFacetType(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseFacetType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewRecipe_Normalizes(t *testing.T) {
	raw := RawRecipe{
		ID:          7,
		Name:        "  Tarte aux pommes ",
		Servings:    4,
		Time:        45,
		Description: "Une tarte.",
		Appliance:   " Four",
		Ustensils:   []string{"Moule à tarte", "ROULEAU"},
		Ingredients: []RawIngredient{
			{Ingredient: "Pomme", Quantity: 3},
			{Ingredient: "Farine", Quantity: 250, Unit: " grammes "},
		},
	}

	r := NewRecipe(raw)

	if r.Name != "Tarte aux pommes" {
		t.Errorf("Name = %q", r.Name)
	}
	if r.Appliance != "four" {
		t.Errorf("Appliance = %q, want %q", r.Appliance, "four")
	}
	if r.Utensils[0] != "moule à tarte" || r.Utensils[1] != "rouleau" {
		t.Errorf("Utensils = %v", r.Utensils)
	}
	if r.Ingredients[0].Name != "pomme" || r.Ingredients[1].Name != "farine" {
		t.Errorf("Ingredients = %v", r.Ingredients)
	}
	if r.Ingredients[1].Unit != "grammes" {
		t.Errorf("Unit = %q", r.Ingredients[1].Unit)
	}
	if r.Duration() != 45*time.Minute {
		t.Errorf("Duration() = %v", r.Duration())
	}

	// The raw record must not be aliased.
	raw.Ustensils[0] = "changed"
	if r.Utensils[0] != "moule à tarte" {
		t.Errorf("recipe aliases raw utensils")
	}
}

func TestIngredient_String(t *testing.T) {
	tests := []struct {
		name string
		ing  Ingredient
		want string
	}{
		{name: "name only", ing: Ingredient{Name: "sel"}, want: "sel"},
		{name: "quantity without unit", ing: Ingredient{Name: "oeuf", Quantity: 2}, want: "oeuf: 2"},
		{name: "quantity with unit", ing: Ingredient{Name: "lait", Quantity: 0.5, Unit: "litre"}, want: "lait: 0.5 litre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ing.String(); got != tt.want {
				t.Errorf("Ingredient.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecipe_ShortDescription(t *testing.T) {
	r := &Recipe{Description: "Mettre le lait dans une casserole et porter à ébullition"}

	if got := r.ShortDescription(0); got != r.Description {
		t.Errorf("ShortDescription(0) = %q, want full description", got)
	}
	if got := r.ShortDescription(200); got != r.Description {
		t.Errorf("ShortDescription(200) = %q, want full description", got)
	}
	if got := r.ShortDescription(20); got != "Mettre le lait …" {
		t.Errorf("ShortDescription(20) = %q", got)
	}
}

func TestNewTag(t *testing.T) {
	tag := NewTag(FacetIngredients, "  Coco ")
	if tag.Value != "coco" {
		t.Errorf("NewTag value = %q, want %q", tag.Value, "coco")
	}
	if tag.String() != "ingredients:coco" {
		t.Errorf("Tag.String() = %q", tag.String())
	}
	if tag != NewTag(FacetIngredients, "COCO") {
		t.Errorf("tags with same type and value must be equal")
	}
	if tag == NewTag(FacetUtensils, "coco") {
		t.Errorf("tags with different types must differ")
	}
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		expr    string
		want    Tag
		wantErr bool
	}{
		{"ingredients:Coco", Tag{Type: FacetIngredients, Value: "coco"}, false},
		{"appliance=Four", Tag{Type: FacetAppliances, Value: "four"}, false},
		{"ustensils: Cuillère à Soupe ", Tag{Type: FacetUtensils, Value: "cuillère à soupe"}, false},
		{"ingredients:lait:entier", Tag{Type: FacetIngredients, Value: "lait:entier"}, false},
		{"ingredients", Tag{}, true},
		{"ingredients:", Tag{}, true},
		{"colors:red", Tag{}, true},
		{"", Tag{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseTag(tt.expr)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTag) {
					t.Errorf("ParseTag(%q) error = %v, want ErrInvalidTag", tt.expr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTag(%q) unexpected error: %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("ParseTag(%q) = %+v, want %+v", tt.expr, got, tt.want)
			}
		})
	}
}
