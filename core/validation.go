// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strings"
)

// ValidateRawRecipe validates a raw record according to domain rules.
// index is the record's position in the raw input and is reported back in
// the returned *MalformedRecipeError.
//
// Validation rules:
//   - ID must be positive
//   - Name and Appliance must not be blank
//   - Time and Servings must be positive
//   - every utensil must be non-blank
//   - at least one ingredient, each with a non-blank name and a
//     non-negative quantity
//
// NOT validated:
//   - Description (may be empty)
//   - Unit (free text)
func ValidateRawRecipe(index int, raw *RawRecipe) error {
	if raw == nil {
		return &MalformedRecipeError{Index: index, Field: "record", Reason: "missing"}
	}

	fail := func(field, reason string) error {
		return &MalformedRecipeError{Index: index, ID: raw.ID, Field: field, Reason: reason}
	}

	if raw.ID <= 0 {
		return fail("id", "missing")
	}
	if strings.TrimSpace(raw.Name) == "" {
		return fail("name", "missing")
	}
	if raw.Time <= 0 {
		return fail("time", "must be positive")
	}
	if raw.Servings <= 0 {
		return fail("servings", "must be positive")
	}
	if strings.TrimSpace(raw.Appliance) == "" {
		return fail("appliance", "missing")
	}
	for i, u := range raw.Ustensils {
		if strings.TrimSpace(u) == "" {
			return fail(fmt.Sprintf("ustensils[%d]", i), "missing")
		}
	}
	if len(raw.Ingredients) == 0 {
		return fail("ingredients", "missing")
	}
	for i, ing := range raw.Ingredients {
		if strings.TrimSpace(ing.Ingredient) == "" {
			return fail(fmt.Sprintf("ingredients[%d].ingredient", i), "missing")
		}
		if ing.Quantity < 0 {
			return fail(fmt.Sprintf("ingredients[%d].quantity", i), "must not be negative")
		}
	}

	return nil
}

// ValidateTag validates that a tag has a known facet type and a value.
// Errors wrap ErrInvalidTag.
func ValidateTag(tag Tag) error {
	if !tag.Type.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidTag, ErrInvalidFacetType, tag.Type)
	}
	if tag.Value == "" {
		return fmt.Errorf("%w: %s: empty value", ErrInvalidTag, tag.Type)
	}
	return nil
}
