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
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrMalformedRecipe indicates a raw recipe record failed validation.
	ErrMalformedRecipe = errors.New("malformed recipe")

	// ErrDuplicateRecipeID indicates two raw records share an identifier.
	ErrDuplicateRecipeID = errors.New("duplicate recipe id")

	// ErrInvalidFacetType indicates a facet type name is not recognized.
	ErrInvalidFacetType = errors.New("invalid facet type")

	// ErrInvalidTag indicates a tag expression could not be parsed.
	ErrInvalidTag = errors.New("invalid tag")
)

// MalformedRecipeError identifies the offending raw record and field.
// It wraps ErrMalformedRecipe so callers can test with errors.Is.
type MalformedRecipeError struct {
	Index  int    // position of the record in the raw input
	ID     int    // identifier as supplied (may be zero when missing)
	Field  string // raw field name, e.g. "appliance" or "ingredients[2].ingredient"
	Reason string // "missing", "must be positive", ...
}

func (e *MalformedRecipeError) Error() string {
	return fmt.Sprintf("%s #%d (id %d): %s %s", ErrMalformedRecipe, e.Index, e.ID, e.Field, e.Reason)
}

func (e *MalformedRecipeError) Unwrap() error {
	return ErrMalformedRecipe
}
