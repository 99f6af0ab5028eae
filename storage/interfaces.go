package storage

import (
	"context"

	"github.com/poiesic/larder/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// Repository calls made with the context passed to fn take part in the
	// transaction: if fn returns an error their writes are discarded, if fn
	// returns nil they are committed together. The context carries the
	// transaction and must not be used from more than one goroutine.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// RecipeRepository stores raw recipe records in insertion order.
type RecipeRepository interface {
	Repository
	// AddRecipes appends recipes after the ones already stored.
	// Returns ErrDuplicateKey if any recipe ID is already stored or repeated
	// within the batch; nothing is written in that case.
	AddRecipes(ctx context.Context, recipes ...*core.RawRecipe) error

	// ReplaceRecipes atomically removes every stored recipe and stores recipes
	// in their place.
	ReplaceRecipes(ctx context.Context, recipes ...*core.RawRecipe) error

	// GetRecipe retrieves a single recipe by ID.
	// Returns ErrNotFound if the recipe doesn't exist.
	GetRecipe(ctx context.Context, id int) (*core.RawRecipe, error)

	// ListRecipes returns every stored recipe in insertion order.
	ListRecipes(ctx context.Context) ([]*core.RawRecipe, error)

	// DeleteRecipes removes recipes by their IDs.
	// Returns ErrNotFound if any recipe doesn't exist.
	DeleteRecipes(ctx context.Context, ids ...int) error

	// CountRecipes returns the number of stored recipes.
	CountRecipes(ctx context.Context) (int, error)
}

// CheckpointRepository tracks the last import into each named catalog.
type CheckpointRepository interface {
	// SaveCheckpoint stores a checkpoint, replacing any previous one with the
	// same name.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint with the given name.
	// Returns ErrNotFound if none was saved.
	LoadCheckpoint(ctx context.Context, name string) (*core.Checkpoint, error)
}
