package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/storage"
)

// RecipeRepository implements storage.RecipeRepository for BadgerDB.
//
// Each recipe is stored under a position drawn from a sequence, with a
// secondary index from recipe ID to position. Scanning the position prefix
// returns recipes in insertion order.
type RecipeRepository struct {
	backend *Backend
	posSeq  *badger.Sequence
}

var _ storage.RecipeRepository = (*RecipeRepository)(nil)

// NewRecipeRepository creates a new RecipeRepository.
func NewRecipeRepository(backend *Backend) (*RecipeRepository, error) {
	posSeq, err := backend.GetSequence(recipeSeq)
	if err != nil {
		return nil, err
	}

	return &RecipeRepository{
		backend: backend,
		posSeq:  posSeq,
	}, nil
}

// Close releases the position sequence.
func (r *RecipeRepository) Close() error {
	return r.posSeq.Release()
}

// WithTransaction delegates to the backend. Other repositories on the same
// backend join the transaction too.
func (r *RecipeRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddRecipes appends recipes after the ones already stored.
func (r *RecipeRepository) AddRecipes(ctx context.Context, recipes ...*core.RawRecipe) error {
	return r.backend.update(ctx, func(tx *badger.Txn) error {
		return r.addRecipes(ctx, tx, recipes)
	})
}

// ReplaceRecipes removes every stored recipe and stores recipes in their
// place, in one transaction.
func (r *RecipeRepository) ReplaceRecipes(ctx context.Context, recipes ...*core.RawRecipe) error {
	return r.backend.update(ctx, func(tx *badger.Txn) error {
		for _, prefix := range []string{recipePrefix, recipeIDPrefix} {
			keys, err := collectKeys(tx, prefix)
			if err != nil {
				return err
			}
			for _, key := range keys {
				if err := tx.Delete(key); err != nil {
					return err
				}
			}
		}
		return r.addRecipes(ctx, tx, recipes)
	})
}

func (r *RecipeRepository) addRecipes(ctx context.Context, tx *badger.Txn, recipes []*core.RawRecipe) error {
	seen := make(map[int]struct{}, len(recipes))
	for _, recipe := range recipes {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Reject IDs repeated within the batch or already stored
		if _, dup := seen[recipe.ID]; dup {
			return fmt.Errorf("%w: recipe %d", storage.ErrDuplicateKey, recipe.ID)
		}
		seen[recipe.ID] = struct{}{}
		_, found, err := readPosition(tx, recipe.ID)
		if err != nil {
			return err
		}
		if found {
			return fmt.Errorf("%w: recipe %d", storage.ErrDuplicateKey, recipe.ID)
		}

		pos, err := r.nextPosition()
		if err != nil {
			return err
		}
		if err := tx.Set(makeRecipeKey(pos), storage.MarshalRawRecipe(recipe)); err != nil {
			return err
		}
		if err := tx.Set(makeRecipeIDKey(recipe.ID), storage.MarshalID(core.ID(pos))); err != nil {
			return err
		}
	}
	return nil
}

// nextPosition returns the next storage position.
func (r *RecipeRepository) nextPosition() (uint64, error) {
	pos, err := r.posSeq.Next()
	if err != nil {
		return 0, err
	}
	// BadgerDB sequences can return 0 on first call, so we skip it
	if pos == 0 {
		return r.posSeq.Next()
	}
	return pos, nil
}

// GetRecipe retrieves a single recipe by ID.
func (r *RecipeRepository) GetRecipe(ctx context.Context, id int) (*core.RawRecipe, error) {
	var result *core.RawRecipe
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		pos, found, err := readPosition(tx, id)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("%w: recipe %d", storage.ErrNotFound, id)
		}
		item, err := tx.Get(makeRecipeKey(pos))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalRawRecipe(val)
			return err
		})
	})
	return result, err
}

// ListRecipes returns every stored recipe in insertion order.
func (r *RecipeRepository) ListRecipes(ctx context.Context) ([]*core.RawRecipe, error) {
	results := []*core.RawRecipe{}
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(recipePrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				recipe, err := storage.UnmarshalRawRecipe(val)
				if err != nil {
					return err
				}
				results = append(results, recipe)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteRecipes removes recipes by their IDs.
func (r *RecipeRepository) DeleteRecipes(ctx context.Context, ids ...int) error {
	return r.backend.update(ctx, func(tx *badger.Txn) error {
		for _, id := range ids {
			pos, found, err := readPosition(tx, id)
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%w: recipe %d", storage.ErrNotFound, id)
			}
			if err := tx.Delete(makeRecipeKey(pos)); err != nil {
				return err
			}
			if err := tx.Delete(makeRecipeIDKey(id)); err != nil {
				return err
			}
		}
		return nil
	})
}

// CountRecipes returns the number of stored recipes.
func (r *RecipeRepository) CountRecipes(ctx context.Context) (int, error) {
	var count int
	err := r.backend.view(ctx, func(tx *badger.Txn) error {
		keys, err := collectKeys(tx, recipeIDPrefix)
		count = len(keys)
		return err
	})
	return count, err
}

// readPosition looks up the storage position of a recipe ID.
func readPosition(tx *badger.Txn, id int) (uint64, bool, error) {
	item, err := tx.Get(makeRecipeIDKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	var pos core.ID
	err = item.Value(func(val []byte) error {
		pos, err = storage.UnmarshalID(val)
		return err
	})
	if err != nil {
		return 0, false, err
	}
	return uint64(pos), true, nil
}

// collectKeys returns copies of every key under prefix.
func collectKeys(tx *badger.Txn, prefix string) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var keys [][]byte
	for iter.Rewind(); iter.Valid(); iter.Next() {
		keys = append(keys, iter.Item().KeyCopy(nil))
	}
	return keys, nil
}
