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

// Package larder wires recipe storage, catalog import and faceted search
// together behind a single Database handle.
package larder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/larder/catalog"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/ingestion"
	"github.com/poiesic/larder/search"
	"github.com/poiesic/larder/storage"
	"github.com/poiesic/larder/storage/badger"
)

type Database struct {
	backend        *badger.Backend
	recipeRepo     *badger.RecipeRepository
	checkpointRepo storage.CheckpointRepository
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// WithInMemory keeps the database in memory; the path is ignored.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// WithLogger sets the logger for the database and everything it creates.
func WithLogger(logger *slog.Logger) DatabaseOption {
	return func(o *databaseOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackendWithLogger(filePath, options.inMemory, options.logger)
	if err != nil {
		return nil, err
	}

	// Create recipe repository
	recipeRepo, err := badger.NewRecipeRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	return &Database{
		backend:        backend,
		recipeRepo:     recipeRepo,
		checkpointRepo: badger.NewCheckpointRepository(backend),
		logger:         options.logger,
	}, nil
}

func (db *Database) Close() error {
	if err := db.recipeRepo.Close(); err != nil {
		db.logger.Error("error closing recipe repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) RecipeRepository() storage.RecipeRepository {
	return db.recipeRepo
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpointRepo
}

// NewImporter creates an importer writing to this database. The caller
// releases it.
func (db *Database) NewImporter(opts ...ingestion.Option) (*ingestion.Importer, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(db.logger)}, opts...)
	return ingestion.NewImporter(db.recipeRepo, db.checkpointRepo, opts...)
}

// LoadCatalog builds a catalog from the stored recipes, revalidating them.
func (db *Database) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	stored, err := db.recipeRepo.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	raw := make([]core.RawRecipe, len(stored))
	for i, r := range stored {
		raw[i] = *r
	}
	cat, err := catalog.Load(raw)
	if err != nil {
		return nil, fmt.Errorf("stored catalog: %w", err)
	}
	db.logger.Debug("catalog loaded", "recipes", cat.Len())
	return cat, nil
}

// NewEngine loads the stored catalog and starts a search session over it.
func (db *Database) NewEngine(ctx context.Context, opts ...search.Option) (*search.Engine, error) {
	cat, err := db.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	opts = append([]search.Option{search.WithLogger(db.logger)}, opts...)
	return search.NewEngine(cat, opts...)
}
