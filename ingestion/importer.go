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

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/larder/catalog"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/storage"
)

// DefaultCheckpointName is the checkpoint an Importer records imports under.
const DefaultCheckpointName = "catalog"

// DefaultReportInterval is how many validated records pass between progress
// log lines.
const DefaultReportInterval = 1000

// Importer validates recipe catalogs and stores them.
type Importer struct {
	recipeRepository     storage.RecipeRepository
	checkpointRepository storage.CheckpointRepository
	pool                 *ants.Pool
	checkpointName       string
	reportInterval       int
	logger               *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer) error

// WithPoolSize sets the worker pool size for concurrent validation.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(imp *Importer) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if imp.pool != nil {
			imp.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		imp.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(imp *Importer) error {
		if logger == nil {
			logger = slog.Default()
		}
		imp.logger = logger
		return nil
	}
}

// WithCheckpointName sets the checkpoint imports are recorded under.
// Default is DefaultCheckpointName.
func WithCheckpointName(name string) Option {
	return func(imp *Importer) error {
		if name == "" {
			name = DefaultCheckpointName
		}
		imp.checkpointName = name
		return nil
	}
}

// WithReportInterval logs validation progress every n records. Zero or
// negative disables progress logging. Default is DefaultReportInterval.
func WithReportInterval(n int) Option {
	return func(imp *Importer) error {
		imp.reportInterval = n
		return nil
	}
}

// NewImporter creates a new Importer. Call Release when done.
func NewImporter(
	recipeRepository storage.RecipeRepository,
	checkpointRepository storage.CheckpointRepository,
	opts ...Option,
) (*Importer, error) {
	if recipeRepository == nil {
		return nil, ErrRecipeRepositoryRequired
	}
	if checkpointRepository == nil {
		return nil, ErrCheckpointRepositoryRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	imp := &Importer{
		recipeRepository:     recipeRepository,
		checkpointRepository: checkpointRepository,
		pool:                 pool,
		checkpointName:       DefaultCheckpointName,
		reportInterval:       DefaultReportInterval,
		logger:               slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(imp); optErr != nil {
			imp.Release()
			return nil, optErr
		}
	}

	return imp, nil
}

// Release releases the worker pool.
func (imp *Importer) Release() {
	if imp.pool != nil {
		imp.pool.Release()
	}
}

// ImportOptions holds optional parameters for an import.
type ImportOptions struct {
	Force bool // store even when the checkpoint says nothing changed
}

// ImportResult describes a finished import.
type ImportResult struct {
	RunID       string  // unique per Import call, for log correlation
	Source      string  // as passed to Import
	Count       int     // records in the catalog
	Fingerprint core.ID // catalog content hash
	Skipped     bool    // true when the stored catalog was already current
}

// Validate checks every record on the worker pool. When several records are
// malformed, the error for the lowest index is returned.
func (imp *Importer) Validate(ctx context.Context, records []core.RawRecipe) error {
	errs := make([]error, len(records))
	progress := newProgressTracker(imp.logger, len(records), imp.reportInterval)
	var wg sync.WaitGroup

	for i := range records {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		submitErr := imp.pool.Submit(func() {
			defer wg.Done()
			errs[i] = core.ValidateRawRecipe(i, &records[i])
			progress.increment()
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return submitErr
		}
	}
	wg.Wait()
	progress.finish()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Import validates records and stores them as the current catalog, replacing
// whatever was stored before. Nothing is written when validation fails. An
// import whose fingerprint matches the last checkpoint is skipped unless
// opts.Force is set.
func (imp *Importer) Import(ctx context.Context, source string, records []core.RawRecipe, opts *ImportOptions) (*ImportResult, error) {
	if opts == nil {
		opts = &ImportOptions{}
	}

	result := &ImportResult{
		RunID:  ulid.Make().String(),
		Source: source,
		Count:  len(records),
	}
	logger := imp.logger.With("run", result.RunID, "source", source)

	if err := imp.Validate(ctx, records); err != nil {
		logger.Error("catalog rejected", "err", err)
		return nil, err
	}

	recipes := make([]*core.Recipe, len(records))
	for i := range records {
		recipes[i] = core.NewRecipe(records[i])
	}
	cat, err := catalog.Build(recipes)
	if err != nil {
		logger.Error("catalog rejected", "err", err)
		return nil, err
	}
	result.Fingerprint = cat.Fingerprint()

	if !opts.Force {
		current, err := imp.isCurrent(ctx, result)
		if err != nil {
			return nil, err
		}
		if current {
			result.Skipped = true
			logger.Info("catalog unchanged, skipping", "recipes", result.Count)
			return result, nil
		}
	}

	stored := make([]*core.RawRecipe, len(records))
	for i := range records {
		stored[i] = &records[i]
	}

	checkpoint := &core.Checkpoint{
		Name:        imp.checkpointName,
		Source:      source,
		Fingerprint: result.Fingerprint,
		Count:       result.Count,
	}

	// Recipes and checkpoint commit together or not at all.
	err = imp.recipeRepository.WithTransaction(ctx, func(ctx context.Context) error {
		if err := imp.recipeRepository.ReplaceRecipes(ctx, stored...); err != nil {
			return fmt.Errorf("storing recipes: %w", err)
		}
		if err := imp.checkpointRepository.SaveCheckpoint(ctx, checkpoint); err != nil {
			return fmt.Errorf("saving checkpoint: %w", err)
		}
		return nil
	})
	if err != nil {
		logger.Error("import failed", "err", err)
		return nil, err
	}

	logger.Info("catalog imported", "recipes", result.Count, "fingerprint", fmt.Sprintf("%016x", uint64(result.Fingerprint)))
	return result, nil
}

// ImportFile decodes a catalog file and imports it with the path as source.
func (imp *Importer) ImportFile(ctx context.Context, path string, opts *ImportOptions) (*ImportResult, error) {
	records, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return imp.Import(ctx, path, records, opts)
}

// isCurrent reports whether the stored catalog already matches result.
func (imp *Importer) isCurrent(ctx context.Context, result *ImportResult) (bool, error) {
	checkpoint, err := imp.checkpointRepository.LoadCheckpoint(ctx, imp.checkpointName)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if checkpoint.Fingerprint != result.Fingerprint || checkpoint.Count != result.Count {
		return false, nil
	}

	// Recipes may have been edited without going through the importer.
	count, err := imp.recipeRepository.CountRecipes(ctx)
	if err != nil {
		return false, err
	}
	return count == result.Count, nil
}
