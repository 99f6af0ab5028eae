package ingestion

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/storage"
	"github.com/poiesic/larder/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepositories(t *testing.T) (storage.RecipeRepository, storage.CheckpointRepository) {
	recipeRepo, checkpointRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		recipeRepo.Close()
		backend.Close()
	})
	return recipeRepo, checkpointRepo
}

func setupTestImporter(t *testing.T, opts ...Option) (*Importer, storage.RecipeRepository, storage.CheckpointRepository) {
	recipeRepo, checkpointRepo := setupTestRepositories(t)
	imp, err := NewImporter(recipeRepo, checkpointRepo, opts...)
	require.NoError(t, err)
	t.Cleanup(imp.Release)
	return imp, recipeRepo, checkpointRepo
}

func testRecords(n int) []core.RawRecipe {
	records := make([]core.RawRecipe, n)
	for i := range records {
		records[i] = core.RawRecipe{
			ID:          i + 1,
			Name:        "Recette",
			Servings:    2,
			Time:        15,
			Appliance:   "Four",
			Ustensils:   []string{"Moule"},
			Ingredients: []core.RawIngredient{{Ingredient: "Farine", Quantity: 100, Unit: "g"}},
		}
	}
	return records
}

func TestNewImporter_RequiresRepositories(t *testing.T) {
	recipeRepo, checkpointRepo := setupTestRepositories(t)

	_, err := NewImporter(nil, checkpointRepo)
	assert.ErrorIs(t, err, ErrRecipeRepositoryRequired)

	_, err = NewImporter(recipeRepo, nil)
	assert.ErrorIs(t, err, ErrCheckpointRepositoryRequired)
}

func TestImporter_Validate_LowestIndexWins(t *testing.T) {
	imp, _, _ := setupTestImporter(t, WithPoolSize(4))

	records := testRecords(200)
	records[150].Appliance = ""
	records[37].Time = 0
	records[90].Ingredients = nil

	// Scheduling must not change which error is reported.
	for range 10 {
		err := imp.Validate(context.Background(), records)
		require.ErrorIs(t, err, core.ErrMalformedRecipe)

		var malformed *core.MalformedRecipeError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 37, malformed.Index)
		assert.Equal(t, "time", malformed.Field)
	}
}

func TestImporter_Validate_Canceled(t *testing.T) {
	imp, _, _ := setupTestImporter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := imp.Validate(ctx, testRecords(3))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestImporter_Import(t *testing.T) {
	imp, recipeRepo, checkpointRepo := setupTestImporter(t)
	ctx := context.Background()

	result, err := imp.Import(ctx, "test", testRecords(5), nil)
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 5, result.Count)
	assert.Equal(t, "test", result.Source)
	assert.NotEmpty(t, result.RunID)
	assert.NotZero(t, result.Fingerprint)

	count, err := recipeRepo.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	checkpoint, err := checkpointRepo.LoadCheckpoint(ctx, DefaultCheckpointName)
	require.NoError(t, err)
	assert.Equal(t, result.Fingerprint, checkpoint.Fingerprint)
	assert.Equal(t, "test", checkpoint.Source)
	assert.Equal(t, 5, checkpoint.Count)
}

func TestImporter_Import_SkipsUnchanged(t *testing.T) {
	imp, recipeRepo, _ := setupTestImporter(t)
	ctx := context.Background()

	first, err := imp.Import(ctx, "a.json", testRecords(3), nil)
	require.NoError(t, err)

	second, err := imp.Import(ctx, "b.json", testRecords(3), nil)
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.NotEqual(t, first.RunID, second.RunID)

	forced, err := imp.Import(ctx, "b.json", testRecords(3), &ImportOptions{Force: true})
	require.NoError(t, err)
	assert.False(t, forced.Skipped)

	// A stored catalog changed behind the importer's back is re-imported.
	require.NoError(t, recipeRepo.DeleteRecipes(ctx, 1))
	again, err := imp.Import(ctx, "b.json", testRecords(3), nil)
	require.NoError(t, err)
	assert.False(t, again.Skipped)
}

func TestImporter_Import_ReplacesPreviousCatalog(t *testing.T) {
	imp, recipeRepo, _ := setupTestImporter(t)
	ctx := context.Background()

	_, err := imp.Import(ctx, "a", testRecords(4), nil)
	require.NoError(t, err)

	records := testRecords(2)
	records[1].Name = "Autre"
	_, err = imp.Import(ctx, "a", records, nil)
	require.NoError(t, err)

	stored, err := recipeRepo.ListRecipes(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "Autre", stored[1].Name)
}

func TestImporter_Import_RejectsMalformed(t *testing.T) {
	imp, recipeRepo, checkpointRepo := setupTestImporter(t)
	ctx := context.Background()

	_, err := imp.Import(ctx, "a", testRecords(2), nil)
	require.NoError(t, err)

	bad := testRecords(3)
	bad[2].Ustensils = []string{"  "}
	_, err = imp.Import(ctx, "a", bad, nil)
	assert.ErrorIs(t, err, core.ErrMalformedRecipe)

	dup := testRecords(3)
	dup[2].ID = 1
	_, err = imp.Import(ctx, "a", dup, nil)
	assert.ErrorIs(t, err, core.ErrDuplicateRecipeID)

	// Nothing changed in storage.
	count, err := recipeRepo.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	checkpoint, err := checkpointRepo.LoadCheckpoint(ctx, DefaultCheckpointName)
	require.NoError(t, err)
	assert.Equal(t, 2, checkpoint.Count)
}

func TestImporter_ImportFile(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	imp, recipeRepo, _ := setupTestImporter(t, WithLogger(logger), WithCheckpointName("main"))
	ctx := context.Background()

	result, err := imp.ImportFile(ctx, "testdata/recipes.yaml", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "testdata/recipes.yaml", result.Source)
	assert.Contains(t, buf.String(), "catalog imported")
	assert.Contains(t, buf.String(), result.RunID)

	stored, err := recipeRepo.GetRecipe(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Soupe de poisson", stored.Name)

	_, err = imp.ImportFile(ctx, "testdata/recipes.txt", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

// failingCheckpoints loads checkpoints normally and fails every save.
type failingCheckpoints struct {
	storage.CheckpointRepository
}

func (failingCheckpoints) SaveCheckpoint(context.Context, *core.Checkpoint) error {
	return assert.AnError
}

func TestImporter_Import_CheckpointFailureKeepsPreviousCatalog(t *testing.T) {
	recipeRepo, checkpointRepo := setupTestRepositories(t)
	ctx := context.Background()

	imp, err := NewImporter(recipeRepo, checkpointRepo)
	require.NoError(t, err)
	defer imp.Release()
	_, err = imp.Import(ctx, "a", testRecords(2), nil)
	require.NoError(t, err)

	failing, err := NewImporter(recipeRepo, failingCheckpoints{checkpointRepo})
	require.NoError(t, err)
	defer failing.Release()

	_, err = failing.Import(ctx, "b", testRecords(5), nil)
	require.ErrorIs(t, err, assert.AnError)

	count, err := recipeRepo.CountRecipes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	checkpoint, err := checkpointRepo.LoadCheckpoint(ctx, DefaultCheckpointName)
	require.NoError(t, err)
	assert.Equal(t, "a", checkpoint.Source)
}
