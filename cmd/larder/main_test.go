package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/poiesic/larder/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

const testCatalogFile = "../../ingestion/testdata/recipes.json"

// runApp runs one larder invocation against dbPath and returns its output.
func runApp(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"larder", "--db", dbPath, "--log-level", "error"}, args...))
	return out.String(), err
}

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func TestCommandFlags(t *testing.T) {
	app := newApp()

	t.Run("facets type is required", func(t *testing.T) {
		cmd := findCommand(t, app, "facets")
		var typeFlag *cli.StringFlag
		for _, flag := range cmd.Flags {
			if f, ok := flag.(*cli.StringFlag); ok && f.Name == "type" {
				typeFlag = f
				break
			}
		}
		require.NotNil(t, typeFlag)
		assert.True(t, typeFlag.Required)
	})

	t.Run("search and facets share query flags", func(t *testing.T) {
		for _, name := range []string{"search", "facets"} {
			cmd := findCommand(t, app, name)
			var names []string
			for _, flag := range cmd.Flags {
				names = append(names, flag.Names()...)
			}
			assert.Contains(t, names, "query", name)
			assert.Contains(t, names, "q", name)
			assert.Contains(t, names, "tag", name)
		}
	})

	t.Run("import force defaults to false", func(t *testing.T) {
		cmd := findCommand(t, app, "import")
		require.Len(t, cmd.Flags, 1)
		f, ok := cmd.Flags[0].(*cli.BoolFlag)
		require.True(t, ok)
		assert.Equal(t, "force", f.Name)
		assert.False(t, f.Value)
	})
}

func TestInvalidLogLevel(t *testing.T) {
	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{"larder", "--db", t.TempDir(), "--log-level", "loud", "search"})
	require.Error(t, err)
}

func TestMissingFacetType(t *testing.T) {
	_, err := runApp(t, t.TempDir(), "facets")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestRun_DotEnvSetsConfigPath(t *testing.T) {
	if _, set := os.LookupEnv(config.EnvConfig); set {
		t.Skipf("%s already set", config.EnvConfig)
	}
	catalogFile, err := filepath.Abs(testCatalogFile)
	require.NoError(t, err)

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "from-config.db")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "larder.yaml"),
		[]byte("database: "+dbPath+"\nlog_level: error\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte(config.EnvConfig+"=larder.yaml\n"), 0o644))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv(config.EnvConfig) })

	require.NoError(t, run([]string{"larder", "import", catalogFile}))
	assert.DirExists(t, dbPath)
}

func TestCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "larder.db")

	out, err := runApp(t, dbPath, "import", testCatalogFile)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 recipes")

	t.Run("reimport is skipped", func(t *testing.T) {
		out, err := runApp(t, dbPath, "import", testCatalogFile)
		require.NoError(t, err)
		assert.Contains(t, out, "unchanged")

		out, err = runApp(t, dbPath, "import", "--force", testCatalogFile)
		require.NoError(t, err)
		assert.Contains(t, out, "imported 2 recipes")
	})

	t.Run("import needs a file", func(t *testing.T) {
		_, err := runApp(t, dbPath, "import")
		require.Error(t, err)
	})

	t.Run("search by text", func(t *testing.T) {
		out, err := runApp(t, dbPath, "search", "-q", "coco")
		require.NoError(t, err)
		assert.Contains(t, out, "Limonade de Coco")
		assert.Contains(t, out, "Poisson Cru à la tahitienne")
		assert.Contains(t, out, "2 recipe(s)")
	})

	t.Run("search by tag", func(t *testing.T) {
		out, err := runApp(t, dbPath, "search", "--tag", "appliances=Blender")
		require.NoError(t, err)
		assert.Contains(t, out, "Limonade de Coco")
		assert.NotContains(t, out, "Poisson Cru")
	})

	t.Run("pruned tag is reported", func(t *testing.T) {
		out, err := runApp(t, dbPath, "search", "-q", "thon", "--tag", "appliances=blender")
		require.NoError(t, err)
		assert.Contains(t, out, "dropped appliances:blender")
		assert.Contains(t, out, "Poisson Cru")
	})

	t.Run("no match", func(t *testing.T) {
		out, err := runApp(t, dbPath, "search", "-q", "chocolat")
		require.NoError(t, err)
		assert.Contains(t, out, "No recipe matches your criteria")
	})

	t.Run("no criteria", func(t *testing.T) {
		out, err := runApp(t, dbPath, "search", "-q", "co")
		require.NoError(t, err)
		assert.Contains(t, out, "at least 3 characters")
		assert.NotContains(t, out, "Limonade")
	})

	t.Run("comma stays inside one tag", func(t *testing.T) {
		out, err := runApp(t, dbPath, "search", "--tag", "ingredients=sel, poivre")
		require.NoError(t, err)
		assert.Contains(t, out, "dropped ingredients:sel, poivre")
	})

	t.Run("bad tag", func(t *testing.T) {
		_, err := runApp(t, dbPath, "search", "--tag", "colour=red")
		require.Error(t, err)
	})

	t.Run("json output", func(t *testing.T) {
		out, err := runApp(t, dbPath, "search", "-q", "citron", "--json")
		require.NoError(t, err)

		var result jsonResult
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, "citron", result.Query)
		assert.Equal(t, "results", result.Display)
		assert.Equal(t, []int{1, 2}, result.IDs)
		assert.Empty(t, result.Pruned)
	})

	t.Run("facets", func(t *testing.T) {
		out, err := runApp(t, dbPath, "facets", "--type", "ustensils")
		require.NoError(t, err)
		assert.Equal(t, []string{"cuillère à soupe", "verres", "presse citron"},
			strings.Split(strings.TrimSpace(out), "\n"))

		out, err = runApp(t, dbPath, "facets", "--type", "ustensils", "--filter", "CITRON")
		require.NoError(t, err)
		assert.Equal(t, "presse citron", strings.TrimSpace(out))

		out, err = runApp(t, dbPath, "facets", "--type", "appliances", "-q", "thon")
		require.NoError(t, err)
		assert.Equal(t, "saladier", strings.TrimSpace(out))
	})

	t.Run("show", func(t *testing.T) {
		out, err := runApp(t, dbPath, "show", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Poisson Cru à la tahitienne")
		assert.Contains(t, out, "Thon rouge (ou blanc): 200 grammes")
		assert.Contains(t, out, "saladier")

		_, err = runApp(t, dbPath, "show", "99")
		require.Error(t, err)

		_, err = runApp(t, dbPath, "show", "two")
		require.Error(t, err)
	})
}
