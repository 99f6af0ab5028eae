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

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/poiesic/larder"
	"github.com/poiesic/larder/api"
	"github.com/poiesic/larder/config"
	"github.com/poiesic/larder/core"
	"github.com/poiesic/larder/ingestion"
	"github.com/poiesic/larder/search"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// run loads .env before parsing so LARDER_CONFIG set there reaches the
// --config flag.
func run(args []string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	return newApp().Run(args)
}

func newApp() *cli.App {
	queryFlags := []cli.Flag{
		&cli.StringFlag{
			Name:    "query",
			Aliases: []string{"q"},
			Usage:   "Text to search in names, descriptions, ingredients, utensils and appliances (3 characters minimum)",
		},
		&cli.StringSliceFlag{
			Name:    "tag",
			Aliases: []string{"t"},
			Usage:   "Facet tag as type=value, e.g. ingredients=coco (one tag per flag, repeatable)",
		},
	}

	return &cli.App{
		Name:  "larder",
		Usage: "Faceted recipe search",

		// Tag values may contain commas.
		DisableSliceFlagSeparator: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{config.EnvConfig},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (overrides config)",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
		},
		Before: setupApp,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import a JSON or YAML recipe catalog, replacing the stored one",
				ArgsUsage: "<file>",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Import even if the catalog is unchanged",
					},
				},
			},
			{
				Name:   "search",
				Usage:  "Search recipes by text and facet tags",
				Action: searchCommand,
				Flags: append(queryFlags,
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the result as JSON",
					},
				),
			},
			{
				Name:   "facets",
				Usage:  "List the selectable values of a facet",
				Action: facetsCommand,
				Flags: append(queryFlags,
					&cli.StringFlag{
						Name:     "type",
						Usage:    "Facet type (ingredients, utensils, appliances)",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "filter",
						Usage: "Only list values containing this text",
					},
				),
			},
			{
				Name:      "show",
				Usage:     "Show one recipe",
				ArgsUsage: "<id>",
				Action:    showCommand,
			},
			{
				Name:   "serve",
				Usage:  "Serve the search HTTP API",
				Action: serveCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "Address to listen on (overrides config)",
					},
				},
			},
		},
	}
}

// setupApp loads configuration, applies global flag overrides and installs
// the logger.
func setupApp(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("db") {
		cfg.Database = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	c.App.Metadata[configKey] = cfg

	return setupLogger(cfg)
}

func setupLogger(cfg *config.Config) error {
	level, err := cfg.SlogLevel()
	if err != nil {
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", cfg.LogLevel)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func appConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[configKey].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func openDatabase(c *cli.Context) (*larder.Database, error) {
	cfg := appConfig(c)
	slog.Debug("opening database", "path", cfg.Database)
	return larder.NewDatabase(cfg.Database)
}

// parseTags parses --tag values into a tag set.
func parseTags(exprs []string) (search.TagSet, error) {
	tags := search.TagSet{}
	for _, expr := range exprs {
		tag, err := core.ParseTag(expr)
		if err != nil {
			return search.TagSet{}, err
		}
		tags = tags.Add(tag)
	}
	return tags, nil
}

// runSearch opens the database and starts a session with the query and tag
// flags applied, one step at a time as an interactive client would. The
// returned result lists every tag pruned along the way.
func runSearch(c *cli.Context) (*larder.Database, *search.Engine, search.FilterResult, error) {
	tags, err := parseTags(c.StringSlice("tag"))
	if err != nil {
		return nil, nil, search.FilterResult{}, err
	}

	db, err := openDatabase(c)
	if err != nil {
		return nil, nil, search.FilterResult{}, err
	}
	engine, err := db.NewEngine(c.Context)
	if err != nil {
		db.Close()
		return nil, nil, search.FilterResult{}, err
	}

	// Pruning depends on the query alone, so with the query set first each
	// tag is pruned, if at all, by its own step.
	result := engine.SetQuery(c.String("query"))
	var pruned []core.Tag
	for _, tag := range tags.Tags() {
		if r, changed := engine.AddTag(tag.Type, tag.Value); changed {
			result = r
			pruned = append(pruned, r.Pruned...)
		}
	}
	result.Pruned = pruned
	return db, engine, result, nil
}

func importCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("import takes exactly one catalog file")
	}
	path := c.Args().First()
	cfg := appConfig(c)

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []ingestion.Option
	if cfg.PoolSize > 0 {
		opts = append(opts, ingestion.WithPoolSize(cfg.PoolSize))
	}
	importer, err := db.NewImporter(opts...)
	if err != nil {
		return err
	}
	defer importer.Release()

	result, err := importer.ImportFile(c.Context, path, &ingestion.ImportOptions{Force: c.Bool("force")})
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, renderImport(result))
	return nil
}

func searchCommand(c *cli.Context) error {
	db, _, result, err := runSearch(c)
	if err != nil {
		return err
	}
	defer db.Close()

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(newJSONResult(result))
	}

	fmt.Fprint(c.App.Writer, renderResult(result, appConfig(c).DescriptionLimit))
	return nil
}

func facetsCommand(c *cli.Context) error {
	t, err := core.ParseFacetType(c.String("type"))
	if err != nil {
		return err
	}

	db, engine, _, err := runSearch(c)
	if err != nil {
		return err
	}
	defer db.Close()

	for _, v := range engine.FacetOptions(t, c.String("filter")) {
		fmt.Fprintln(c.App.Writer, v)
	}
	return nil
}

func showCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("show takes exactly one recipe id")
	}
	id, err := strconv.Atoi(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid recipe id %q", c.Args().First())
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	cat, err := db.LoadCatalog(c.Context)
	if err != nil {
		return err
	}
	recipe, ok := cat.Get(id)
	if !ok {
		return fmt.Errorf("recipe %d not found", id)
	}

	fmt.Fprintln(c.App.Writer, renderRecipe(recipe))
	return nil
}

func serveCommand(c *cli.Context) error {
	cfg := appConfig(c)
	addr := cfg.Listen
	if c.IsSet("listen") {
		addr = c.String("listen")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	cat, err := db.LoadCatalog(c.Context)
	if err != nil {
		return err
	}
	server, err := api.NewServer(cat,
		api.WithLogger(slog.Default()),
		api.WithAllowedOrigins(cfg.AllowedOrigins...),
		api.WithDescriptionLimit(cfg.DescriptionLimit),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, addr)
}

// jsonResult is the --json output of the search command.
type jsonResult struct {
	Query   string   `json:"query"`
	Display string   `json:"display"`
	IDs     []int    `json:"ids"`
	Names   []string `json:"names"`
	Tags    []string `json:"tags"`
	Pruned  []string `json:"pruned"`
}

func newJSONResult(result search.FilterResult) jsonResult {
	out := jsonResult{
		Query:   result.Query,
		Display: result.Display().String(),
		IDs:     make([]int, len(result.Recipes)),
		Names:   make([]string, len(result.Recipes)),
		Tags:    tagStrings(result.Tags.Tags()),
		Pruned:  tagStrings(result.Pruned),
	}
	for i, r := range result.Recipes {
		out.IDs[i] = r.ID
		out.Names[i] = r.Name
	}
	return out
}

func tagStrings(tags []core.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}
