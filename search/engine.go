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


package search

import (
	"log/slog"

	"github.com/poiesic/larder/core"
)

// Engine holds the query and tag state of one search session and reruns the
// pipeline whenever that state changes. Every call runs to completion before
// returning. An Engine is not safe for concurrent use; callers serialize
// operations. Results it returns are immutable and may be shared.
type Engine struct {
	catalog Catalog
	monitor Monitor
	logger  *slog.Logger

	query  string
	result FilterResult
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithMonitor sets a monitor called on every pipeline run.
func WithMonitor(monitor Monitor) Option {
	return func(e *Engine) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		e.monitor = monitor
		return nil
	}
}

// NewEngine creates an engine over c with an empty query and no tags.
func NewEngine(c Catalog, opts ...Option) (*Engine, error) {
	if c == nil {
		return nil, ErrCatalogRequired
	}

	e := &Engine{
		catalog: c,
		monitor: &noopMonitor{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	e.result = e.run("", TagSet{})
	return e, nil
}

func (e *Engine) run(query string, tags TagSet) FilterResult {
	result := RunWithMonitor(e.catalog, query, tags, e.monitor)
	if len(result.Pruned) > 0 {
		e.logger.Info("tags pruned", "tags", tagStrings(result.Pruned), "query", result.Query)
	}
	e.logger.Debug("search run",
		"query", result.Query,
		"tags", tagStrings(result.Tags.tags),
		"results", len(result.Recipes),
		"display", result.Display().String())
	return result
}

// SetQuery replaces the text query and reruns the pipeline. Tags the new
// query invalidates are pruned from the session.
func (e *Engine) SetQuery(query string) FilterResult {
	e.query = query
	e.result = e.run(query, e.result.Tags)
	return e.result
}

// AddTag selects a facet value and reruns the pipeline. It reports false,
// without rerunning, when the tag is already active.
func (e *Engine) AddTag(t core.FacetType, value string) (FilterResult, bool) {
	tag := core.NewTag(t, value)
	if e.result.Tags.Contains(tag) {
		return e.result, false
	}
	e.result = e.run(e.query, e.result.Tags.Add(tag))
	return e.result, true
}

// RemoveTag deselects a facet value and reruns the pipeline. It reports
// false, without rerunning, when the tag is not active.
func (e *Engine) RemoveTag(t core.FacetType, value string) (FilterResult, bool) {
	tag := core.NewTag(t, value)
	if !e.result.Tags.Contains(tag) {
		return e.result, false
	}
	e.result = e.run(e.query, e.result.Tags.Remove(tag))
	return e.result, true
}

// Result returns the result of the latest run.
func (e *Engine) Result() FilterResult {
	return e.result
}

// Query returns the raw query last passed to SetQuery.
func (e *Engine) Query() string {
	return e.query
}

// Tags returns the active tags.
func (e *Engine) Tags() TagSet {
	return e.result.Tags
}

// FacetOptions returns the selectable values of a facet type in the latest
// result, narrowed by filter.
func (e *Engine) FacetOptions(t core.FacetType, filter string) []string {
	return FacetOptions(e.Result(), t, filter)
}

func tagStrings(tags []core.Tag) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = tag.String()
	}
	return out
}
