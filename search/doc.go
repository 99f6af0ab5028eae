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


// Package search implements faceted filtering over a recipe catalog.
//
// A pipeline run combines a free-text query with a set of active facet tags
// and produces a FilterResult. The steps always run in this order:
//   - text filter: recipes matching the query (queries under three
//     characters do not filter)
//   - validity facets: facet values present in the text-filtered subset
//   - pruning: active tags whose value is absent from the validity facets
//     are dropped
//   - tag filter: recipes compatible with every remaining tag
//   - display facets: facet values present in the final subset
//
// Pruning looks only at the text-filtered subset, so a tag is never dropped
// because other active tags narrowed the results to nothing.
//
// Run is a pure function of its inputs. Engine wraps it for a single
// interactive caller, threading the immutable TagSet between runs.
package search
