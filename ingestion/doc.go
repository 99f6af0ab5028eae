// Package ingestion loads recipe catalogs into storage.
//
// The Importer type manages the import workflow:
//   - Decoding JSON or YAML catalog files
//   - Validating records concurrently on a worker pool
//   - Skipping imports whose content matches the last checkpoint
//   - Replacing stored recipes and recording a new checkpoint
//
// Validation failures are reported for the lowest offending record index, so
// results do not depend on worker scheduling.
package ingestion
