package ingestion

import "errors"

var (
	// ErrRecipeRepositoryRequired is returned when a recipe repository is not provided.
	ErrRecipeRepositoryRequired = errors.New("recipe repository required")

	// ErrCheckpointRepositoryRequired is returned when a checkpoint repository is not provided.
	ErrCheckpointRepositoryRequired = errors.New("checkpoint repository required")

	// ErrUnsupportedFormat is returned for catalog files that are neither JSON nor YAML.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")

	// ErrDecodeFailed is returned when a catalog file cannot be parsed.
	ErrDecodeFailed = errors.New("catalog decode failed")
)
