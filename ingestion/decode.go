package ingestion

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/larder/core"
	"gopkg.in/yaml.v3"
)

// Format is a catalog file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
}

// catalogDocument is the object form of a catalog file. A bare list of
// recipes is accepted as well.
type catalogDocument struct {
	Recipes []core.RawRecipe `json:"recipes" yaml:"recipes"`
}

// DecodeFile reads a catalog file, choosing the format by extension.
func DecodeFile(path string) ([]core.RawRecipe, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode parses catalog records. The input is either a list of recipes or an
// object with a "recipes" list. Records are not validated.
func Decode(r io.Reader, format Format) ([]core.RawRecipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var records []core.RawRecipe
	switch format {
	case FormatJSON:
		records, err = decodeJSON(data)
	case FormatYAML:
		records, err = decodeYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if records == nil {
		records = []core.RawRecipe{}
	}
	return records, nil
}

func decodeJSON(data []byte) ([]core.RawRecipe, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var records []core.RawRecipe
		err := json.Unmarshal(trimmed, &records)
		return records, err
	}
	var doc catalogDocument
	err := json.Unmarshal(trimmed, &doc)
	return doc.Recipes, err
}

func decodeYAML(data []byte) ([]core.RawRecipe, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	// Empty document
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, nil
	}

	node := root.Content[0]
	switch node.Kind {
	case yaml.SequenceNode:
		var records []core.RawRecipe
		err := node.Decode(&records)
		return records, err
	case yaml.MappingNode:
		var doc catalogDocument
		err := node.Decode(&doc)
		return doc.Recipes, err
	default:
		return nil, fmt.Errorf("line %d: expected a list or a mapping", node.Line)
	}
}
