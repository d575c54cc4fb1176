package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var catalogSchema string

// Load reads a YAML or JSON catalog file.
func Load(path string) (*Catalog, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &LoadError{Location: path, Cause: err}
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &LoadError{Location: abs, Cause: err}
	}
	return Parse(data, abs)
}

// Parse decodes catalog bytes. The raw content is first checked against the
// embedded catalog schema so typos in keys are reported instead of silently
// ignored. location only labels errors.
func Parse(data []byte, location string) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Location: location, Cause: fmt.Errorf("parse: %w", err)}
	}
	if raw == nil {
		return nil, &LoadError{Location: location, Problems: []string{"catalog is empty"}}
	}
	asJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, &LoadError{Location: location, Cause: fmt.Errorf("re-encode: %w", err)}
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(catalogSchema),
		gojsonschema.NewBytesLoader(asJSON),
	)
	if err != nil {
		return nil, &LoadError{Location: location, Cause: fmt.Errorf("schema check: %w", err)}
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return nil, &LoadError{Location: location, Problems: problems}
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, &LoadError{Location: location, Cause: fmt.Errorf("decode: %w", err)}
	}
	c.index()
	return &c, nil
}
