package document

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Format selects the serialization of written documents.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (allowed: json, yaml)", s)
	}
}

// FormatForPath infers the format from a file extension, defaulting to JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ContentType returns the media type served for f.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/x-yaml"
	}
	return "application/json"
}

// Marshal serializes doc. In legacy mode the document is converted to
// Swagger 2.0 first.
func Marshal(doc *openapi3.T, format Format, legacy bool) ([]byte, error) {
	var v any = doc
	if legacy {
		v2, err := openapi2conv.FromV3(doc)
		if err != nil {
			return nil, &Error{Code: ConversionError, Message: fmt.Sprintf("convert v3→v2: %v", err), Cause: err}
		}
		v = v2
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, &Error{Code: OutputError, Message: fmt.Sprintf("encode json: %v", err), Cause: err}
	}
	if format != FormatYAML {
		return append(data, '\n'), nil
	}
	// Go through the JSON form so the kin-openapi marshalers decide the
	// shape; yaml.v3 then emits map keys sorted.
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, &Error{Code: OutputError, Message: fmt.Sprintf("re-encode yaml: %v", err), Cause: err}
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(tree); err != nil {
		return nil, &Error{Code: OutputError, Message: fmt.Sprintf("encode yaml: %v", err), Cause: err}
	}
	if err := enc.Close(); err != nil {
		return nil, &Error{Code: OutputError, Message: fmt.Sprintf("encode yaml: %v", err), Cause: err}
	}
	return buf.Bytes(), nil
}

// WriteFile writes data to path atomically via a temp file and rename.
func WriteFile(path string, data []byte) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return &Error{Code: OutputError, Message: fmt.Sprintf("resolve output path: %v", err), Location: path, Cause: err}
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return &Error{Code: OutputError, Message: fmt.Sprintf("create parent directory: %v", err), Location: abs, Cause: err}
	}
	tmp := abs + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &Error{Code: OutputError, Message: fmt.Sprintf("write temp file: %v", err), Location: abs, Cause: err}
	}
	if err := os.Rename(tmp, abs); err != nil {
		_ = os.Remove(tmp)
		return &Error{Code: OutputError, Message: fmt.Sprintf("place file: %v", err), Location: abs, Cause: err}
	}
	return nil
}

// Validate checks a transformed document. Pruning can drop path parameters
// the generator declared, so callers usually treat the result as a warning.
func Validate(ctx context.Context, doc *openapi3.T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &Error{Code: OutputError, Message: fmt.Sprintf("encode json: %v", err), Cause: err}
	}
	loader := openapi3.NewLoader()
	loaded, err := loader.LoadFromData(data)
	if err != nil {
		return classify(err, "")
	}
	if err := loaded.Validate(ctx); err != nil {
		return classify(err, "")
	}
	return nil
}
