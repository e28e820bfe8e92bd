// Package codec detects configuration file formats and converts between raw
// bytes and Go values for the YAML, TOML and JSON encodings twcfg understands.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// Format identifies a configuration file encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// ErrInvalidJSON is returned when JSON input fails validation.
var ErrInvalidJSON = errors.New("codec: invalid JSON")

var extensions = map[Format][]string{
	FormatYAML: {".yaml", ".yml"},
	FormatTOML: {".toml"},
	FormatJSON: {".json"},
}

// Extensions returns the file extensions associated with a format.
func Extensions(f Format) []string {
	return append([]string(nil), extensions[f]...)
}

// ParseFormat converts a user-supplied name ("yaml", "yml", "toml", "json") into a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", &UnsupportedFormatError{Extension: name, Allowed: []Format{FormatYAML, FormatTOML, FormatJSON}}
	}
}

// UnsupportedFormatError is returned when a file extension is not recognized.
type UnsupportedFormatError struct {
	Extension string
	Allowed   []Format
}

func (e *UnsupportedFormatError) Error() string {
	var exts []string
	for _, f := range e.Allowed {
		exts = append(exts, extensions[f]...)
	}
	return fmt.Sprintf("unsupported config format %q (supported: %s)", e.Extension, strings.Join(exts, ", "))
}

// DetectFormat determines the format from a file extension (case-insensitive).
// Only the allowed formats are accepted; with no allowed formats given, all are.
func DetectFormat(path string, allowed ...Format) (Format, error) {
	if len(allowed) == 0 {
		allowed = []Format{FormatYAML, FormatTOML, FormatJSON}
	}

	ext := strings.ToLower(filepath.Ext(path))
	for _, f := range allowed {
		for _, candidate := range extensions[f] {
			if ext == candidate {
				return f, nil
			}
		}
	}

	return "", &UnsupportedFormatError{Extension: filepath.Ext(path), Allowed: allowed}
}

// Unmarshal decodes data in the given format into v.
func Unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse config YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse config TOML: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse config JSON: %w", err)
		}
	default:
		return &UnsupportedFormatError{Extension: string(format)}
	}
	return nil
}

// Decode parses data into a generic tree. The top level must be a mapping.
// Numbers are normalized so that integral values are int64 regardless of format,
// which keeps trees produced by different encodings comparable.
func Decode(data []byte, format Format) (map[string]any, error) {
	var raw any

	switch format {
	case FormatJSON:
		if len(bytes.TrimSpace(data)) == 0 {
			return map[string]any{}, nil
		}
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("failed to parse config JSON: %w", ErrInvalidJSON)
		}
		raw = gjson.ParseBytes(data).Value()
	default:
		var tree map[string]any
		if err := Unmarshal(data, format, &tree); err != nil {
			return nil, err
		}
		if tree == nil {
			tree = map[string]any{}
		}
		raw = tree
	}

	tree, ok := Normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config root must be a mapping (got %s)", TypeName(raw))
	}
	return tree, nil
}

// Marshal encodes v in the given format.
func Marshal(v any, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, &UnsupportedFormatError{Extension: string(format)}
	}
}

// Normalize converts decoder-specific value types into a common shape:
// mappings become map[string]any, sequences []any, integral numbers int64.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = item
		}
		return out
	case []string:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = item
		}
		return out
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return int64(val) //nolint:gosec // config integers are small
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return int64(val) //nolint:gosec // config integers are small
	case float32:
		return normalizeFloat(float64(val))
	case float64:
		return normalizeFloat(val)
	default:
		return v
	}
}

func normalizeFloat(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return f
}

// TypeName describes a decoded value in user-facing error messages.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "int"
	case float32, float64:
		return "float"
	case map[string]any, map[any]any:
		return "mapping"
	case []any, []map[string]any:
		return "sequence"
	default:
		return fmt.Sprintf("%T", v)
	}
}
