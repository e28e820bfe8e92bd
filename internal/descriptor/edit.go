package descriptor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/sjson"

	"github.com/omarluq/twcfg/internal/codec"
)

// ErrEmptyPath is returned when an edit is requested without a path.
var ErrEmptyPath = errors.New("descriptor: path is required")

// Set returns descriptor file content with the value at path replaced.
// Paths are dotted; sequence elements are addressed by index and "-1" appends
// ("content.-1"). JSON input is edited in place with sjson so unrelated
// formatting survives; YAML and TOML are rewritten in canonical key order.
// Edits apply to the file as written: ${VAR} references elsewhere are kept,
// and string values are stored as file text, so they may hold references too.
// The edited document must still be a valid descriptor once expanded.
func Set(data []byte, format codec.Format, path string, value any) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if format == codec.FormatJSON {
		out, err := sjson.SetBytes(data, path, value)
		if err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", path, err)
		}
		return checkEdited(out, format)
	}

	return rewrite(data, format, func(tree map[string]any) error {
		// The root is a mapping, so setPath updates it in place.
		_, err := setPath(tree, strings.Split(path, "."), codec.Normalize(value))
		return err
	})
}

// Unset returns descriptor file content with the value at path removed.
// Removing an optional field restores its default.
func Unset(data []byte, format codec.Format, path string) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	if format == codec.FormatJSON {
		out, err := sjson.DeleteBytes(data, path)
		if err != nil {
			return nil, fmt.Errorf("failed to unset %s: %w", path, err)
		}
		return checkEdited(out, format)
	}

	return rewrite(data, format, func(tree map[string]any) error {
		_, err := deletePath(tree, strings.Split(path, "."))
		return err
	})
}

// rewrite edits the file as written, before environment expansion, so
// ${VAR} references are written back unchanged. The result is validated
// the way Load would read it.
func rewrite(data []byte, format codec.Format, edit func(map[string]any) error) ([]byte, error) {
	tree, err := codec.Decode(data, format)
	if err != nil {
		return nil, &MalformedConfigError{Err: err}
	}

	if err := edit(tree); err != nil {
		return nil, err
	}

	out, err := codec.Marshal(rawDocumentOf(tree), format)
	if err != nil {
		return nil, err
	}
	return checkEdited(out, format)
}

// rawDocument orders an unvalidated tree by the canonical key order. Omitted
// fields stay omitted.
//
//nolint:govet // Field order defines the persisted key order, not memory alignment
type rawDocument struct {
	DarkMode any `yaml:"darkMode,omitempty" toml:"darkMode,omitempty" json:"darkMode,omitempty"`
	Content  any `yaml:"content,omitempty" toml:"content,omitempty" json:"content,omitempty"`
	Theme    any `yaml:"theme,omitempty" toml:"theme,omitempty" json:"theme,omitempty"`
	Plugins  any `yaml:"plugins,omitempty" toml:"plugins,omitempty" json:"plugins,omitempty"`
}

// rawDocumentOf returns the ordered document, or the tree itself when it
// carries keys the document has no field for, so validation reports them.
func rawDocumentOf(tree map[string]any) any {
	for key := range tree {
		if !lo.Contains(topLevelKeys, key) {
			return tree
		}
	}
	return rawDocument{
		DarkMode: tree[FieldDarkMode],
		Content:  tree[FieldContent],
		Theme:    tree[FieldTheme],
		Plugins:  tree[FieldPlugins],
	}
}

func checkEdited(out []byte, format codec.Format) ([]byte, error) {
	if _, err := Parse(out, format); err != nil {
		return nil, err
	}
	return out, nil
}

func setPath(node any, segments []string, value any) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}

	key, rest := segments[0], segments[1:]

	switch n := node.(type) {
	case nil:
		child, err := setPath(nil, rest, value)
		if err != nil {
			return nil, err
		}
		return map[string]any{key: child}, nil
	case map[string]any:
		child, err := setPath(n[key], rest, value)
		if err != nil {
			return nil, err
		}
		n[key] = child
		return n, nil
	case []any:
		idx, err := sequenceIndex(key, len(n), true)
		if err != nil {
			return nil, err
		}
		if idx == len(n) {
			child, err := setPath(nil, rest, value)
			if err != nil {
				return nil, err
			}
			return append(n, child), nil
		}
		child, err := setPath(n[idx], rest, value)
		if err != nil {
			return nil, err
		}
		n[idx] = child
		return n, nil
	default:
		return nil, fmt.Errorf("cannot set %q inside a %s", key, codec.TypeName(n))
	}
}

func deletePath(node any, segments []string) (any, error) {
	key, rest := segments[0], segments[1:]

	switch n := node.(type) {
	case map[string]any:
		if _, ok := n[key]; !ok {
			return n, nil
		}
		if len(rest) == 0 {
			delete(n, key)
			return n, nil
		}
		child, err := deletePath(n[key], rest)
		if err != nil {
			return nil, err
		}
		n[key] = child
		return n, nil
	case []any:
		idx, err := sequenceIndex(key, len(n), false)
		if err != nil {
			return nil, err
		}
		if len(rest) == 0 {
			return append(n[:idx:idx], n[idx+1:]...), nil
		}
		child, err := deletePath(n[idx], rest)
		if err != nil {
			return nil, err
		}
		n[idx] = child
		return n, nil
	default:
		return node, nil
	}
}

// sequenceIndex parses a sequence segment. With allowAppend, "-1" and len
// address the slot after the last element.
func sequenceIndex(key string, length int, allowAppend bool) (int, error) {
	if key == "-1" && allowAppend {
		return length, nil
	}

	idx, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("sequence index must be a number (got %q)", key)
	}

	upper := length - 1
	if allowAppend {
		upper = length
	}
	if idx < 0 || idx > upper {
		return 0, fmt.Errorf("sequence index %d out of range (length %d)", idx, length)
	}
	return idx, nil
}
