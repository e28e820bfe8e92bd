package descriptor

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/omarluq/twcfg/internal/codec"
)

// Load reads a descriptor file. The format is chosen from the extension
// (.yaml, .yml, .toml, .json). Environment variables in the format ${VAR_NAME}
// are expanded before parsing; write "$$" for a literal "$". Shape or value problems are reported as a
// *MalformedConfigError with Source set to path.
func Load(path string) (*Descriptor, error) {
	format, err := codec.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptor %s: %w", path, err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil {
			logger().Warn().Err(cerr).Str("path", path).Msg("failed to close descriptor file")
		}
	}()

	d, err := LoadFromReaderWithFormat(file, format)
	if err != nil {
		var malformed *MalformedConfigError
		if errors.As(err, &malformed) {
			malformed.Source = path
		}
		return nil, err
	}

	return d, nil
}

// LoadFromReader reads a YAML descriptor from an io.Reader.
func LoadFromReader(r io.Reader) (*Descriptor, error) {
	return LoadFromReaderWithFormat(r, codec.FormatYAML)
}

// LoadFromReaderWithFormat reads a descriptor in the given format from an io.Reader.
func LoadFromReaderWithFormat(r io.Reader, format codec.Format) (*Descriptor, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor: %w", err)
	}

	return Parse(content, format)
}

// Parse decodes descriptor bytes in the given format. ${VAR_NAME} references
// are expanded first and "$$" reads as a literal "$".
func Parse(data []byte, format codec.Format) (*Descriptor, error) {
	tree, err := codec.Decode(codec.ExpandEnv(data), format)
	if err != nil {
		var unsupported *codec.UnsupportedFormatError
		if errors.As(err, &unsupported) {
			return nil, err
		}
		return nil, &MalformedConfigError{Err: err}
	}

	return fromTree(tree)
}
