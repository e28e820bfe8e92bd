package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/omarluq/twcfg/internal/codec"
)

// AppName names the per-user settings directory (~/.config/twcfg).
const AppName = "twcfg"

// FileNames lists the settings file names searched, in order.
var FileNames = []string{"twcfg.yaml", "twcfg.yml", "twcfg.toml"}

// supportedFormats limits settings files to YAML and TOML.
var supportedFormats = []codec.Format{codec.FormatYAML, codec.FormatTOML}

// Load reads a settings file. The format is chosen from the extension.
// Environment variables in the format ${VAR_NAME} are expanded before parsing.
// Other "$" characters, as in bcrypt hashes, are kept.
// Keys missing from the file keep their Default values.
func Load(path string) (*Config, error) {
	format, err := codec.DetectFormat(path, supportedFormats...)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}

	defer func() {
		if cerr := file.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("path", path).Msg("failed to close config file")
		}
	}()

	return LoadFromReaderWithFormat(file, format)
}

// LoadFromReader reads YAML settings from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	return LoadFromReaderWithFormat(r, codec.FormatYAML)
}

// LoadFromReaderWithFormat reads settings in the given format from an io.Reader.
func LoadFromReaderWithFormat(r io.Reader, format codec.Format) (*Config, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := codec.Unmarshal(codec.ExpandEnv(content), format, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the candidate settings files: the working directory
// first, then ~/.config/twcfg.
func SearchPaths() []string {
	paths := make([]string, 0, len(FileNames)*2)
	paths = append(paths, FileNames...)

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		for _, name := range FileNames {
			paths = append(paths, filepath.Join(home, ".config", AppName, name))
		}
	}
	return paths
}

// Locate resolves the settings file. An explicit path is returned as is,
// even when it does not exist, so that loading reports the real error.
// Otherwise the first existing SearchPaths entry wins, or ErrNotFound.
func Locate(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}

	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrNotFound
}

// LoadOrDefault loads the located settings file, falling back to Default
// when no file exists and none was requested explicitly.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Locate(explicit)
	if errors.Is(err, ErrNotFound) {
		return Default(), "", nil
	}
	if err != nil {
		return nil, "", err
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}
