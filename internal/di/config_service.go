package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/omarluq/twcfg/internal/config"
)

// ConfigService holds the validated settings.
type ConfigService struct {
	Config *config.Config
	// Path is the settings file that was loaded, empty when defaults are used.
	Path string
}

// NewConfig loads and validates the settings, then applies the descriptor
// path override.
func NewConfig(i do.Injector) (*ConfigService, error) {
	path := do.MustInvokeNamed[string](i, ConfigPathKey)
	override := do.MustInvokeNamed[string](i, DescriptorPathKey)

	cfg, found, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	if override != "" {
		cfg.Descriptor.Path = override
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &ConfigService{Config: cfg, Path: found}, nil
}
