// Package descriptor loads, validates and queries the stylesheet configuration
// descriptor consumed by the external utility-CSS build tool.
//
// A descriptor declares four settings:
//
//	darkMode: class                        # media (default) or class
//	content:                               # required, non-empty glob list
//	  - ./templates/**/*.{html,js}
//	theme:
//	  extend: {}                           # additive theme overrides
//	plugins: []                            # plugin references
//
// Descriptors are loaded once and treated as read-only values. Accessors
// return copies so that callers cannot mutate shared state.
package descriptor

import (
	"reflect"
	"slices"

	"github.com/samber/lo"

	"github.com/omarluq/twcfg/internal/codec"
)

// DarkMode selects how dark styling is activated.
type DarkMode string

const (
	// DarkModeMedia follows the operating system preference via a media query.
	DarkModeMedia DarkMode = "media"
	// DarkModeClass activates dark styling when a marker class is present on an ancestor.
	DarkModeClass DarkMode = "class"
)

// DefaultDarkMode is used when a descriptor omits darkMode.
const DefaultDarkMode = DarkModeMedia

// IsValid reports whether m is one of the recognized strategies.
func (m DarkMode) IsValid() bool {
	return m == DarkModeMedia || m == DarkModeClass
}

// Persisted field names.
const (
	FieldDarkMode    = "darkMode"
	FieldContent     = "content"
	FieldTheme       = "theme"
	FieldThemeExtend = "theme.extend"
	FieldPlugins     = "plugins"
)

// Fields lists the top-level persisted fields in canonical order.
var Fields = []string{FieldDarkMode, FieldContent, FieldTheme, FieldPlugins}

// Descriptor is the configuration record handed to the external build tool.
type Descriptor struct {
	DarkMode DarkMode
	Content  []string
	Theme    Theme
	Plugins  []Plugin
}

// Theme holds theme customizations. Only additive extensions are supported.
type Theme struct {
	// Extend maps a theme axis (colors, spacing, ...) to extension values.
	Extend map[string]any
}

// Option configures a Descriptor built with New.
type Option func(*Descriptor)

// WithDarkMode sets the dark-mode strategy.
func WithDarkMode(m DarkMode) Option {
	return func(d *Descriptor) {
		d.DarkMode = m
	}
}

// WithThemeExtension adds an extension value for one theme axis. Values are
// normalized the way decoders normalize them, so a built descriptor compares
// equal to the same descriptor after a marshal/parse round trip.
func WithThemeExtension(axis string, value any) Option {
	return func(d *Descriptor) {
		d.Theme.Extend[axis] = codec.Normalize(value)
	}
}

// WithPlugins appends plugin references.
func WithPlugins(plugins ...Plugin) Option {
	return func(d *Descriptor) {
		for _, p := range plugins {
			d.Plugins = append(d.Plugins, p.clone())
		}
	}
}

// New builds a descriptor from content patterns and options, then validates it.
// It returns a *MalformedConfigError if the result violates any invariant.
func New(content []string, opts ...Option) (*Descriptor, error) {
	d := &Descriptor{
		DarkMode: DefaultDarkMode,
		Content:  slices.Clone(content),
		Theme:    Theme{Extend: map[string]any{}},
		Plugins:  []Plugin{},
	}

	for _, opt := range opts {
		opt(d)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// EffectiveDarkMode returns the dark-mode strategy with the default applied.
func (d *Descriptor) EffectiveDarkMode() DarkMode {
	if d.DarkMode == "" {
		return DefaultDarkMode
	}
	return d.DarkMode
}

// ContentPatterns returns a copy of the content globs.
func (d *Descriptor) ContentPatterns() []string {
	if d.Content == nil {
		return []string{}
	}
	return slices.Clone(d.Content)
}

// ThemeExtensions returns a deep copy of the theme extension mapping.
// The result is never nil.
func (d *Descriptor) ThemeExtensions() map[string]any {
	if d.Theme.Extend == nil {
		return map[string]any{}
	}
	return copyMap(d.Theme.Extend)
}

// PluginList returns a deep copy of the plugin references. The result is never nil.
func (d *Descriptor) PluginList() []Plugin {
	return lo.Map(d.Plugins, func(p Plugin, _ int) Plugin {
		return p.clone()
	})
}

// PluginNames returns the plugin identifiers in declaration order.
func (d *Descriptor) PluginNames() []string {
	return lo.Map(d.Plugins, func(p Plugin, _ int) string {
		return p.Name
	})
}

// Get returns the value of a persisted field. Omitted optional fields yield
// their defaults (media, empty mapping, empty sequence). Unknown field names
// return nil; use Lookup to distinguish absence.
func (d *Descriptor) Get(field string) any {
	switch field {
	case FieldDarkMode:
		return d.EffectiveDarkMode()
	case FieldContent:
		return d.ContentPatterns()
	case FieldTheme:
		return map[string]any{"extend": d.ThemeExtensions()}
	case FieldThemeExtend:
		return d.ThemeExtensions()
	case FieldPlugins:
		return d.PluginList()
	default:
		return nil
	}
}

// Clone returns a deep copy.
func (d *Descriptor) Clone() *Descriptor {
	return &Descriptor{
		DarkMode: d.EffectiveDarkMode(),
		Content:  d.ContentPatterns(),
		Theme:    Theme{Extend: d.ThemeExtensions()},
		Plugins:  d.PluginList(),
	}
}

// Equal reports whether two descriptors hold the same settings.
// Omitted optional fields compare equal to their empty defaults.
func (d *Descriptor) Equal(other *Descriptor) bool {
	if d == nil || other == nil {
		return d == other
	}
	if d.EffectiveDarkMode() != other.EffectiveDarkMode() {
		return false
	}
	if !slices.Equal(d.ContentPatterns(), other.ContentPatterns()) {
		return false
	}
	if !reflect.DeepEqual(d.ThemeExtensions(), other.ThemeExtensions()) {
		return false
	}
	return slices.EqualFunc(d.PluginList(), other.PluginList(), Plugin.Equal)
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
