package descriptor

import (
	"github.com/samber/lo"

	"github.com/omarluq/twcfg/internal/codec"
)

// document is the persisted layout. Field order is the canonical key order.
//
//nolint:govet // Field order defines the persisted key order, not memory alignment
type document struct {
	DarkMode string        `yaml:"darkMode" toml:"darkMode" json:"darkMode"`
	Content  []string      `yaml:"content" toml:"content" json:"content"`
	Theme    themeDocument `yaml:"theme" toml:"theme" json:"theme"`
	Plugins  []any         `yaml:"plugins" toml:"plugins" json:"plugins"`
}

type themeDocument struct {
	Extend map[string]any `yaml:"extend" toml:"extend" json:"extend"`
}

func (d *Descriptor) document() document {
	return document{
		DarkMode: string(d.EffectiveDarkMode()),
		Content:  d.ContentPatterns(),
		Theme:    themeDocument{Extend: d.ThemeExtensions()},
		Plugins: lo.Map(d.Plugins, func(p Plugin, _ int) any {
			return p.encode()
		}),
	}
}

// escaped returns the document with every "$" doubled, the form Parse
// expands back to the original strings.
func (doc document) escaped() document {
	extend, _ := codec.Escape(doc.Theme.Extend).(map[string]any)
	return document{
		DarkMode: doc.DarkMode,
		Content:  lo.Map(doc.Content, func(s string, _ int) string { return codec.EscapeDollars(s) }),
		Theme:    themeDocument{Extend: extend},
		Plugins:  lo.Map(doc.Plugins, func(p any, _ int) any { return codec.Escape(p) }),
	}
}

// Marshal renders the descriptor in the given format. Defaults are written
// explicitly and "$" is written as "$$", so Parse(Marshal(d)) yields a
// descriptor equal to d.
func Marshal(d *Descriptor, format codec.Format) ([]byte, error) {
	return codec.Marshal(d.document().escaped(), format)
}

// Tree returns the descriptor as a generic document tree, as a decoder would produce it.
func (d *Descriptor) Tree() map[string]any {
	return map[string]any{
		FieldDarkMode: string(d.EffectiveDarkMode()),
		FieldContent: lo.Map(d.ContentPatterns(), func(s string, _ int) any {
			return s
		}),
		FieldTheme: map[string]any{"extend": d.ThemeExtensions()},
		FieldPlugins: lo.Map(d.Plugins, func(p Plugin, _ int) any {
			return p.encode()
		}),
	}
}
