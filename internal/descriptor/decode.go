package descriptor

import (
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/omarluq/twcfg/internal/codec"
)

var (
	topLevelKeys = []string{FieldDarkMode, FieldContent, FieldTheme, FieldPlugins}
	themeKeys    = []string{"extend"}
	pluginKeys   = []string{"name", "options"}
)

// fromTree builds a descriptor from a decoded document and validates it.
// Shape problems and invariant violations are reported together.
func fromTree(tree map[string]any) (*Descriptor, error) {
	errs := &MalformedConfigError{}

	rejectUnknownKeys(tree, topLevelKeys, "", errs)

	d := &Descriptor{
		DarkMode: decodeDarkMode(tree[FieldDarkMode], errs),
		Content:  decodeContent(tree, errs),
		Theme:    Theme{Extend: decodeTheme(tree[FieldTheme], errs)},
		Plugins:  decodePlugins(tree[FieldPlugins], errs),
	}

	// Invariant checks only make sense once the shape is right.
	if !errs.HasErrors() {
		validate(d, errs)
	}

	if err := errs.ToError(); err != nil {
		return nil, err
	}
	return d, nil
}

func rejectUnknownKeys(m map[string]any, known []string, prefix string, errs *MalformedConfigError) {
	unknown := lo.Filter(lo.Keys(m), func(k string, _ int) bool {
		return !slices.Contains(known, k)
	})
	slices.Sort(unknown)

	for _, k := range unknown {
		errs.Addf("unknown field %q", prefix+k)
	}
}

func decodeDarkMode(raw any, errs *MalformedConfigError) DarkMode {
	if raw == nil {
		return DefaultDarkMode
	}

	s, ok := raw.(string)
	if !ok {
		errs.Addf("darkMode must be a string (got %s)", codec.TypeName(raw))
		return ""
	}

	mode := DarkMode(s)
	if !mode.IsValid() {
		errs.Addf("darkMode is invalid (got %q, valid: media, class)", s)
	}
	return mode
}

func decodeContent(tree map[string]any, errs *MalformedConfigError) []string {
	raw, present := tree[FieldContent]
	if !present || raw == nil {
		errs.Add("content is required")
		return nil
	}

	items, ok := raw.([]any)
	if !ok {
		errs.Addf("content must be a sequence of strings (got %s)", codec.TypeName(raw))
		return nil
	}

	patterns := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			errs.Addf("content[%d] must be a string (got %s)", i, codec.TypeName(item))
			continue
		}
		patterns = append(patterns, s)
	}
	return patterns
}

func decodeTheme(raw any, errs *MalformedConfigError) map[string]any {
	if raw == nil {
		return map[string]any{}
	}

	theme, ok := raw.(map[string]any)
	if !ok {
		errs.Addf("theme must be a mapping (got %s)", codec.TypeName(raw))
		return map[string]any{}
	}

	rejectUnknownKeys(theme, themeKeys, "theme.", errs)

	extendRaw := theme["extend"]
	if extendRaw == nil {
		return map[string]any{}
	}

	extend, ok := extendRaw.(map[string]any)
	if !ok {
		errs.Addf("theme.extend must be a mapping (got %s)", codec.TypeName(extendRaw))
		return map[string]any{}
	}
	return extend
}

func decodePlugins(raw any, errs *MalformedConfigError) []Plugin {
	if raw == nil {
		return []Plugin{}
	}

	items, ok := raw.([]any)
	if !ok {
		errs.Addf("plugins must be a sequence (got %s)", codec.TypeName(raw))
		return []Plugin{}
	}

	plugins := make([]Plugin, 0, len(items))
	for i, item := range items {
		if p, ok := decodePlugin(item, i, errs); ok {
			plugins = append(plugins, p)
		}
	}
	return plugins
}

func decodePlugin(raw any, index int, errs *MalformedConfigError) (Plugin, bool) {
	switch val := raw.(type) {
	case string:
		return Plugin{Name: val}, true
	case map[string]any:
		prefix := fmt.Sprintf("plugins[%d].", index)
		rejectUnknownKeys(val, pluginKeys, prefix, errs)

		name, ok := val["name"].(string)
		if !ok {
			errs.Addf("%sname must be a string (got %s)", prefix, codec.TypeName(val["name"]))
			return Plugin{}, false
		}

		p := Plugin{Name: name}
		switch opts := val["options"].(type) {
		case nil:
		case map[string]any:
			if len(opts) > 0 {
				p.Options = opts
			}
		default:
			errs.Addf("%soptions must be a mapping (got %s)", prefix, codec.TypeName(opts))
			return Plugin{}, false
		}
		return p, true
	default:
		errs.Addf("plugins[%d] must be a string or mapping (got %s)", index, codec.TypeName(raw))
		return Plugin{}, false
	}
}
