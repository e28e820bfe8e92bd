package descriptor

import (
	"encoding/json"

	"github.com/samber/mo"
	"github.com/tidwall/gjson"

	"github.com/omarluq/twcfg/internal/codec"
)

// Lookup resolves a dotted path against the persisted form of the descriptor,
// for example "darkMode", "content.0" or "theme.extend.colors.primary".
// Defaults are part of the persisted form, so "plugins" on a descriptor that
// omitted it yields Some([]). Paths that do not resolve yield None.
func (d *Descriptor) Lookup(path string) mo.Option[any] {
	if path == "" {
		return mo.None[any]()
	}

	raw, err := json.Marshal(d.document())
	if err != nil {
		logger().Error().Err(err).Msg("failed to render descriptor for lookup")
		return mo.None[any]()
	}

	result := gjson.GetBytes(raw, path)
	if !result.Exists() {
		return mo.None[any]()
	}
	return mo.Some(codec.Normalize(result.Value()))
}

// LookupString resolves a path and returns its value when it is a string.
func (d *Descriptor) LookupString(path string) mo.Option[string] {
	value, ok := d.Lookup(path).Get()
	if !ok {
		return mo.None[string]()
	}
	s, ok := value.(string)
	if !ok {
		return mo.None[string]()
	}
	return mo.Some(s)
}
