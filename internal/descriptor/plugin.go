package descriptor

import (
	"reflect"

	"github.com/omarluq/twcfg/internal/codec"
)

// Plugin references an external module that augments the build tool.
// In a file it is written either as a bare name or as a mapping:
//
//	plugins:
//	  - typography
//	  - name: forms
//	    options:
//	      strategy: class
type Plugin struct {
	// Options are passed through to the plugin untouched. Nil when not declared.
	Options map[string]any
	Name    string
}

// NewPlugin returns a plugin reference with optional options.
func NewPlugin(name string, options map[string]any) Plugin {
	p := Plugin{Name: name}
	if len(options) > 0 {
		p.Options, _ = codec.Normalize(options).(map[string]any)
	}
	return p
}

// HasOptions reports whether the plugin declares any options.
func (p Plugin) HasOptions() bool {
	return len(p.Options) > 0
}

// Equal reports whether two plugin references are identical.
// A nil and an empty options mapping are equivalent.
func (p Plugin) Equal(other Plugin) bool {
	if p.Name != other.Name {
		return false
	}
	if !p.HasOptions() || !other.HasOptions() {
		return p.HasOptions() == other.HasOptions()
	}
	return reflect.DeepEqual(p.Options, other.Options)
}

// String returns the plugin name.
func (p Plugin) String() string {
	return p.Name
}

func (p Plugin) clone() Plugin {
	out := Plugin{Name: p.Name}
	if p.HasOptions() {
		out.Options = copyMap(p.Options)
	}
	return out
}

// encode renders the plugin in its most compact persisted form.
func (p Plugin) encode() any {
	if !p.HasOptions() {
		return p.Name
	}
	return map[string]any{
		"name":    p.Name,
		"options": copyMap(p.Options),
	}
}
