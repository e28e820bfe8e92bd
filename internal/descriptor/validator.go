package descriptor

import (
	"strings"
)

// Validate checks the descriptor invariants:
//   - darkMode is media or class (empty means media)
//   - content is non-empty and every entry is a non-blank, compilable glob
//   - plugin names are non-empty and unique
//
// Returns a *MalformedConfigError listing every violation, or nil.
func (d *Descriptor) Validate() error {
	errs := &MalformedConfigError{}
	validate(d, errs)
	return errs.ToError()
}

func validate(d *Descriptor, errs *MalformedConfigError) {
	validateDarkMode(d, errs)
	validateContent(d, errs)
	validatePlugins(d, errs)
}

func validateDarkMode(d *Descriptor, errs *MalformedConfigError) {
	if !d.EffectiveDarkMode().IsValid() {
		errs.Addf("darkMode is invalid (got %q, valid: media, class)", d.DarkMode)
	}
}

func validateContent(d *Descriptor, errs *MalformedConfigError) {
	if len(d.Content) == 0 {
		errs.Add("content must not be empty")
		return
	}

	for i, pattern := range d.Content {
		if strings.TrimSpace(pattern) == "" {
			errs.Addf("content[%d] must not be empty", i)
			continue
		}
		if _, err := compilePattern(pattern); err != nil {
			errs.Addf("content[%d] is not a valid glob (got %q): %v", i, pattern, err)
		}
	}
}

func validatePlugins(d *Descriptor, errs *MalformedConfigError) {
	seen := make(map[string]bool, len(d.Plugins))

	for i, p := range d.Plugins {
		if strings.TrimSpace(p.Name) == "" {
			errs.Addf("plugins[%d].name is required", i)
			continue
		}
		if seen[p.Name] {
			errs.Addf("duplicate plugin: %s", p.Name)
		}
		seen[p.Name] = true
	}
}
