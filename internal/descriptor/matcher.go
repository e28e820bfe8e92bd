package descriptor

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/samber/lo"
)

const separator = '/'

// Matcher tests path strings against the descriptor's content globs.
// It never touches the filesystem.
type Matcher struct {
	patterns []compiledPattern
}

type compiledPattern struct {
	source string
	globs  []glob.Glob
}

// Matcher compiles the content patterns. It fails with a *MalformedConfigError
// if a pattern cannot be compiled, which cannot happen for a validated descriptor.
func (d *Descriptor) Matcher() (*Matcher, error) {
	return NewMatcher(d.Content)
}

// NewMatcher compiles glob patterns. Patterns use '/' as separator, support
// brace alternatives ({html,js}), '*' within one segment and '**' across segments.
// A "/**/" segment also matches zero directories, so "src/**/*.js" covers "src/a.js".
func NewMatcher(patterns []string) (*Matcher, error) {
	errs := &MalformedConfigError{}
	m := &Matcher{patterns: make([]compiledPattern, 0, len(patterns))}

	for i, p := range patterns {
		globs, err := compilePattern(p)
		if err != nil {
			errs.Addf("content[%d] is not a valid glob (got %q): %v", i, p, err)
			continue
		}
		m.patterns = append(m.patterns, compiledPattern{source: p, globs: globs})
	}

	if err := errs.ToError(); err != nil {
		return nil, err
	}
	return m, nil
}

// Match reports whether any pattern covers the path.
func (m *Matcher) Match(p string) bool {
	candidate := normalizePath(p)
	return lo.SomeBy(m.patterns, func(cp compiledPattern) bool {
		return cp.matches(candidate)
	})
}

// MatchingPatterns returns the source patterns that cover the path, in declaration order.
func (m *Matcher) MatchingPatterns(p string) []string {
	candidate := normalizePath(p)
	return lo.FilterMap(m.patterns, func(cp compiledPattern, _ int) (string, bool) {
		return cp.source, cp.matches(candidate)
	})
}

func (cp compiledPattern) matches(candidate string) bool {
	return lo.SomeBy(cp.globs, func(g glob.Glob) bool {
		return g.Match(candidate)
	})
}

func compilePattern(pattern string) ([]glob.Glob, error) {
	variants := patternVariants(normalizePattern(pattern))

	globs := make([]glob.Glob, 0, len(variants))
	for _, v := range variants {
		g, err := glob.Compile(v, separator)
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// normalizePattern converts to forward slashes and drops a leading "./".
func normalizePattern(pattern string) string {
	p := filepath.ToSlash(strings.TrimSpace(pattern))
	for strings.HasPrefix(p, "./") {
		p = strings.TrimPrefix(p, "./")
	}
	return p
}

// patternVariants expands globstar segments so they may also match zero directories.
func patternVariants(pattern string) []string {
	variants := []string{pattern}

	collapsed := strings.ReplaceAll(pattern, "/**/", "/")
	if collapsed != pattern {
		variants = append(variants, collapsed)
	}
	if rest, ok := strings.CutPrefix(collapsed, "**/"); ok {
		variants = append(variants, rest)
	}
	return lo.Uniq(variants)
}

func normalizePath(p string) string {
	cleaned := path.Clean(filepath.ToSlash(p))
	return strings.TrimPrefix(cleaned, "./")
}
