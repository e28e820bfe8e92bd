package descriptor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarluq/twcfg/internal/descriptor"
)

func TestMatcherMatch(t *testing.T) {
	t.Parallel()

	m, err := descriptor.NewMatcher([]string{"./templates/**/*.{html,js}", "static/*.css"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"templates/index.html", true},
		{"./templates/index.html", true},
		{"templates/pages/about.html", true},
		{"templates/pages/deep/nested/app.js", true},
		{"templates/pages/app.ts", false},
		{"static/site.css", true},
		{"static/vendor/site.css", false},
		{"other/index.html", false},
		{"templates", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, m.Match(tt.path))
		})
	}
}

func TestMatcherLeadingGlobstar(t *testing.T) {
	t.Parallel()

	m, err := descriptor.NewMatcher([]string{"**/*.md"})
	require.NoError(t, err)

	assert.True(t, m.Match("README.md"))
	assert.True(t, m.Match("docs/guide/intro.md"))
	assert.False(t, m.Match("docs/guide/intro.txt"))
}

func TestMatcherMatchingPatterns(t *testing.T) {
	t.Parallel()

	d, err := descriptor.New([]string{"src/**/*.js", "src/*.{js,ts}", "lib/**"})
	require.NoError(t, err)

	m, err := d.Matcher()
	require.NoError(t, err)

	assert.Equal(t, []string{"src/**/*.js", "src/*.{js,ts}"}, m.MatchingPatterns("src/app.js"))
	assert.Equal(t, []string{"src/**/*.js"}, m.MatchingPatterns("src/util/app.js"))
	assert.Empty(t, m.MatchingPatterns("test/app.js"))
}

func TestMatcherCompileError(t *testing.T) {
	t.Parallel()

	_, err := descriptor.NewMatcher([]string{"ok/*.html", "bad/[a"})
	require.Error(t, err)
	assert.True(t, descriptor.IsMalformed(err))
	assert.Contains(t, err.Error(), `content[1] is not a valid glob (got "bad/[a")`)
}

func TestPatternVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		pattern string
		want    []string
	}{
		{"src/*.html", []string{"src/*.html"}},
		{"src/**/*.html", []string{"src/**/*.html", "src/*.html"}},
		{"**/*.md", []string{"**/*.md", "*.md"}},
		{"**/views/**/*.html", []string{"**/views/**/*.html", "**/views/*.html", "views/*.html"}},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, descriptor.PatternVariants(tt.pattern))
		})
	}
}

func TestNormalizePattern(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "templates/**/*.html", descriptor.NormalizePattern("./templates/**/*.html"))
	assert.Equal(t, "templates/*.html", descriptor.NormalizePattern(" ././templates/*.html "))
}

func TestFromTreeRejectsUnknownPluginKeys(t *testing.T) {
	t.Parallel()

	_, err := descriptor.FromTree(map[string]any{
		"content": []any{"a"},
		"plugins": []any{map[string]any{"name": "forms", "version": "1"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown field "plugins[0].version"`)
}
