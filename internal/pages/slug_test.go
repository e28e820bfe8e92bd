package pages_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omarluq/twcfg/internal/pages"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"Getting Started: Dark Mode", "getting-started-dark-mode"},
		{"v2.0 Release!", "v20-release"},
		{"already-a-slug", "already-a-slug"},
		{"Ünïcode", "ncode"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, pages.Slugify(tt.title))
		})
	}
}

func TestRandomHash(t *testing.T) {
	t.Parallel()

	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	seen := make(map[string]bool)
	for range 50 {
		hash, err := pages.RandomHash()
		require.NoError(t, err)
		assert.Len(t, hash, 8)
		for _, r := range hash {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
		}
		seen[hash] = true
	}

	assert.Greater(t, len(seen), 45, "hashes should rarely repeat")
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 9, 12, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "empty is now", value: "", want: now},
		{name: "blank is now", value: "  ", want: now},
		{name: "date only", value: "2023-11-05", want: time.Date(2023, 11, 5, 0, 0, 0, 0, time.UTC)},
		{
			name:  "rfc3339 offset",
			value: "2023-11-05T10:00:00+02:00",
			want:  time.Date(2023, 11, 5, 8, 0, 0, 0, time.UTC),
		},
		{name: "garbage", value: "last tuesday", wantErr: true},
		{name: "us format", value: "11/05/2023", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := pages.ParseDate(tt.value, now)
			if tt.wantErr {
				require.ErrorIs(t, err, pages.ErrInvalidRequest)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}
