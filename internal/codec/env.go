package codec

import (
	"os"
	"strings"
)

// ExpandEnv replaces ${NAME} references with the values of the named environment
// variables. "$$" stands for a literal "$"; any other "$" is kept as written,
// so globs like ./src/$lib/** survive loading.
func ExpandEnv(data []byte) []byte {
	return []byte(Expand(string(data), os.Getenv))
}

// Expand is ExpandEnv with a custom lookup.
func Expand(s string, lookup func(string) string) string {
	if !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}

		switch s[i+1] {
		case '$':
			b.WriteByte('$')
			i++
		case '{':
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 || !isEnvName(s[i+2:i+2+end]) {
				b.WriteByte('$')
				continue
			}
			b.WriteString(lookup(s[i+2 : i+2+end]))
			i += end + 2
		default:
			b.WriteByte('$')
		}
	}

	return b.String()
}

// EscapeDollars doubles every "$" so ExpandEnv reads s back unchanged.
func EscapeDollars(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}

// Escape returns a copy of a value tree with EscapeDollars applied to every
// string and mapping key. The tree is normalized first.
func Escape(v any) any {
	switch val := Normalize(v).(type) {
	case string:
		return EscapeDollars(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[EscapeDollars(k)] = Escape(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Escape(item)
		}
		return out
	default:
		return val
	}
}

func isEnvName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
