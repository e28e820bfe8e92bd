package pages

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	hashAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	hashLength   = 8
)

var slugInvalid = regexp.MustCompile(`[^a-z0-9-]+`)

// Slugify turns a page title into a hash: lowercase, spaces become dashes,
// and anything outside [a-z0-9-] is dropped.
func Slugify(title string) string {
	slug := strings.ReplaceAll(strings.ToLower(title), " ", "-")
	return slugInvalid.ReplaceAllString(slug, "")
}

// RandomHash returns eight crypto-random alphanumeric characters.
func RandomHash() (string, error) {
	var b strings.Builder
	b.Grow(hashLength)

	limit := big.NewInt(int64(len(hashAlphabet)))
	for range hashLength {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b.WriteByte(hashAlphabet[n.Int64()])
	}
	return b.String(), nil
}
