// Package pages stores the markdown pages served next to the descriptor.
//
// A Repository persists pages (SQLiteStore). CachedStore wraps a repository
// and serves every read from an in-memory snapshot that is rebuilt after each
// successful write.
package pages

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateOnly is the short date layout accepted in requests.
const DateOnly = "2006-01-02"

var (
	// ErrPageNotFound is returned when no page has the requested hash.
	ErrPageNotFound = errors.New("pages: page not found")

	// ErrPageExists is returned when an explicit hash is already taken.
	ErrPageExists = errors.New("pages: page already exists")

	// ErrInvalidRequest is returned for requests missing required fields
	// or carrying an unparseable date.
	ErrInvalidRequest = errors.New("pages: invalid request")

	// ErrClosed is returned by a repository after Close.
	ErrClosed = errors.New("pages: store closed")
)

// Page is a stored markdown document addressed by its hash.
type Page struct {
	Date    time.Time `json:"date"`
	Hash    string    `json:"hash"`
	Name    string    `json:"name"`
	Content string    `json:"content"`
	Author  string    `json:"author"`
	ID      int64     `json:"id"`
}

// Request is the client payload for creating or updating a page.
// Date is RFC 3339 or YYYY-MM-DD; empty means now.
type Request struct {
	Hash    string `json:"hash"`
	Name    string `json:"name"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Author  string `json:"author"`
}

// ParseDate parses a request date. An empty value yields now.
func ParseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return now.UTC(), nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(DateOnly, value); err == nil {
		return t.UTC(), nil
	}

	return time.Time{}, fmt.Errorf("%w: date %q is not RFC 3339 or %s", ErrInvalidRequest, value, DateOnly)
}

// searchText is the lowercased haystack used by SearchPages.
func (p *Page) searchText() string {
	return normalizeQuery(strings.Join([]string{p.Hash, p.Name, p.Content, p.Author}, " "))
}

var queryReplacer = strings.NewReplacer("-", "", ":", "", "{", "")

// normalizeQuery lowercases s and drops the characters search ignores.
func normalizeQuery(s string) string {
	return queryReplacer.Replace(strings.ToLower(s))
}
