// Package render converts page markdown to sanitized HTML.
package render

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/omarluq/twcfg/internal/cache"
	"github.com/omarluq/twcfg/internal/pages"
)

// Renderer turns markdown into HTML and memoizes page bodies in a cache.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	cache     cache.Cache
	ttl       time.Duration
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTTL sets how long rendered pages stay cached. Zero keeps them until evicted.
func WithTTL(ttl time.Duration) Option {
	return func(r *Renderer) {
		r.ttl = ttl
	}
}

// WithSanitizer replaces the default UGC policy.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(r *Renderer) {
		r.sanitizer = policy
	}
}

// New creates a Renderer storing results in c.
func New(c cache.Cache, opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				html.WithXHTML(),
			),
		),
		sanitizer: Sanitizer(),
		cache:     c,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Sanitizer returns the policy applied to rendered markdown: bluemonday's
// UGC policy plus heading ids so anchors survive.
func Sanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").Matching(bluemonday.Paragraph).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	return p
}

// Markdown renders src without caching.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}

	//nolint:gosec // output is sanitized by the policy
	return template.HTML(r.sanitizer.SanitizeBytes(buf.Bytes())), nil
}

// Page renders a page body, serving repeat requests from the cache.
// Edits change the key, so stale bodies are never served.
func (r *Renderer) Page(ctx context.Context, page *pages.Page) (template.HTML, error) {
	body, err := cache.Remember(ctx, r.cache, Key(page), r.ttl, func() ([]byte, error) {
		out, err := r.Markdown(page.Content)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	})
	if err != nil {
		return "", err
	}

	//nolint:gosec // cached bodies were sanitized before storing
	return template.HTML(body), nil
}

// Key is the cache key for a page: its hash and a digest of its markdown.
func Key(page *pages.Page) string {
	sum := sha256.Sum256([]byte(page.Content))
	return "page:" + page.Hash + ":" + hex.EncodeToString(sum[:8])
}
