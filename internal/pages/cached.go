package pages

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
)

// maxHashAttempts bounds the retries when a derived hash collides.
const maxHashAttempts = 8

// CachedStore serves reads from an in-memory snapshot of a Repository.
// Writes go to the repository and then rebuild the snapshot.
type CachedStore struct {
	repo     Repository
	now      func() time.Time
	randHash func() (string, error)
	snapshot atomic.Pointer[[]Page]
	writeMu  sync.Mutex
}

// CachedOption configures a CachedStore.
type CachedOption func(*CachedStore)

// WithClock sets the time source used for requests without a date.
func WithClock(now func() time.Time) CachedOption {
	return func(s *CachedStore) {
		s.now = now
	}
}

// WithHashSource replaces RandomHash, for deterministic tests.
func WithHashSource(fn func() (string, error)) CachedOption {
	return func(s *CachedStore) {
		s.randHash = fn
	}
}

// NewCachedStore wraps repo. Call Init before serving reads.
func NewCachedStore(repo Repository, opts ...CachedOption) *CachedStore {
	s := &CachedStore{
		repo:     repo,
		now:      time.Now,
		randHash: RandomHash,
	}
	for _, opt := range opts {
		opt(s)
	}
	empty := make([]Page, 0)
	s.snapshot.Store(&empty)
	return s
}

// Init loads the first snapshot.
func (s *CachedStore) Init(ctx context.Context) error {
	if err := s.Hydrate(ctx); err != nil {
		return err
	}
	logger().Info().Int("pages", len(s.pages())).Msg("page store ready")
	return nil
}

// Hydrate replaces the snapshot with the repository contents.
func (s *CachedStore) Hydrate(ctx context.Context) error {
	pages, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to hydrate page cache: %w", err)
	}
	if pages == nil {
		pages = make([]Page, 0)
	}
	s.snapshot.Store(&pages)
	return nil
}

func (s *CachedStore) pages() []Page {
	return *s.snapshot.Load()
}

// GetPage returns the page with the given hash or ErrPageNotFound.
func (s *CachedStore) GetPage(_ context.Context, hash string) (Page, error) {
	page, ok := lo.Find(s.pages(), func(p Page) bool {
		return p.Hash == hash
	})
	if !ok {
		return Page{}, fmt.Errorf("%w: %s", ErrPageNotFound, hash)
	}
	return page, nil
}

// GetPages returns every page, newest first.
func (s *CachedStore) GetPages(_ context.Context) ([]Page, error) {
	return slices.Clone(s.pages()), nil
}

// SearchPages filters the snapshot. An empty query returns every page.
func (s *CachedStore) SearchPages(_ context.Context, query string) ([]Page, error) {
	needle := normalizeQuery(strings.TrimSpace(query))
	return lo.Filter(s.pages(), func(p Page, _ int) bool {
		return strings.Contains(p.searchText(), needle)
	}), nil
}

// CreatePage stores a new page. Without an explicit hash one is derived
// from the name; a derived hash that is empty or taken gets a random suffix.
// An explicit hash that is taken returns ErrPageExists.
func (s *CachedStore) CreatePage(ctx context.Context, req Request) (Page, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return Page{}, fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}

	date, err := ParseDate(req.Date, s.now())
	if err != nil {
		return Page{}, err
	}

	hash, err := s.resolveHash(strings.TrimSpace(req.Hash), name)
	if err != nil {
		return Page{}, err
	}

	page, err := s.repo.Insert(ctx, Page{
		Hash:    hash,
		Name:    name,
		Content: req.Content,
		Date:    date,
		Author:  strings.TrimSpace(req.Author),
	})
	if err != nil {
		return Page{}, err
	}

	s.rehydrate(ctx, "create", hash)
	return page, nil
}

// UpdatePage rewrites an existing page. Empty name, content and author keep
// their stored values; an empty date becomes now.
func (s *CachedStore) UpdatePage(ctx context.Context, req Request) (Page, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	hash := strings.TrimSpace(req.Hash)
	if hash == "" {
		return Page{}, fmt.Errorf("%w: hash is required", ErrInvalidRequest)
	}

	page, err := s.GetPage(ctx, hash)
	if err != nil {
		return Page{}, err
	}

	page.Date, err = ParseDate(req.Date, s.now())
	if err != nil {
		return Page{}, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		page.Name = name
	}
	if req.Content != "" {
		page.Content = req.Content
	}
	if author := strings.TrimSpace(req.Author); author != "" {
		page.Author = author
	}

	if err := s.repo.Update(ctx, page); err != nil {
		return Page{}, err
	}

	s.rehydrate(ctx, "update", hash)
	return page, nil
}

// DeletePage removes a page or returns ErrPageNotFound.
func (s *CachedStore) DeletePage(ctx context.Context, hash string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.repo.Delete(ctx, hash); err != nil {
		return err
	}

	s.rehydrate(ctx, "delete", hash)
	return nil
}

// Close closes the repository.
func (s *CachedStore) Close() error {
	return s.repo.Close()
}

// rehydrate refreshes the snapshot after a committed write. A failure leaves
// the previous snapshot in place; the write itself already succeeded.
func (s *CachedStore) rehydrate(ctx context.Context, op, hash string) {
	if err := s.Hydrate(ctx); err != nil {
		logger().Warn().Err(err).Str("op", op).Str("hash", hash).
			Msg("page cache is stale after write")
	}
}

func (s *CachedStore) taken(hash string) bool {
	return lo.ContainsBy(s.pages(), func(p Page) bool {
		return p.Hash == hash
	})
}

func (s *CachedStore) resolveHash(explicit, name string) (string, error) {
	if explicit != "" {
		if s.taken(explicit) {
			return "", fmt.Errorf("%w: %s", ErrPageExists, explicit)
		}
		return explicit, nil
	}

	slug := Slugify(name)
	if slug != "" && !s.taken(slug) {
		return slug, nil
	}

	for range maxHashAttempts {
		suffix, err := s.randHash()
		if err != nil {
			return "", fmt.Errorf("failed to generate page hash: %w", err)
		}

		candidate := suffix
		if slug != "" {
			candidate = slug + "-" + suffix
		}
		if !s.taken(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: could not derive a free hash for %q", ErrPageExists, name)
}
