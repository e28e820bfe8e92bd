package pages

import "context"

// Store is the page API used by the HTTP layer.
type Store interface {
	// Init prepares the store and loads the first snapshot.
	Init(ctx context.Context) error

	// Hydrate reloads the snapshot from the repository.
	Hydrate(ctx context.Context) error

	GetPage(ctx context.Context, hash string) (Page, error)
	GetPages(ctx context.Context) ([]Page, error)
	CreatePage(ctx context.Context, req Request) (Page, error)
	UpdatePage(ctx context.Context, req Request) (Page, error)
	DeletePage(ctx context.Context, hash string) error

	// SearchPages returns pages whose hash, name, content or author contain
	// query, ignoring case and the characters '-', ':' and '{'.
	SearchPages(ctx context.Context, query string) ([]Page, error)
}

// Repository persists pages. Update and Delete return ErrPageNotFound when
// no row has the hash; Insert returns ErrPageExists on a duplicate hash.
type Repository interface {
	List(ctx context.Context) ([]Page, error)
	Insert(ctx context.Context, page Page) (Page, error)
	Update(ctx context.Context, page Page) error
	Delete(ctx context.Context, hash string) error
	Close() error
}

