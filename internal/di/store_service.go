package di

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/do/v2"

	"github.com/omarluq/twcfg/internal/pages"
)

// StoreService wraps the page store.
type StoreService struct {
	Store *pages.CachedStore
}

// NewStore opens the sqlite database and hydrates the page snapshot.
func NewStore(i do.Injector) (*StoreService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	do.MustInvoke[*LoggerService](i)
	metricsSvc := do.MustInvoke[*MetricsService](i)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	storage := cfgSvc.Config.Storage
	repo, err := pages.OpenSQLite(ctx, pages.SQLiteConfig{
		Path:        storage.Path,
		BusyTimeout: storage.BusyTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open page store: %w", err)
	}

	store := pages.NewCachedStore(repo)
	if err := store.Init(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}

	if list, err := store.GetPages(ctx); err == nil {
		metricsSvc.Metrics.SetPages(len(list))
	}

	return &StoreService{Store: store}, nil
}

// Shutdown implements do.Shutdowner and closes the database.
func (s *StoreService) Shutdown() error {
	if s.Store != nil {
		return s.Store.Close()
	}
	return nil
}
