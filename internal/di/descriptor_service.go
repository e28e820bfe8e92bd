package di

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"github.com/omarluq/twcfg/internal/descriptor"
	"github.com/omarluq/twcfg/internal/server"
)

// DescriptorService holds the live descriptor. Readers go through Runtime,
// which the watcher swaps atomically on each successful reload.
type DescriptorService struct {
	Runtime *descriptor.Runtime
	watcher *descriptor.Watcher
	metrics *server.Metrics
	logger  *zerolog.Logger
	path    string
}

// NewDescriptor loads the descriptor and, when watching is enabled, creates
// a watcher. The watcher is created but not started; call StartWatching.
func NewDescriptor(i do.Injector) (*DescriptorService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)
	logSvc := do.MustInvoke[*LoggerService](i)
	metricsSvc := do.MustInvoke[*MetricsService](i)

	path := cfgSvc.Config.Descriptor.Path
	d, err := descriptor.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load descriptor from %s: %w", path, err)
	}

	svc := &DescriptorService{
		Runtime: descriptor.NewRuntime(d),
		metrics: metricsSvc.Metrics,
		logger:  logSvc.Logger,
		path:    path,
	}

	if !cfgSvc.Config.Descriptor.Watch {
		return svc, nil
	}

	watcher, err := descriptor.NewWatcher(path)
	if err != nil {
		logSvc.Logger.Warn().Err(err).Str("path", path).Msg("descriptor watcher creation failed, hot-reload disabled")
		return svc, nil
	}
	svc.watcher = watcher

	return svc, nil
}

// Watching reports whether a watcher was created.
func (s *DescriptorService) Watching() bool {
	return s.watcher != nil
}

// StartWatching begins watching the descriptor file. The context controls
// the watcher lifecycle.
func (s *DescriptorService) StartWatching(ctx context.Context) {
	if s.watcher == nil {
		return
	}

	s.watcher.OnReload(func(d *descriptor.Descriptor) error {
		s.Runtime.Store(d)
		s.metrics.DescriptorReloaded(nil)
		s.logger.Info().Str("path", s.path).Msg("descriptor hot-reloaded successfully")
		return nil
	})
	s.watcher.OnError(func(err error) {
		s.metrics.DescriptorReloaded(err)
		s.logger.Warn().Err(err).Str("path", s.path).Msg("descriptor reload failed, keeping previous version")
	})

	go func() {
		if err := s.watcher.Watch(ctx); err != nil {
			s.logger.Error().Err(err).Msg("descriptor watcher error")
		}
	}()

	s.logger.Info().Str("path", s.path).Msg("descriptor file watcher started")
}

// Shutdown implements do.Shutdowner for graceful watcher cleanup.
func (s *DescriptorService) Shutdown() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
