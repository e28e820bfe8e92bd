package di

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/samber/do/v2"

	"github.com/omarluq/twcfg/internal/cache"
	"github.com/omarluq/twcfg/internal/descriptor"
	"github.com/omarluq/twcfg/internal/pages"
	"github.com/omarluq/twcfg/internal/server"
)

// LoggerService wraps the zerolog logger for DI.
type LoggerService struct {
	Logger *zerolog.Logger
	closer io.Closer
}

// NewLogger creates the zerolog logger from configuration and hands it to
// the packages that log through a package-level logger.
func NewLogger(i do.Injector) (*LoggerService, error) {
	cfgSvc := do.MustInvoke[*ConfigService](i)

	logger, closer, err := server.NewLogger(cfgSvc.Config.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	descriptor.SetLogger(&logger)
	cache.SetLogger(&logger)
	pages.SetLogger(&logger)

	return &LoggerService{Logger: &logger, closer: closer}, nil
}

// Shutdown implements do.Shutdowner and closes a log file if one is open.
func (l *LoggerService) Shutdown() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}
