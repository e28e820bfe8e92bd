package descriptor

import (
	"sync"

	"github.com/rs/zerolog"
)

var (
	loggerMu sync.RWMutex

	// Logger is the package-level logger used by loaders and watchers.
	// It discards output until SetLogger is called.
	Logger = zerolog.Nop()
)

// SetLogger sets the package-level logger. The logger is tagged with
// component: descriptor.
func SetLogger(l *zerolog.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	Logger = l.With().Str("component", "descriptor").Logger()
}

func logger() *zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	l := Logger
	return &l
}
