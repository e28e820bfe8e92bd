package descriptor

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ReloadFunc is called with a freshly loaded descriptor after the file changes.
// A returned error is logged; it does not undo the reload.
type ReloadFunc func(*Descriptor) error

// ErrorFunc is called when a changed file fails to load.
// The previous descriptor stays in effect.
type ErrorFunc func(error)

const defaultDebounce = 100 * time.Millisecond

// Watcher reloads a descriptor file when it changes on disk.
// It watches the parent directory so that atomic saves (write temp file,
// rename over target) are seen, and debounces bursts of events from editors.
type Watcher struct {
	ctx       context.Context
	fsWatcher *fsnotify.Watcher
	cancel    context.CancelFunc
	path      string
	onReload  []ReloadFunc
	onError   []ErrorFunc
	debounce  time.Duration
	mu        sync.RWMutex
	closed    bool
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets how long the watcher waits for events to settle.
// Default is 100ms.
func WithDebounceDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher creates a watcher for the descriptor at path. The path is
// resolved to an absolute path; its directory must exist.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:      absPath,
		fsWatcher: fsWatcher,
		debounce:  defaultDebounce,
		ctx:       ctx,
		cancel:    cancel,
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		cancel()
		if closeErr := fsWatcher.Close(); closeErr != nil {
			logger().Error().Err(closeErr).Msg("failed to close watcher after add failure")
		}
		return nil, err
	}

	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// OnReload registers a callback invoked after each successful reload.
// Callbacks run in registration order.
func (w *Watcher) OnReload(fn ReloadFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = append(w.onReload, fn)
}

// OnError registers a callback invoked when a reload fails.
func (w *Watcher) OnError(fn ErrorFunc) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onError = append(w.onError, fn)
}

// Watch processes file events until ctx is canceled or the watcher is closed.
// Only Write and Create events for the watched file trigger a reload.
func (w *Watcher) Watch(ctx context.Context) error {
	var (
		timer   *time.Timer
		timerMu sync.Mutex
		target  = filepath.Base(w.path)
	)

	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, target) {
				continue
			}
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.fire)
			timerMu.Unlock()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			logger().Error().Err(err).Msg("descriptor watcher error")
		}
	}
}

func relevant(event fsnotify.Event, target string) bool {
	if filepath.Base(event.Name) != target {
		return false
	}
	// Chmod events from indexers and antivirus tools are ignored.
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

// fire runs after the debounce window. A closed watcher never reloads.
func (w *Watcher) fire() {
	select {
	case <-w.ctx.Done():
		return
	default:
	}
	w.reload()
}

func (w *Watcher) reload() {
	d, err := Load(w.path)

	w.mu.RLock()
	onReload := append([]ReloadFunc(nil), w.onReload...)
	onError := append([]ErrorFunc(nil), w.onError...)
	w.mu.RUnlock()

	if err != nil {
		logger().Error().Err(err).Str("path", w.path).Msg("failed to reload descriptor")
		for _, fn := range onError {
			fn(err)
		}
		return
	}

	logger().Info().Str("path", w.path).Str("dark_mode", string(d.EffectiveDarkMode())).
		Int("content_patterns", len(d.Content)).Msg("descriptor reloaded")

	for _, fn := range onReload {
		if err := fn(d); err != nil {
			logger().Error().Err(err).Msg("descriptor reload callback error")
		}
	}
}

// Close stops the watcher. Pending debounced reloads are dropped.
// Returns ErrWatcherClosed if already closed.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	w.closed = true
	w.cancel()

	return w.fsWatcher.Close()
}
