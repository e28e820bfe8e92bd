package descriptor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func writeTestDescriptor(t *testing.T, path string, mode DarkMode) {
	t.Helper()

	content := fmt.Sprintf("darkMode: %s\ncontent:\n  - ./templates/**/*.html\n", mode)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write descriptor: %v", err)
	}
}

func startWatcher(t *testing.T, w *Watcher) context.CancelFunc {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_ = w.Watch(ctx)
	}()

	// Allow watcher to initialize
	time.Sleep(50 * time.Millisecond)
	return cancel
}

func TestNewWatcherPathResolution(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tailwind.config.yaml")
	writeTestDescriptor(t, path, DarkModeMedia)

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	absPath, _ := filepath.Abs(path)
	if w.Path() != absPath {
		t.Errorf("Expected path %s, got %s", absPath, w.Path())
	}
}

func TestNewWatcherInvalidPath(t *testing.T) {
	t.Parallel()

	w, err := NewWatcher("/nonexistent/path/to/tailwind.config.yaml")
	if err == nil {
		w.Close()
		t.Fatal("Expected error for non-existent directory")
	}
}

func TestWatcherOnReload(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tailwind.config.yaml")
	writeTestDescriptor(t, path, DarkModeMedia)

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	reloaded := make(chan *Descriptor, 1)
	w.OnReload(func(d *Descriptor) error {
		select {
		case reloaded <- d:
		default:
		}
		return nil
	})

	cancel := startWatcher(t, w)
	defer cancel()

	writeTestDescriptor(t, path, DarkModeClass)

	select {
	case d := <-reloaded:
		if d.DarkMode != DarkModeClass {
			t.Errorf("Expected reloaded darkMode=class, got %s", d.DarkMode)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Reload callback not invoked within timeout")
	}
}

func TestWatcherOnErrorKeepsPrevious(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tailwind.config.yaml")
	writeTestDescriptor(t, path, DarkModeMedia)

	initial, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	rt := NewRuntime(initial)

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	failed := make(chan error, 1)
	w.OnReload(func(d *Descriptor) error {
		rt.Store(d)
		return nil
	})
	w.OnError(func(err error) {
		select {
		case failed <- err:
		default:
		}
	})

	cancel := startWatcher(t, w)
	defer cancel()

	writeTestDescriptor(t, path, "sometimes")

	select {
	case err := <-failed:
		if !IsMalformed(err) {
			t.Errorf("Expected MalformedConfigError, got %T: %v", err, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Error callback not invoked within timeout")
	}

	if rt.Get() != initial {
		t.Error("Runtime descriptor changed after a failed reload")
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tailwind.config.yaml")
	writeTestDescriptor(t, path, DarkModeMedia)

	w, err := NewWatcher(path, WithDebounceDelay(200*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	var callCount atomic.Int32
	w.OnReload(func(_ *Descriptor) error {
		callCount.Add(1)
		return nil
	})

	cancel := startWatcher(t, w)

	modes := []DarkMode{DarkModeClass, DarkModeMedia}
	for i := range 5 {
		writeTestDescriptor(t, path, modes[i%2])
		time.Sleep(20 * time.Millisecond)
	}

	time.Sleep(400 * time.Millisecond)
	cancel()

	count := callCount.Load()
	if count > 2 {
		t.Errorf("Expected at most 2 callbacks due to debouncing, got %d", count)
	}
	if count < 1 {
		t.Errorf("Expected at least 1 callback, got %d", count)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tailwind.config.yaml")
	writeTestDescriptor(t, path, DarkModeMedia)

	w, err := NewWatcher(path, WithDebounceDelay(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	var callCount atomic.Int32
	w.OnReload(func(_ *Descriptor) error {
		callCount.Add(1)
		return nil
	})

	cancel := startWatcher(t, w)
	defer cancel()

	writeTestDescriptor(t, filepath.Join(tmpDir, "other.yaml"), DarkModeClass)
	time.Sleep(200 * time.Millisecond)

	if count := callCount.Load(); count != 0 {
		t.Errorf("Expected no callbacks for unrelated file, got %d", count)
	}
}

func TestWatcherContextCancellation(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tailwind.config.yaml")
	writeTestDescriptor(t, path, DarkModeMedia)

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	watchDone := make(chan struct{})

	go func() {
		_ = w.Watch(ctx)
		close(watchDone)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-watchDone:
	case <-time.After(1 * time.Second):
		t.Fatal("Watch did not return after context cancellation")
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "tailwind.config.yaml")
	writeTestDescriptor(t, path, DarkModeMedia)

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("First Close failed: %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("Expected ErrWatcherClosed, got %v", err)
	}
}
