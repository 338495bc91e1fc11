package templates

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	appErrors "resumeforge/internal/errors"
)

// Watcher refreshes a Catalog when its directory changes.
type Watcher struct {
	mu sync.Mutex

	catalog       *Catalog
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	stopChan   chan struct{}
	reloadChan chan struct{}
	done       chan struct{}

	onReload func()
	logger   *appErrors.Logger
	running  bool
}

// NewWatcher creates a watcher for catalog. onReload, if set, runs after
// every refresh.
func NewWatcher(catalog *Catalog, debounceDelay time.Duration, onReload func(), logger *appErrors.Logger) *Watcher {
	if debounceDelay == 0 {
		debounceDelay = 500 * time.Millisecond
	}
	if logger == nil {
		logger = appErrors.NewNopLogger()
	}
	return &Watcher{
		catalog:       catalog,
		debounceDelay: debounceDelay,
		stopChan:      make(chan struct{}),
		reloadChan:    make(chan struct{}, 1),
		done:          make(chan struct{}),
		onReload:      onReload,
		logger:        logger,
	}
}

// Start begins watching the catalog directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("template watcher is already running")
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(w.catalog.Dir()); err != nil {
		if closeErr := fsWatcher.Close(); closeErr != nil {
			w.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to watch directory %s: %w", w.catalog.Dir(), err)
	}

	w.fsWatcher = fsWatcher
	w.running = true
	go w.watchLoop()

	w.logger.Info("Template watcher started",
		"dir", w.catalog.Dir(),
		"debounce_delay", w.debounceDelay)
	return nil
}

// Stop ends the watch loop and releases the file watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	close(w.stopChan)
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.running = false
	w.mu.Unlock()

	<-w.done
	if err := w.fsWatcher.Close(); err != nil {
		w.logger.LogError(err, "Failed to close file system watcher")
		return err
	}

	w.logger.Info("Template watcher stopped")
	return nil
}

// IsRunning returns whether the watcher is currently running
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) watchLoop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if relevant(event) {
				w.scheduleReload()
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.LogError(err, "Template watcher error")

		case <-w.reloadChan:
			if err := w.catalog.Refresh(); err != nil {
				w.logger.LogError(err, "Failed to refresh templates")
			}
			if w.onReload != nil {
				w.onReload()
			}

		case <-w.stopChan:
			return
		}
	}
}

// relevant reports whether event can change the listing or the details.
func relevant(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	switch {
	case base == detailsFile:
		return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
	case strings.HasSuffix(base, templateExt):
		return event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
	default:
		return false
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		select {
		case w.reloadChan <- struct{}{}:
		default:
		}
	})
}
