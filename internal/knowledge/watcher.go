package knowledge

import (
	"context"
	"strings"
	"sync"
	"time"

	"advisim/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the knowledge override directory for changes and triggers
// a reload of the Base. Rapid saves are debounced so one editor write burst
// produces one reload.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	base        *Base
	dir         string
	pending     bool
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	// Stats for debugging
	stats WatcherStats
}

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	Events   int
	Reloads  int
	Errors   int
	LastPath string
}

// NewWatcher creates a Watcher for the base's override directory.
func NewWatcher(base *Base) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     w,
		base:        base,
		dir:         base.dir,
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the event loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		// Directory may not exist yet; the embedded tables stay in effect.
		logging.KnowledgeWarn("watcher: initial watch of %s failed: %v", w.dir, err)
	} else {
		logging.Knowledge("watcher: watching %s", w.dir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
	logging.Knowledge("watcher: stopped")
}

// Stats returns a copy of the watcher counters.
func (w *Watcher) Stats() WatcherStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var lastEvent time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".yaml") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = true
			w.stats.Events++
			w.stats.LastPath = event.Name
			w.mu.Unlock()
			lastEvent = time.Now()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.KnowledgeWarn("watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.mu.Lock()
			due := w.pending && time.Since(lastEvent) >= w.debounceDur
			if due {
				w.pending = false
			}
			w.mu.Unlock()
			if !due {
				continue
			}
			if err := w.base.Reload(); err != nil {
				logging.KnowledgeWarn("watcher: reload failed, keeping previous tables: %v", err)
				w.mu.Lock()
				w.stats.Errors++
				w.mu.Unlock()
				continue
			}
			w.mu.Lock()
			w.stats.Reloads++
			w.mu.Unlock()
		}
	}
}
