package services

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
	"github.com/weftlabs/weft/internal/core/ports/driving"
	"github.com/weftlabs/weft/internal/logger"
)

// defaultDebounce is how long a path must stay quiet after a write
// before it is ingested.
const defaultDebounce = 500 * time.Millisecond

// WatchLoop keeps the chunk store in sync with a watched directory.
// Created and modified files are re-ingested, removed files have their
// source deleted. Per-file failures are logged and never stop the loop.
type WatchLoop struct {
	watcher  driven.FileWatcher
	ingest   driving.IngestService
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatchLoop creates a watch loop. A non-positive debounce selects
// the default.
func NewWatchLoop(watcher driven.FileWatcher, ingest driving.IngestService, debounce time.Duration) *WatchLoop {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &WatchLoop{
		watcher:  watcher,
		ingest:   ingest,
		debounce: debounce,
		pending:  make(map[string]*time.Timer),
	}
}

// Run consumes file events for dir until ctx is cancelled or the
// watcher closes its channel. It returns ctx.Err() on cancellation and
// nil when the channel closes.
func (w *WatchLoop) Run(ctx context.Context, dir string) error {
	events, err := w.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("Watching %s", dir)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				w.cancelPending()
				return nil
			}
			w.handle(ctx, event)
		}
	}
}

// handle dispatches one file event.
func (w *WatchLoop) handle(ctx context.Context, event domain.FileEvent) {
	switch event.Op {
	case domain.FileCreated, domain.FileModified:
		logger.Debug("Change detected: %s", event.Path)
		w.scheduleIngest(ctx, event.Path)

	case domain.FileRemoved:
		logger.Debug("Removal detected: %s", event.Path)
		w.cancelOne(event.Path)
		source := filepath.Base(event.Path)
		if err := w.ingest.DeleteSource(ctx, source); err != nil {
			logger.Warn("Failed to delete source %s: %v", source, err)
		}
	}
}

// scheduleIngest arms, or re-arms, the debounce timer for path.
// Editors emit bursts of writes for a single save; only the last write
// inside the debounce window triggers ingestion.
func (w *WatchLoop) scheduleIngest(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
	}

	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		if _, err := w.ingest.IngestFile(ctx, path); err != nil {
			logger.Warn("Failed to ingest %s: %v", path, err)
		}
	})
}

// cancelOne stops the armed timer for path, if any.
func (w *WatchLoop) cancelOne(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Stop()
		delete(w.pending, path)
	}
}

// cancelPending stops every armed timer.
func (w *WatchLoop) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}
