// Package watcher implements the FileWatcher port on fsnotify.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// eventBuffer is the capacity of the emitted event channel. Bursts
// beyond it block the fsnotify reader, never the consumer.
const eventBuffer = 100

// Watcher monitors a directory for file changes using fsnotify.
// Hidden files and files without a watched extension never produce
// events.
type Watcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
}

// New creates a file watcher for the given extensions (with leading
// dot, e.g. ".txt"). An empty list falls back to a minimal default;
// callers normally pass the extractor registry's supported set.
func New(extensions []string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if len(extensions) == 0 {
		extensions = []string{".txt", ".md", ".pdf"}
	}

	return &Watcher{
		watcher:    w,
		extensions: extensions,
	}, nil
}

// Watch starts monitoring dir and returns the event channel.
// The channel closes when ctx is cancelled or the watcher closes.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan domain.FileEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	events := make(chan domain.FileEvent, eventBuffer)

	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.isWatched(event.Name) {
					continue
				}

				var op domain.FileOperation
				switch {
				case event.Op&fsnotify.Create == fsnotify.Create:
					op = domain.FileCreated
				case event.Op&fsnotify.Write == fsnotify.Write:
					op = domain.FileModified
				case event.Op&fsnotify.Remove == fsnotify.Remove,
					event.Op&fsnotify.Rename == fsnotify.Rename:
					// A rename away from the directory is a removal as
					// far as the chunk store is concerned.
					op = domain.FileRemoved
				default:
					continue
				}

				select {
				case events <- domain.FileEvent{Path: event.Name, Op: op}:
				case <-ctx.Done():
					return
				}
			case _, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return events, nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// isWatched reports whether the path is a visible file with a watched
// extension.
func (w *Watcher) isWatched(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}

	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
