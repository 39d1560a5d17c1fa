package driven

import (
	"context"

	"github.com/weftlabs/weft/internal/core/domain"
)

// FileWatcher monitors a directory for file changes.
// Used for watch-folder ingestion: created and modified files are
// re-ingested, removed files have their source deleted.
type FileWatcher interface {
	// Watch starts monitoring dir and returns the event channel.
	// The channel closes when ctx is cancelled or the watcher closes.
	Watch(ctx context.Context, dir string) (<-chan domain.FileEvent, error)

	// Close stops the watcher and releases resources.
	Close() error
}
