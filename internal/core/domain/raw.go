package domain

import (
	"path/filepath"
	"strings"
)

// RawFile represents opaque bytes read from disk.
// It is the ingestion input before text extraction.
type RawFile struct {
	// Path is the original location on disk.
	Path string

	// Name is the base filename. It becomes the chunk source.
	Name string

	// Content is the raw bytes.
	Content []byte
}

// Extension returns the lower-cased file extension including the dot,
// or "" when the name has none. Extractors dispatch on this value.
func (f *RawFile) Extension() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// FileOperation represents the kind of change observed on a watched file.
type FileOperation int

const (
	// FileCreated indicates a new file appeared.
	FileCreated FileOperation = iota

	// FileModified indicates an existing file was written.
	FileModified

	// FileRemoved indicates a file was deleted or renamed away.
	FileRemoved
)

// FileEvent represents a change event from a directory watcher.
// Used for watch-folder ingestion.
type FileEvent struct {
	// Path is the affected file.
	Path string

	// Op is the kind of change.
	Op FileOperation
}
