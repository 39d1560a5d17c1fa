package domain

import "time"

// FileResult is the outcome of ingesting a single file.
// A failed file carries its error here instead of aborting the batch.
type FileResult struct {
	// Path is the input file path as given by the caller.
	Path string

	// Source is the chunk source the file was ingested under
	// (base filename). Empty when extraction never started.
	Source string

	// ChunkCount is the number of chunks written.
	ChunkCount int

	// Err is nil on success.
	Err error
}

// Failed reports whether this file's ingestion failed.
func (r FileResult) Failed() bool {
	return r.Err != nil
}

// BatchReport aggregates per-file results for one ingestion run.
// Batch ingestion is a fold over the inputs: every file yields exactly
// one FileResult and errors never escape the loop.
type BatchReport struct {
	// ID identifies the run.
	ID string

	// Results holds one entry per input file, in input order.
	Results []FileResult

	// Started and Finished bound the run.
	Started  time.Time
	Finished time.Time
}

// Succeeded returns the number of files ingested without error.
func (r *BatchReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if !res.Failed() {
			n++
		}
	}
	return n
}

// Failed returns the number of files that failed.
func (r *BatchReport) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// ChunksWritten returns the total chunks written across all files.
func (r *BatchReport) ChunksWritten() int {
	n := 0
	for _, res := range r.Results {
		n += res.ChunkCount
	}
	return n
}
