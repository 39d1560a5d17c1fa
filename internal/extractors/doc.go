// Package extractors provides implementations of the Extractor interface
// for the supported document formats. Each extractor knows how to pull
// plain text out of one family of file extensions.
//
// Extractors are registered with the Registry at startup; the registry
// dispatches on the file extension and rejects anything unregistered.
package extractors
