// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Ingestor turns files into stored chunks, Retriever answers
// similarity queries with surrounding context, Answerer grounds
// language-model generation on retrieved chunks, WatchLoop keeps
// a directory in sync with the store, and SettingsService manages
// persisted configuration.
package services
