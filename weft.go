// Package weft turns documents into a retrieval substrate for
// question answering. Files are split into overlapping token windows,
// embedded, and persisted; queries return the most similar windows
// together with their sequential neighbours so a language model sees
// coherent surrounding text instead of isolated fragments.
//
// Open assembles the whole application from the TOML config once at
// startup. The returned App is immutable and safe for concurrent use;
// callers pass it (or the services it exposes) explicitly instead of
// reaching for package-level state.
package weft

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/weftlabs/weft/internal/adapters/driven/ai"
	"github.com/weftlabs/weft/internal/adapters/driven/config/file"
	"github.com/weftlabs/weft/internal/adapters/driven/storage/sqlite"
	"github.com/weftlabs/weft/internal/adapters/driven/watcher"
	"github.com/weftlabs/weft/internal/chunker"
	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driving"
	"github.com/weftlabs/weft/internal/core/services"
	"github.com/weftlabs/weft/internal/extractors"
	"github.com/weftlabs/weft/internal/logger"
)

// keyLogVerbose is the config key that enables verbose logging without
// touching code.
const keyLogVerbose = "logging.verbose"

// Config controls where the application finds its configuration.
// Everything else (providers, chunking geometry, retrieval defaults,
// storage location) lives in the config file itself.
type Config struct {
	// ConfigDir is the directory holding config.toml and prompts/.
	// Empty selects ~/.weft.
	ConfigDir string

	// Verbose enables debug logging to stderr. The config file's
	// logging.verbose key enables it too; either one wins.
	Verbose bool
}

// App is the assembled application: an immutable service context
// constructed once by Open and shared by all callers.
type App struct {
	settings  driving.SettingsService
	ingest    driving.IngestService
	retrieval driving.RetrievalService
	answer    driving.AnswerService

	store *sqlite.Store
	ai    *ai.InitResult

	watch    *services.WatchLoop
	watcher  *watcher.Watcher
	watchDir string

	warnings []string
}

// Open loads settings, connects the AI providers and the chunk store,
// and wires the services. The embedding provider must be configured
// and reachable; a missing or unreachable generator does not fail Open
// but leaves the App retrieval-only (see Warnings and RetrievalOnly).
//
// Callers own the returned App and must Close it.
func Open(cfg Config) (*App, error) {
	configStore, err := file.NewConfigStore(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config store: %w", err)
	}
	logger.SetVerbose(cfg.Verbose || configStore.GetBool(keyLogVerbose))
	logger.Section("Startup")

	settingsSvc := services.NewSettingsService(configStore)
	settings, err := settingsSvc.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	aiResult, err := ai.InitialiseServices(&settings.Embedding, &settings.LLM)
	if err != nil {
		return nil, err
	}
	for _, warning := range aiResult.Warnings {
		logger.Warn("%s", warning)
	}

	store, err := sqlite.NewStore(settings.Storage.DataDir, aiResult.EmbeddingService,
		sqlite.WithEmbedWorkers(settings.Storage.EmbedWorkers))
	if err != nil {
		aiResult.Close()
		return nil, err
	}

	splitter, err := chunker.New(
		chunker.WithWindowSize(settings.Chunking.WindowSize),
		chunker.WithOverlap(settings.Chunking.Overlap),
	)
	if err != nil {
		store.Close()
		aiResult.Close()
		return nil, err
	}

	promptDir := ""
	if cfg.ConfigDir != "" {
		promptDir = filepath.Join(cfg.ConfigDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		store.Close()
		aiResult.Close()
		return nil, fmt.Errorf("open prompt store: %w", err)
	}

	registry := extractors.Default()
	ingestor := services.NewIngestor(store, registry, splitter)
	retriever := services.NewRetriever(store, settings.Retrieval)
	answerer := services.NewAnswerer(retriever, aiResult.LLMService, prompts, settings.LLM)

	app := &App{
		settings:  settingsSvc,
		ingest:    ingestor,
		retrieval: retriever,
		answer:    answerer,
		store:     store,
		ai:        aiResult,
		watchDir:  settings.Ingest.WatchDir,
		warnings:  aiResult.Warnings,
	}

	if app.watchDir != "" {
		fw, err := watcher.New(registry.SupportedExtensions())
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("create watcher: %w", err)
		}
		app.watcher = fw
		app.watch = services.NewWatchLoop(fw, ingestor, 0)
	}

	logger.Info("Embedding: %s (%d dimensions)",
		aiResult.EmbeddingService.ModelName(), aiResult.EmbeddingService.Dimensions())
	if aiResult.LLMService != nil {
		logger.Info("Generator: %s", aiResult.LLMService.ModelName())
	} else {
		logger.Info("Generator: none, running retrieval-only")
	}

	return app, nil
}

// Ingest returns the ingestion service.
func (a *App) Ingest() driving.IngestService { return a.ingest }

// Retrieval returns the retrieval service.
func (a *App) Retrieval() driving.RetrievalService { return a.retrieval }

// Answer returns the answer service. With no generator configured,
// Ask fails with domain.ErrLLMUnavailable while retrieval keeps
// working.
func (a *App) Answer() driving.AnswerService { return a.answer }

// Settings returns the settings service.
func (a *App) Settings() driving.SettingsService { return a.settings }

// RetrievalOnly reports whether the App runs without a generator.
func (a *App) RetrievalOnly() bool { return a.ai.LLMService == nil }

// Warnings returns non-fatal startup issues, such as a misconfigured
// generator that left the App retrieval-only.
func (a *App) Warnings() []string {
	return append([]string(nil), a.warnings...)
}

// WatchDir returns the directory monitored by Watch, empty when
// watching is not configured.
func (a *App) WatchDir() string { return a.watchDir }

// Watch blocks ingesting file changes under the configured watch
// directory until ctx is cancelled. It fails immediately when the
// config has no ingest.watch_dir.
func (a *App) Watch(ctx context.Context) error {
	if a.watch == nil {
		return fmt.Errorf("%w: no watch directory configured", domain.ErrInvalidConfiguration)
	}
	return a.watch.Run(ctx, a.watchDir)
}

// Close releases the watcher, the chunk store, and the AI providers.
// The App must not be used afterwards.
func (a *App) Close() error {
	var errs []error
	if a.watcher != nil {
		if err := a.watcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close watcher: %w", err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	if a.ai != nil {
		a.ai.Close()
	}
	return errors.Join(errs...)
}
