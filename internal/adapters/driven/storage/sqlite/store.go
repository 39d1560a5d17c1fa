// Package sqlite implements the ChunkStore port on a local SQLite
// database. Similarity queries run as a brute-force cosine scan over
// the stored vectors, which keeps the store dependency-free of any
// vector index and is exact by construction.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/weftlabs/weft/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/weftlabs/weft/internal/core/domain"
	"github.com/weftlabs/weft/internal/core/ports/driven"
)

// DefaultEmbedWorkers bounds how many chunks are embedded concurrently
// during an upsert.
const DefaultEmbedWorkers = 4

// Ensure Store implements the interface.
var _ driven.ChunkStore = (*Store)(nil)

// Store is a SQLite-backed chunk store. Embeddings are computed through
// the configured EmbeddingService at write time and stored inline with
// the row.
type Store struct {
	db       *sql.DB
	path     string
	embedder driven.EmbeddingService
	workers  int
}

// Option configures the store.
type Option func(*Store)

// WithEmbedWorkers sets how many embedding requests may run
// concurrently during an upsert. Values below one fall back to the
// default.
func WithEmbedWorkers(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewStore creates a SQLite chunk store at the specified data directory.
// If dataDir is empty, defaults to ~/.weft/data.
func NewStore(dataDir string, embedder driven.EmbeddingService, opts ...Option) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".weft", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", domain.ErrStoreUnavailable, err)
	}

	dbPath := filepath.Join(dataDir, "chunks.db")

	// WAL mode lets the embed workers write rows concurrently.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", domain.ErrStoreUnavailable, err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		embedder: embedder,
		workers:  DefaultEmbedWorkers,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %v", domain.ErrStoreUnavailable, err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_chunks.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Writes ====================

// Upsert embeds and persists the given chunks. Chunks that already
// carry an embedding are written as-is; the rest are embedded through
// the store's EmbeddingService, at most workers requests in flight.
//
// Every row commits on its own, so chunks written before a mid-batch
// failure stay durable and visible. The first error aborts the
// remaining work and is returned.
func (s *Store) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, chunk := range chunks {
		g.Go(func() error {
			if !chunk.HasEmbedding() {
				embedding, err := s.embedder.Embed(ctx, embedInput(chunk.Content))
				if err != nil {
					return fmt.Errorf("embedding chunk %s: %w", chunk.ID, err)
				}
				chunk.Embedding = embedding
			}
			return s.writeChunk(ctx, chunk)
		})
	}

	return g.Wait()
}

// writeChunk inserts or replaces a single row in its own transaction.
func (s *Store) writeChunk(ctx context.Context, chunk domain.Chunk) error {
	processedAt := chunk.ProcessedAt
	if processedAt.IsZero() {
		processedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chunks (id, source, chunk_index, content, token_count, embedding, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			chunk_index = excluded.chunk_index,
			content = excluded.content,
			token_count = excluded.token_count,
			embedding = excluded.embedding,
			processed_at = excluded.processed_at
	`, chunk.ID, chunk.Source, chunk.Index, chunk.Content, chunk.TokenCount,
		float32SliceToBytes(chunk.Embedding), processedAt)

	if err != nil {
		return fmt.Errorf("%w: saving chunk %s: %v", domain.ErrStoreUnavailable, chunk.ID, err)
	}
	return nil
}

// DeleteBySource removes every chunk ingested from the given source.
// Deleting a source with no chunks is a no-op.
func (s *Store) DeleteBySource(ctx context.Context, source string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM chunks WHERE source = ?", source)
	if err != nil {
		return fmt.Errorf("%w: deleting source %s: %v", domain.ErrStoreUnavailable, source, err)
	}
	return nil
}

// ==================== Reads ====================

// Query embeds the query text and returns the k most similar chunks,
// scored by cosine similarity, best first. Chunks with equal scores
// order by id so results are deterministic. Returned chunks do not
// carry embeddings. An empty store yields an empty result.
func (s *Store) Query(ctx context.Context, text string, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, nil
	}

	queryEmbedding, err := s.embedder.Embed(ctx, embedInput(text))
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, chunk_index, content, token_count, embedding, processed_at
		FROM chunks
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var scored []domain.ScoredChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		if err := rows.Scan(&chunk.ID, &chunk.Source, &chunk.Index, &chunk.Content,
			&chunk.TokenCount, &embeddingBlob, &chunk.ProcessedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %v", domain.ErrStoreUnavailable, err)
		}

		score := cosineSimilarity(queryEmbedding, bytesToFloat32Slice(embeddingBlob))
		scored = append(scored, domain.ScoredChunk{Chunk: chunk, Score: score})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %v", domain.ErrStoreUnavailable, err)
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}

// GetByIDs returns the chunks matching the given ids, ordered by id.
// Missing ids are silently omitted and embeddings are never loaded.
// An empty id list returns immediately without touching the store.
func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]domain.Chunk, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, source, chunk_index, content, token_count, processed_at
		FROM chunks WHERE id IN (%s)
		ORDER BY id
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying chunks by id: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		if err := rows.Scan(&chunk.ID, &chunk.Source, &chunk.Index, &chunk.Content,
			&chunk.TokenCount, &chunk.ProcessedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning chunk: %v", domain.ErrStoreUnavailable, err)
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating chunks: %v", domain.ErrStoreUnavailable, err)
	}

	return chunks, nil
}

// ListSources returns the distinct sources present in the store, sorted.
func (s *Store) ListSources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT source FROM chunks ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("%w: listing sources: %v", domain.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var sources []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("%w: scanning source: %v", domain.ErrStoreUnavailable, err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sources: %v", domain.ErrStoreUnavailable, err)
	}

	return sources, nil
}

// ==================== Helpers ====================

// embedInput flattens newlines to spaces before embedding. Stored
// content keeps its newlines; only the text sent to the embedder is
// flattened.
func embedInput(text string) string {
	return strings.ReplaceAll(text, "\n", " ")
}

// cosineSimilarity calculates cosine similarity between two vectors.
// Mismatched or zero-length vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
