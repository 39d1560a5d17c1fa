// Package sqlite provides the durable ChunkStore implementation.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. Embeddings are stored
// inline as little-endian float32 BLOBs and similarity queries run a
// brute-force cosine scan over the stored vectors.
//
// # Schema
//
// The database schema is managed through versioned migrations embedded from
// the migrations/ directory. Applied versions are recorded in
// schema_migrations.
//
// # Durability
//
// Upserts are row-scoped: each chunk is written in its own autocommit
// statement, so a failure part-way through a batch never rolls back the
// rows already written. A row is only ever written together with the
// embedding produced for it in the same call.
//
// # Thread Safety
//
// All operations are thread-safe. The store runs SQLite in WAL mode, so
// readers observe monotonic visibility while writes proceed.
package sqlite
