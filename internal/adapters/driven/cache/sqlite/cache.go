// Package sqlite provides a persistent embedding cache. Embeddings are
// keyed by model name and content hash, so re-indexing unchanged
// content never calls the embedding provider again.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.EmbeddingCache = (*Cache)(nil)

// Cache is a SQLite-backed embedding cache.
type Cache struct {
	db   *sql.DB
	path string
}

// NewCache opens (or creates) the cache database at path. An empty
// path defaults to ~/.solrag/cache/embeddings.db.
func NewCache(path string) (*Cache, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".solrag", "cache", "embeddings.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	// WAL mode lets the indexer read while another process writes.
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS embeddings (
			model        TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			dim          INTEGER NOT NULL,
			vector       BLOB NOT NULL,
			created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (model, content_hash)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating embeddings table: %w", err)
	}

	return &Cache{db: db, path: path}, nil
}

// Get returns the cached vector, or domain.ErrNotFound.
func (c *Cache) Get(ctx context.Context, model, contentHash string) ([]float32, error) {
	var dim int
	var blob []byte
	err := c.db.QueryRowContext(ctx, `
		SELECT dim, vector FROM embeddings WHERE model = ? AND content_hash = ?
	`, model, contentHash).Scan(&dim, &blob)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached embedding: %w", err)
	}

	vector := bytesToFloat32Slice(blob)
	if len(vector) != dim {
		return nil, fmt.Errorf("cached embedding for %s is corrupt: %d values, want %d", contentHash, len(vector), dim)
	}
	return vector, nil
}

// Put stores a vector, overwriting silently.
func (c *Cache) Put(ctx context.Context, model, contentHash string, vector []float32) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO embeddings (model, content_hash, dim, vector)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(model, content_hash) DO UPDATE SET
			dim = excluded.dim,
			vector = excluded.vector
	`, model, contentHash, len(vector), float32SliceToBytes(vector))
	if err != nil {
		return fmt.Errorf("storing embedding: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
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
