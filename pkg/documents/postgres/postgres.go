// Package postgres provides a PostgreSQL implementation of documents.Store.
// It uses pgx/v5 for connection pooling and PostgreSQL full-text search
// for chunk relevance queries.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rekurs-dev/rekurs/pkg/documents"
)

// Store is a PostgreSQL-backed documents.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Ensure Store implements documents.Store at compile time.
var _ documents.Store = (*Store)(nil)

// New creates a new PostgreSQL store with the given configuration.
// If MigrateOnStart is true, schema migrations are applied automatically.
func New(ctx context.Context, cfg Config) (*Store, error) {
	cfg.defaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Verify connectivity.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &Store{pool: pool}

	if cfg.MigrateOnStart {
		if err := s.migrate(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("running migrations: %w", err)
		}
	}

	return s, nil
}

// Put stores a document and its chunks in one transaction.
func (s *Store) Put(ctx context.Context, doc *documents.Document) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (id, filename, full_text, created_at)
		VALUES ($1, $2, $3, $4)
	`, doc.ID, doc.Filename, doc.Text, doc.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return documents.ErrConflict
		}
		return fmt.Errorf("inserting document: %w", err)
	}

	for _, chunk := range doc.Chunks {
		_, err = tx.Exec(ctx, `
			INSERT INTO chunks (doc_id, chunk_index, text, filename)
			VALUES ($1, $2, $3, $4)
		`, chunk.DocID, chunk.Index, chunk.Text, chunk.Filename)
		if err != nil {
			return fmt.Errorf("inserting chunk %d: %w", chunk.Index, err)
		}
	}

	return tx.Commit(ctx)
}

// Get retrieves a document and its chunks by ID.
func (s *Store) Get(ctx context.Context, id string) (*documents.Document, error) {
	doc := &documents.Document{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, filename, full_text, created_at
		FROM documents WHERE id = $1
	`, id).Scan(&doc.ID, &doc.Filename, &doc.Text, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, documents.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}

	doc.Chunks, err = s.chunks(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns all documents with their chunks, oldest first.
func (s *Store) List(ctx context.Context) ([]*documents.Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, filename, full_text, created_at
		FROM documents ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []*documents.Document
	for rows.Next() {
		doc := &documents.Document{}
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.Text, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	for _, doc := range docs {
		doc.Chunks, err = s.chunks(ctx, doc.ID)
		if err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// Delete removes a document; its chunks go with it via ON DELETE CASCADE.
func (s *Store) Delete(ctx context.Context, id string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		"SELECT count(*) FROM chunks WHERE doc_id = $1", id,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", err)
	}

	tag, err := s.pool.Exec(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return 0, fmt.Errorf("deleting document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, documents.ErrNotFound
	}
	return count, nil
}

// Search ranks chunks with PostgreSQL full-text search, best match first.
func (s *Store) Search(ctx context.Context, query, docID string, limit int) ([]documents.SearchResult, error) {
	if strings.TrimSpace(query) == "" || limit <= 0 {
		return nil, nil
	}

	sql := `
		SELECT doc_id, chunk_index, text, filename,
		       ts_rank(tsv, plainto_tsquery('english', $1)) AS rank
		FROM chunks
		WHERE tsv @@ plainto_tsquery('english', $1)
	`
	args := []any{query}
	if docID != "" {
		sql += " AND doc_id = $2"
		args = append(args, docID)
	}
	sql += fmt.Sprintf(" ORDER BY rank DESC, doc_id, chunk_index LIMIT %d", limit)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	defer rows.Close()

	var results []documents.SearchResult
	for rows.Next() {
		var r documents.SearchResult
		var rank float32
		if err := rows.Scan(&r.Chunk.DocID, &r.Chunk.Index, &r.Chunk.Text, &r.Chunk.Filename, &rank); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Score = float64(rank)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}
	return results, nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, "SELECT count(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting documents: %w", err)
	}
	return n, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// chunks loads a document's chunks in index order.
func (s *Store) chunks(ctx context.Context, docID string) ([]documents.Chunk, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT doc_id, chunk_index, text, filename
		FROM chunks WHERE doc_id = $1 ORDER BY chunk_index
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var out []documents.Chunk
	for rows.Next() {
		var c documents.Chunk
		if err := rows.Scan(&c.DocID, &c.Index, &c.Text, &c.Filename); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return out, nil
}

// isDuplicateKey checks if the error is a PostgreSQL unique violation (23505).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
