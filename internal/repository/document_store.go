package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DocumentStore is a schemaless store of JSON documents grouped in collections.
// Each collection is a table with (id, data, created_at, updated_at).
type DocumentStore interface {
	// CreateDocument inserts doc into collection and returns the new document ID.
	CreateDocument(ctx context.Context, collection string, doc any) (string, error)
	// Initialized reports whether the store holds a live connection pool.
	Initialized() bool
	// Name returns the database name.
	Name() string
	// ListCollections returns up to limit collection names in name order.
	ListCollections(ctx context.Context, limit int) ([]string, error)
	Ping(ctx context.Context) error
}

// PgDocumentStore is the PostgreSQL implementation of DocumentStore.
type PgDocumentStore struct {
	pool *pgxpool.Pool
}

// NewPgDocumentStore creates a PgDocumentStore backed by the given pool.
// A nil pool yields a store that reports itself as not initialized.
func NewPgDocumentStore(pool *pgxpool.Pool) *PgDocumentStore {
	return &PgDocumentStore{pool: pool}
}

// Ensure PgDocumentStore implements DocumentStore at compile time.
var _ DocumentStore = (*PgDocumentStore)(nil)

// CreateDocument inserts doc as JSONB. Failures are returned as *PersistenceError.
func (s *PgDocumentStore) CreateDocument(ctx context.Context, collection string, doc any) (string, error) {
	if strings.TrimSpace(collection) == "" {
		return "", &PersistenceError{Collection: collection, Err: ErrInvalidCollection}
	}
	if !s.Initialized() {
		return "", &PersistenceError{Collection: collection, Err: ErrNotInitialized}
	}

	id := uuid.NewString()
	query := `INSERT INTO ` + pgx.Identifier{collection}.Sanitize() + ` (id, data) VALUES ($1, $2)`
	if _, err := s.pool.Exec(ctx, query, id, doc); err != nil {
		return "", &PersistenceError{Collection: collection, Err: err}
	}
	return id, nil
}

func (s *PgDocumentStore) Initialized() bool {
	return s != nil && s.pool != nil
}

func (s *PgDocumentStore) Name() string {
	if !s.Initialized() {
		return ""
	}
	return s.pool.Config().ConnConfig.Database
}

func (s *PgDocumentStore) ListCollections(ctx context.Context, limit int) ([]string, error) {
	if !s.Initialized() {
		return nil, ErrNotInitialized
	}
	rows, err := s.pool.Query(ctx,
		`SELECT table_name
		 FROM information_schema.tables
		 WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
		 ORDER BY table_name
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *PgDocumentStore) Ping(ctx context.Context) error {
	if !s.Initialized() {
		return ErrNotInitialized
	}
	return s.pool.Ping(ctx)
}
