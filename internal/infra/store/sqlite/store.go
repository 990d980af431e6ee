// Package sqlite provides repositories backed by an embedded SQLite document store.
//
// Every entity is a JSON document in the documents table, keyed by
// (collection, id) and stamped with the entity's schema version.
package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	zlog "github.com/rs/zerolog/log"
)

// Collections
const (
	CollectionPlaylists = "playlists"
	CollectionJobs      = "jobs"
	CollectionKV        = "kv"
)

var errNoDocument = errors.New("document not found")

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection     TEXT    NOT NULL,
	id             TEXT    NOT NULL,
	schema_version INTEGER NOT NULL DEFAULT 1,
	body           BLOB    NOT NULL,
	updated_at     TEXT    NOT NULL,
	PRIMARY KEY (collection, id)
);
`

// Store owns the database handle shared by the repositories.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the database at dsn and migrates the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite db")
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to ping sqlite db")
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migration failed")
	}

	zlog.Info().Msgf("sqlite: opened dsn=%s", dsn)
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

func (s *Store) get(ctx context.Context, collection, id string) ([]byte, error) {
	var body []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT body FROM documents WHERE collection = ? AND id = ?", collection, id,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errNoDocument
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s/%s", collection, id)
	}
	return body, nil
}

func (s *Store) put(ctx context.Context, collection, id string, schemaVersion int, body []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, schema_version, body, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			schema_version = excluded.schema_version,
			body = excluded.body,
			updated_at = excluded.updated_at
	`, collection, id, schemaVersion, body, s.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return errors.Wrapf(err, "failed to save %s/%s", collection, id)
	}
	return nil
}

func (s *Store) delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ? AND id = ?", collection, id)
	if err != nil {
		return errors.Wrapf(err, "failed to delete %s/%s", collection, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return errNoDocument
	}
	return nil
}

// list returns every document of a collection ordered by id.
func (s *Store) list(ctx context.Context, collection string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT body FROM documents WHERE collection = ? ORDER BY id", collection)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list %s", collection)
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, errors.Wrapf(err, "failed to scan %s", collection)
		}
		out = append(out, body)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to iterate %s", collection)
	}
	return out, nil
}
