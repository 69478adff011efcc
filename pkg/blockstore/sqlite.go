// sqlite.go persists the block store in SQLite, WAL mode: the
// database is the durable medium, not just a cache in front of one.
package blockstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ipfs/go-cid"

	_ "modernc.org/sqlite"
)

// SQLite is a Store backed by a SQLite database in WAL mode.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and ensures its
// schema exists.
func OpenSQLite(path string) (*SQLite, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("blockstore: open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("blockstore: migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS objects (
		hash    TEXT PRIMARY KEY,
		data    BLOB NOT NULL,
		size    INTEGER NOT NULL,
		created TEXT NOT NULL
	);
	`)
	return err
}

// Put hashes object and persists it keyed by that hash. Writing the
// same object twice is a no-op (content-addressing makes it
// idempotent) rather than an error.
func (s *SQLite) Put(_ context.Context, object []byte) (cid.Cid, error) {
	hash, err := ContentHash(object)
	if err != nil {
		return cid.Undef, err
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	err = retryOnContention(func() error {
		_, err := s.db.Exec(
			`INSERT INTO objects (hash, data, size, created) VALUES (?, ?, ?, ?)
			 ON CONFLICT(hash) DO NOTHING`,
			hash.String(), object, len(object), now,
		)
		return err
	})
	if err != nil {
		return cid.Undef, fmt.Errorf("blockstore: put %s: %w", hash, err)
	}
	return hash, nil
}

// Get retrieves the object stored under hash, or ErrNotFound.
func (s *SQLite) Get(_ context.Context, hash cid.Cid) ([]byte, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT data FROM objects WHERE hash = ?`, hash.String()).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("blockstore: get %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("blockstore: get %s: %w", hash, err)
	}
	return data, nil
}

// Has reports whether hash is present.
func (s *SQLite) Has(_ context.Context, hash cid.Cid) (bool, error) {
	var exists int
	err := s.db.QueryRow(`SELECT 1 FROM objects WHERE hash = ?`, hash.String()).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("blockstore: has %s: %w", hash, err)
	}
	return true, nil
}

// Count returns the number of stored objects. Used by the CLI's stat
// subcommand.
func (s *SQLite) Count() int64 {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM objects`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// TotalBytes returns the sum of stored object sizes.
func (s *SQLite) TotalBytes() int64 {
	var n int64
	if err := s.db.QueryRow(`SELECT COALESCE(SUM(size), 0) FROM objects`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the database connection.
func (s *SQLite) Close() error { return s.db.Close() }

var _ Store = (*SQLite)(nil)
