// Package identitystore persists generated signer keypairs across CLI
// invocations in a local SQLite database, WAL mode: the database is
// the durable medium for one replica's local identities, not a cache
// in front of something else.
package identitystore

import (
	"crypto/ed25519"
	"database/sql"
	"encoding/hex"
	"fmt"
	"math/rand"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/daviddao/ipfslog/pkg/identity"
)

// Store persists identity.Signer keypairs.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures its schema
// exists.
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(60000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("identitystore: open db: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("identitystore: migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS identities (
		id           TEXT PRIMARY KEY,
		type         TEXT NOT NULL,
		public_key   TEXT NOT NULL,
		private_key  TEXT NOT NULL,
		created_at   TEXT NOT NULL,
		last_used_at TEXT NOT NULL
	);
	`)
	return err
}

// Save upserts signer, refreshing last_used_at.
func (s *Store) Save(signer *identity.Signer) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	priv := hex.EncodeToString(signer.PrivateKeyBytes())
	return retryOnContention(func() error {
		_, err := s.db.Exec(
			`INSERT INTO identities (id, type, public_key, private_key, created_at, last_used_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET last_used_at = excluded.last_used_at`,
			signer.Identity.ID, signer.Identity.Type, signer.Identity.PublicKey, priv, now, now,
		)
		return err
	})
}

// Load retrieves the signer registered under id.
func (s *Store) Load(id string) (*identity.Signer, error) {
	var idType, privHex string
	row := s.db.QueryRow(`SELECT type, private_key FROM identities WHERE id = ?`, id)
	if err := row.Scan(&idType, &privHex); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("identitystore: load %q: not found", id)
		}
		return nil, fmt.Errorf("identitystore: load %q: %w", id, err)
	}
	raw, err := hex.DecodeString(privHex)
	if err != nil {
		return nil, fmt.Errorf("identitystore: load %q: decode key: %w", id, err)
	}
	return identity.FromPrivateKey(id, ed25519.PrivateKey(raw))
}

// List returns every identity registered in the store, most recently
// used first.
func (s *Store) List() ([]identity.Identity, error) {
	rows, err := s.db.Query(`SELECT id, type, public_key FROM identities ORDER BY last_used_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("identitystore: list: %w", err)
	}
	defer rows.Close()

	var out []identity.Identity
	for rows.Next() {
		var id identity.Identity
		if err := rows.Scan(&id.ID, &id.Type, &id.PublicKey); err != nil {
			return nil, fmt.Errorf("identitystore: list: scan: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

// retryOnContention rides out transient WAL contention from concurrent
// CLI invocations touching the same identity database.
func retryOnContention(fn func() error) error {
	const maxRetries = 3
	baseDelay := 50 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isTransientSQLiteErr(lastErr) {
			return lastErr
		}
		if attempt < maxRetries {
			delay := baseDelay << uint(attempt)
			time.Sleep(delay + time.Duration(rand.Int63n(int64(baseDelay))))
		}
	}
	return lastErr
}

func isTransientSQLiteErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{"SQLITE_BUSY", "SQLITE_LOCKED", "database is locked", "(5)", "(6)"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
