package storage

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS blobs (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type sqliteBlobs struct {
	db *sql.DB
}

func (b sqliteBlobs) get(ctx context.Context, keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		var v []byte
		err := b.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = ?`, k).Scan(&v)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, &StorageError{Op: "load", Key: k, Err: err}
		}
		out[k] = v
	}
	return out, nil
}

// put upserts every blob inside one transaction.
func (b sqliteBlobs) put(ctx context.Context, kv map[string][]byte) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for k, v := range kv {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO blobs (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			k, v, now,
		)
		if err != nil {
			return &StorageError{Op: "save", Key: k, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &StorageError{Op: "save", Err: err}
	}
	return nil
}

// SQLiteStore keeps blobs in a single key/value table.
type SQLiteStore struct {
	codec
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Err: err}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Err: err}
	}

	return &SQLiteStore{codec: codec{b: sqliteBlobs{db: db}}, db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
