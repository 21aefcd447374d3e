package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Schema creates the key-value table backing the durable tier.
const Schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
    cache_key  VARCHAR(255) NOT NULL PRIMARY KEY,
    payload    MEDIUMBLOB   NOT NULL,
    created_at DATETIME     NOT NULL,
    expires_at DATETIME     NOT NULL,
    INDEX idx_cache_entries_expires_at (expires_at)
);
`

type dbEntry struct {
	CacheKey  string    `db:"cache_key"`
	Payload   []byte    `db:"payload"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

// DBTier is the durable tier, a key-value table in MySQL. Expired rows are
// filtered on read and overwritten on the next put for the same key.
type DBTier struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewDBTier creates a database-backed tier.
func NewDBTier(db *sqlx.DB) *DBTier {
	return &DBTier{db: db, now: time.Now}
}

func (t *DBTier) Name() string {
	return "database"
}

func (t *DBTier) Get(ctx context.Context, key string) (Entry, bool, error) {
	var row dbEntry
	err := t.db.GetContext(ctx, &row,
		"SELECT cache_key, payload, created_at, expires_at FROM cache_entries WHERE cache_key = ? AND expires_at > ?",
		key, t.now().UTC())
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("load cache entry %s: %w", key, err)
	}
	entry := Entry{Payload: row.Payload, CreatedAt: row.CreatedAt, ExpiresAt: row.ExpiresAt}
	if entry.Expired(t.now()) {
		return Entry{}, false, nil
	}
	return entry, true, nil
}

func (t *DBTier) Put(ctx context.Context, key string, entry Entry) error {
	if entry.Expired(t.now()) {
		return nil
	}
	_, err := t.db.NamedExecContext(ctx,
		"INSERT INTO cache_entries (cache_key, payload, created_at, expires_at) VALUES (:cache_key, :payload, :created_at, :expires_at) "+
			"ON DUPLICATE KEY UPDATE payload = VALUES(payload), created_at = VALUES(created_at), expires_at = VALUES(expires_at)",
		dbEntry{
			CacheKey:  key,
			Payload:   entry.Payload,
			CreatedAt: entry.CreatedAt.UTC(),
			ExpiresAt: entry.ExpiresAt.UTC(),
		})
	if err != nil {
		return fmt.Errorf("upsert cache entry %s: %w", key, err)
	}
	return nil
}

func (t *DBTier) Delete(ctx context.Context, key string) error {
	if _, err := t.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE cache_key = ?", key); err != nil {
		return fmt.Errorf("delete cache entry %s: %w", key, err)
	}
	return nil
}

// PruneExpired removes rows past their expiry and returns the count.
func (t *DBTier) PruneExpired(ctx context.Context) (int64, error) {
	result, err := t.db.ExecContext(ctx, "DELETE FROM cache_entries WHERE expires_at <= ?", t.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("prune expired cache entries: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count pruned cache entries: %w", err)
	}
	return affected, nil
}
