package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_cache_store.go -package=mocks siteassist/internal/storage CacheStore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"siteassist/internal/service"
)

// CacheStore defines the interface for the result cache capability.
// Callers treat every error as a miss or no-op; nothing here is fatal.
type CacheStore interface {
	// Get returns the cached value for key, or ErrNotFound if absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key with the given TTL, replacing any existing entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeleteByPattern bulk-deletes keys matching a glob-style pattern
	// ("*" matches any run of characters). Returns the number deleted.
	DeleteByPattern(ctx context.Context, pattern string) (int64, error)
}

// CacheRepo implements CacheStore on the result_cache SQLite table.
type CacheRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewCacheRepo creates a new CacheRepo.
func NewCacheRepo(db *sql.DB) *CacheRepo {
	return &CacheRepo{db: db, now: time.Now}
}

// Get returns the cached value for key. Expired entries are deleted lazily.
func (r *CacheRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	var expiresAt time.Time
	err := r.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM result_cache WHERE key = ?",
		key,
	).Scan(&value, &expiresAt)

	if err == sql.ErrNoRows {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cache read failed: %v", service.ErrCache, err)
	}

	if r.now().After(expiresAt) {
		_, _ = r.db.ExecContext(ctx, "DELETE FROM result_cache WHERE key = ?", key)
		return nil, service.ErrNotFound
	}

	return value, nil
}

// Set stores value under key with the given TTL.
func (r *CacheRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	expiresAt := r.now().Add(ttl)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO result_cache (key, value, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at,
		 created_at = CURRENT_TIMESTAMP`,
		key, value, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("%w: cache write failed: %v", service.ErrCache, err)
	}
	return nil
}

// DeleteByPattern bulk-deletes keys matching a glob-style pattern.
// Intended for emergency invalidation after content or prompt rollouts.
func (r *CacheRepo) DeleteByPattern(ctx context.Context, pattern string) (int64, error) {
	// Translate glob "*" to SQL LIKE "%", escaping LIKE metacharacters.
	like := strings.NewReplacer("%", `\%`, "_", `\_`, "*", "%").Replace(pattern)

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM result_cache WHERE key LIKE ? ESCAPE '\'`, like)
	if err != nil {
		return 0, fmt.Errorf("%w: cache flush failed: %v", service.ErrCache, err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: cache flush count failed: %v", service.ErrCache, err)
	}
	return count, nil
}
