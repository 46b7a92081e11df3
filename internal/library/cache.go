package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// cacheKey folds case in Go as well, since NOCASE only covers ASCII and
// queries are often Czech.
func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func saveSearch(q querier, kind CacheKind, query string, payload []byte) error {
	_, err := q.Exec(`
		INSERT INTO search_cache (kind, query, results, created_at) VALUES (?, ?, ?, ?)`,
		kind, cacheKey(query), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save %s search %q: %w", kind, query, mapSQLiteError(err))
	}
	return nil
}

// SaveSearch appends a result list for query. Older rows stay but are
// shadowed by this one.
func (s *Store) SaveSearch(kind CacheKind, query string, payload []byte) error {
	return saveSearch(s.db, kind, query, payload)
}

// SaveSearch appends a result list within a transaction.
func (t *Tx) SaveSearch(kind CacheKind, query string, payload []byte) error {
	return saveSearch(t.tx, kind, query, payload)
}

func latestSearch(q querier, kind CacheKind, query string) ([]byte, bool, error) {
	var payload string
	err := q.QueryRow(`
		SELECT results FROM search_cache
		WHERE kind = ? AND query = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1`,
		kind, cacheKey(query),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s search %q: %w", kind, query, mapSQLiteError(err))
	}
	return []byte(payload), true, nil
}

// LatestSearch returns the newest cached payload for query, matched
// case-insensitively after trimming. found is false on a miss.
func (s *Store) LatestSearch(kind CacheKind, query string) (payload []byte, found bool, err error) {
	return latestSearch(s.db, kind, query)
}

// LatestSearch reads the newest cached payload within a transaction.
func (t *Tx) LatestSearch(kind CacheKind, query string) (payload []byte, found bool, err error) {
	return latestSearch(t.tx, kind, query)
}

func deleteSearch(q querier, kind CacheKind, query string) (int64, error) {
	result, err := q.Exec(`DELETE FROM search_cache WHERE kind = ? AND query = ?`, kind, cacheKey(query))
	if err != nil {
		return 0, fmt.Errorf("delete %s search %q: %w", kind, query, mapSQLiteError(err))
	}
	return result.RowsAffected()
}

// DeleteSearch drops every cached row for query.
func (s *Store) DeleteSearch(kind CacheKind, query string) (int64, error) {
	return deleteSearch(s.db, kind, query)
}

// DeleteSearch drops cached rows within a transaction.
func (t *Tx) DeleteSearch(kind CacheKind, query string) (int64, error) {
	return deleteSearch(t.tx, kind, query)
}

func pruneSearch(q querier, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := q.Exec(`DELETE FROM search_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune search cache: %w", err)
	}
	return result.RowsAffected()
}

// PruneSearch removes cached rows older than olderThan.
func (s *Store) PruneSearch(olderThan time.Duration) (int64, error) {
	return pruneSearch(s.db, olderThan)
}

// PruneSearch removes old cached rows within a transaction.
func (t *Tx) PruneSearch(olderThan time.Duration) (int64, error) {
	return pruneSearch(t.tx, olderThan)
}
