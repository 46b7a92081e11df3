package library

import (
	"fmt"
	"time"
)

func upsertTitle(q querier, t *Title) error {
	if t.Kind == "" {
		t.Kind = KindMovie
	}
	now := time.Now().UTC()
	_, err := q.Exec(`
		INSERT INTO titles (id, title, year, kind, genre, director, poster, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, year = excluded.year, kind = excluded.kind,
			genre = excluded.genre, director = excluded.director, poster = excluded.poster,
			updated_at = excluded.updated_at`,
		t.ID, t.Title, t.Year, t.Kind, t.Genre, t.Director, t.Poster, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert title %d: %w", t.ID, mapSQLiteError(err))
	}
	t.UpdatedAt = now
	return nil
}

// UpsertTitle inserts a title or refreshes its catalog fields.
func (s *Store) UpsertTitle(t *Title) error { return upsertTitle(s.db, t) }

// UpsertTitle inserts or refreshes a title within a transaction.
func (t *Tx) UpsertTitle(title *Title) error { return upsertTitle(t.tx, title) }

func ensureTitle(q querier, t *Title) (bool, error) {
	if t.Kind == "" {
		t.Kind = KindMovie
	}
	now := time.Now().UTC()
	result, err := q.Exec(`
		INSERT INTO titles (id, title, year, kind, genre, director, poster, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		t.ID, t.Title, t.Year, t.Kind, t.Genre, t.Director, t.Poster, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("ensure title %d: %w", t.ID, mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// EnsureTitle inserts t only if no title with its ID exists, and reports
// whether it did. An existing title is never overwritten.
func (s *Store) EnsureTitle(t *Title) (bool, error) { return ensureTitle(s.db, t) }

// EnsureTitle inserts a missing title within a transaction.
func (t *Tx) EnsureTitle(title *Title) (bool, error) { return ensureTitle(t.tx, title) }

func getTitle(q querier, id int64) (*Title, error) {
	t := &Title{}
	err := q.QueryRow(`
		SELECT id, title, year, kind, genre, director, poster, created_at, updated_at
		FROM titles WHERE id = ?`, id,
	).Scan(&t.ID, &t.Title, &t.Year, &t.Kind, &t.Genre, &t.Director, &t.Poster, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get title %d: %w", id, mapSQLiteError(err))
	}
	return t, nil
}

// GetTitle retrieves a title by catalog ID.
// Returns ErrNotFound if the title does not exist.
func (s *Store) GetTitle(id int64) (*Title, error) { return getTitle(s.db, id) }

// GetTitle retrieves a title within a transaction.
func (t *Tx) GetTitle(id int64) (*Title, error) { return getTitle(t.tx, id) }
