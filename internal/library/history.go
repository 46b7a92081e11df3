package library

import (
	"fmt"
	"time"
)

const historySelect = `
	SELECT h.id, h.title_id, h.position, h.last_played, h.source_link, h.source_title,
		h.series_id, h.season, h.episode,
		COALESCE(t.title, ''), COALESCE(t.kind, 'movie')
	FROM watch_history h
	LEFT JOIN titles t ON t.id = h.title_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHistory(row rowScanner) (*HistoryEntry, error) {
	e := &HistoryEntry{}
	err := row.Scan(&e.ID, &e.TitleID, &e.Position, &e.LastPlayed, &e.SourceLink, &e.SourceTitle,
		&e.SeriesID, &e.Season, &e.Episode, &e.TitleName, &e.Kind)
	return e, err
}

func bindHistory(q querier, e *HistoryEntry) error {
	if e.LastPlayed.IsZero() {
		e.LastPlayed = time.Now()
	}
	e.LastPlayed = e.LastPlayed.UTC()

	if _, err := q.Exec(`DELETE FROM watch_history WHERE title_id = ?`, e.TitleID); err != nil {
		return fmt.Errorf("clear history of title %d: %w", e.TitleID, mapSQLiteError(err))
	}
	result, err := q.Exec(`
		INSERT INTO watch_history (title_id, position, last_played, source_link, source_title, series_id, season, episode)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TitleID, e.Position, e.LastPlayed, e.SourceLink, e.SourceTitle, e.SeriesID, e.Season, e.Episode,
	)
	if err != nil {
		return fmt.Errorf("insert history for title %d: %w", e.TitleID, mapSQLiteError(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	e.ID = id
	return nil
}

// BindHistory replaces the title's history entry with e in one transaction.
// Sets ID, and LastPlayed when zero.
func (s *Store) BindHistory(e *HistoryEntry) error {
	return s.atomically(func(q querier) error { return bindHistory(q, e) })
}

// BindHistory replaces the title's history entry within a transaction.
func (t *Tx) BindHistory(e *HistoryEntry) error { return bindHistory(t.tx, e) }

func advanceHistory(q querier, titleID int64, position float64, playedAt time.Time) error {
	result, err := q.Exec(`
		UPDATE watch_history SET position = ?, last_played = ?
		WHERE title_id = ?`,
		position, playedAt.UTC(), titleID,
	)
	if err != nil {
		return fmt.Errorf("advance history of title %d: %w", titleID, mapSQLiteError(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("advance history of title %d: %w", titleID, ErrNotFound)
	}
	return nil
}

// AdvanceHistory moves the playback position of the title's entry, leaving
// the bound source untouched. Returns ErrNotFound if the title has no entry.
func (s *Store) AdvanceHistory(titleID int64, position float64, playedAt time.Time) error {
	return advanceHistory(s.db, titleID, position, playedAt)
}

// AdvanceHistory moves the playback position within a transaction.
func (t *Tx) AdvanceHistory(titleID int64, position float64, playedAt time.Time) error {
	return advanceHistory(t.tx, titleID, position, playedAt)
}

func getHistory(q querier, titleID int64) (*HistoryEntry, error) {
	e, err := scanHistory(q.QueryRow(historySelect+` WHERE h.title_id = ?`, titleID))
	if err != nil {
		return nil, fmt.Errorf("get history of title %d: %w", titleID, mapSQLiteError(err))
	}
	return e, nil
}

// GetHistory returns the title's history entry or ErrNotFound.
func (s *Store) GetHistory(titleID int64) (*HistoryEntry, error) { return getHistory(s.db, titleID) }

// GetHistory returns the title's history entry within a transaction.
func (t *Tx) GetHistory(titleID int64) (*HistoryEntry, error) { return getHistory(t.tx, titleID) }

func listHistory(q querier, limit int) ([]*HistoryEntry, error) {
	query := historySelect + ` ORDER BY h.last_played DESC, h.id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*HistoryEntry
	for rows.Next() {
		e, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return results, nil
}

// ListHistory returns up to limit entries, most recently played first.
// A limit of zero or less returns every entry.
func (s *Store) ListHistory(limit int) ([]*HistoryEntry, error) { return listHistory(s.db, limit) }

// ListHistory returns history entries within a transaction.
func (t *Tx) ListHistory(limit int) ([]*HistoryEntry, error) { return listHistory(t.tx, limit) }

func dedupeHistory(q querier) (int64, error) {
	result, err := q.Exec(`
		DELETE FROM watch_history
		WHERE id IN (
			SELECT id FROM (
				SELECT id, ROW_NUMBER() OVER (
					PARTITION BY title_id ORDER BY last_played DESC, id DESC
				) AS rn
				FROM watch_history
			)
			WHERE rn > 1
		)`)
	if err != nil {
		return 0, fmt.Errorf("dedupe history: %w", err)
	}
	return result.RowsAffected()
}

// DedupeHistory keeps only the most recently played entry per title and
// returns how many rows it removed.
func (s *Store) DedupeHistory() (int64, error) { return dedupeHistory(s.db) }

// DedupeHistory removes duplicate entries within a transaction.
func (t *Tx) DedupeHistory() (int64, error) { return dedupeHistory(t.tx) }
