package library

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

func replaceSeries(q querier, titleID int64, series []Series) error {
	var one int
	err := q.QueryRow(`SELECT 1 FROM titles WHERE id = ?`, titleID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("replace series of title %d: title missing: %w", titleID, ErrConstraint)
	}
	if err != nil {
		return fmt.Errorf("replace series of title %d: %w", titleID, err)
	}

	if _, err := q.Exec(`DELETE FROM series WHERE title_id = ?`, titleID); err != nil {
		return fmt.Errorf("clear series of title %d: %w", titleID, mapSQLiteError(err))
	}
	for i, s := range series {
		_, err := q.Exec(`
			INSERT INTO series (id, title_id, title, year, episode_count, position)
			VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, titleID, s.Title, s.Year, s.EpisodeCount, i,
		)
		if err != nil {
			return fmt.Errorf("insert series %s: %w", s.ID, mapSQLiteError(err))
		}
	}
	return markListing(q, ListingSeries, strconv.FormatInt(titleID, 10))
}

// ReplaceSeries atomically swaps the stored season listing of a title.
// Returns ErrConstraint if the title is not stored.
func (s *Store) ReplaceSeries(titleID int64, series []Series) error {
	return s.atomically(func(q querier) error { return replaceSeries(q, titleID, series) })
}

// ReplaceSeries swaps a title's season listing within a transaction.
func (t *Tx) ReplaceSeries(titleID int64, series []Series) error {
	return replaceSeries(t.tx, titleID, series)
}

func listSeries(q querier, titleID int64) ([]Series, error) {
	rows, err := q.Query(`
		SELECT id, title_id, title, year, episode_count
		FROM series WHERE title_id = ?
		ORDER BY position, id`, titleID)
	if err != nil {
		return nil, fmt.Errorf("list series of title %d: %w", titleID, err)
	}
	defer func() { _ = rows.Close() }()

	var results []Series
	for rows.Next() {
		var s Series
		if err := rows.Scan(&s.ID, &s.TitleID, &s.Title, &s.Year, &s.EpisodeCount); err != nil {
			return nil, fmt.Errorf("scan series: %w", err)
		}
		results = append(results, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate series: %w", err)
	}
	return results, nil
}

// ListSeries returns the stored seasons of a title in listing order.
func (s *Store) ListSeries(titleID int64) ([]Series, error) { return listSeries(s.db, titleID) }

// ListSeries returns stored seasons within a transaction.
func (t *Tx) ListSeries(titleID int64) ([]Series, error) { return listSeries(t.tx, titleID) }

func replaceEpisodes(q querier, seriesID string, episodes []Episode) error {
	if _, err := q.Exec(`DELETE FROM episodes WHERE series_id = ?`, seriesID); err != nil {
		return fmt.Errorf("clear episodes of series %s: %w", seriesID, mapSQLiteError(err))
	}
	for _, e := range episodes {
		_, err := q.Exec(`
			INSERT INTO episodes (id, series_id, title, season, episode)
			VALUES (?, ?, ?, ?, ?)`,
			e.ID, seriesID, e.Title, e.Season, e.Episode,
		)
		if err != nil {
			return fmt.Errorf("insert episode %s: %w", e.ID, mapSQLiteError(err))
		}
	}
	return markListing(q, ListingEpisodes, seriesID)
}

// ReplaceEpisodes atomically swaps the stored episode listing of a series.
func (s *Store) ReplaceEpisodes(seriesID string, episodes []Episode) error {
	return s.atomically(func(q querier) error { return replaceEpisodes(q, seriesID, episodes) })
}

// ReplaceEpisodes swaps a series' episode listing within a transaction.
func (t *Tx) ReplaceEpisodes(seriesID string, episodes []Episode) error {
	return replaceEpisodes(t.tx, seriesID, episodes)
}

func listEpisodes(q querier, seriesID string) ([]Episode, error) {
	rows, err := q.Query(`
		SELECT id, series_id, title, season, episode
		FROM episodes WHERE series_id = ?
		ORDER BY season, episode`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("list episodes of series %s: %w", seriesID, err)
	}
	defer func() { _ = rows.Close() }()

	var results []Episode
	for rows.Next() {
		var e Episode
		if err := rows.Scan(&e.ID, &e.SeriesID, &e.Title, &e.Season, &e.Episode); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		results = append(results, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate episodes: %w", err)
	}
	return results, nil
}

// ListEpisodes returns the stored episodes of a series by season and number.
func (s *Store) ListEpisodes(seriesID string) ([]Episode, error) { return listEpisodes(s.db, seriesID) }

// ListEpisodes returns stored episodes within a transaction.
func (t *Tx) ListEpisodes(seriesID string) ([]Episode, error) { return listEpisodes(t.tx, seriesID) }

func markListing(q querier, kind ListingKind, parentID string) error {
	_, err := q.Exec(`
		INSERT INTO listing_fetches (kind, parent_id, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT (kind, parent_id) DO UPDATE SET fetched_at = excluded.fetched_at`,
		kind, parentID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark %s listing %s: %w", kind, parentID, mapSQLiteError(err))
	}
	return nil
}

func listingFetched(q querier, kind ListingKind, parentID string) (bool, error) {
	var one int
	err := q.QueryRow(`SELECT 1 FROM listing_fetches WHERE kind = ? AND parent_id = ?`, kind, parentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check %s listing %s: %w", kind, parentID, err)
	}
	return true, nil
}

// ListingFetched reports whether a listing was ever stored for the parent,
// even an empty one. Series listings are keyed by the decimal title id.
func (s *Store) ListingFetched(kind ListingKind, parentID string) (bool, error) {
	return listingFetched(s.db, kind, parentID)
}

// ListingFetched reports a stored listing within a transaction.
func (t *Tx) ListingFetched(kind ListingKind, parentID string) (bool, error) {
	return listingFetched(t.tx, kind, parentID)
}
