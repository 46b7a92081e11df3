package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vmunix/streamcz/internal/catalog"
	"github.com/vmunix/streamcz/internal/library"
)

// UnknownTitle names placeholder titles stored ahead of their series.
const UnknownTitle = "Unknown Title"

// GetSeries returns the seasons of a title, from the store when cached.
// refresh bypasses both the store and the catalog's listing cache. Repeated
// seasons collapse before storing. A failure to store fetched seasons is
// logged and the fetched list still returned.
func (s *Service) GetSeries(ctx context.Context, titleID int64, refresh bool) ([]catalog.Series, error) {
	id := strconv.FormatInt(titleID, 10)

	if refresh {
		s.catalog.Forget(id)
	} else {
		cached, err := s.store.ListSeries(titleID)
		if err != nil {
			s.log.Warn("read cached series failed", "title_id", titleID, "error", err)
		} else if s.cacheHit(len(cached), library.ListingSeries, id) {
			out := make([]catalog.Series, len(cached))
			for i, c := range cached {
				out[i] = catalog.Series{ID: c.ID, Title: c.Title, Year: c.Year, EpisodeCount: c.EpisodeCount}
			}
			return out, nil
		}
	}

	series, err := s.catalog.Series(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch series of title %d: %w", titleID, err)
	}
	series = catalog.DedupeSeries(series)

	if err := s.saveSeries(titleID, series); err != nil {
		s.log.Warn("store series failed", "title_id", titleID, "error", err)
	}
	return series, nil
}

func (s *Service) saveSeries(titleID int64, series []catalog.Series) error {
	placeholder := library.Title{ID: titleID, Title: UnknownTitle, Kind: library.KindSeries}
	if len(series) > 0 {
		if series[0].Title != "" {
			placeholder.Title = series[0].Title
		}
		placeholder.Year = series[0].Year
	}
	if _, err := s.store.EnsureTitle(&placeholder); err != nil {
		return err
	}

	rows := make([]library.Series, len(series))
	for i, c := range series {
		rows[i] = library.Series{ID: c.ID, TitleID: titleID, Title: c.Title, Year: c.Year, EpisodeCount: c.EpisodeCount}
	}
	return s.store.ReplaceSeries(titleID, rows)
}

// GetEpisodes returns the episodes of a series, from the store when cached.
func (s *Service) GetEpisodes(ctx context.Context, seriesID string, refresh bool) ([]catalog.Episode, error) {
	if refresh {
		s.catalog.Forget(seriesID)
	} else {
		cached, err := s.store.ListEpisodes(seriesID)
		if err != nil {
			s.log.Warn("read cached episodes failed", "series_id", seriesID, "error", err)
		} else if s.cacheHit(len(cached), library.ListingEpisodes, seriesID) {
			out := make([]catalog.Episode, len(cached))
			for i, c := range cached {
				out[i] = catalog.Episode{ID: c.ID, Title: c.Title, Season: c.Season, Episode: c.Episode}
			}
			return out, nil
		}
	}

	episodes, err := s.catalog.Episodes(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("fetch episodes of series %s: %w", seriesID, err)
	}
	episodes = catalog.DedupeEpisodes(episodes)

	rows := make([]library.Episode, len(episodes))
	for i, e := range episodes {
		rows[i] = library.Episode{ID: e.ID, SeriesID: seriesID, Title: e.Title, Season: e.Season, Episode: e.Episode}
	}
	if err := s.store.ReplaceEpisodes(seriesID, rows); err != nil {
		s.log.Warn("store episodes failed", "series_id", seriesID, "error", err)
	}
	return episodes, nil
}

// cacheHit decides whether n stored rows answer a listing request. Empty
// listings count only when trusted and actually fetched before.
func (s *Service) cacheHit(n int, kind library.ListingKind, parentID string) bool {
	if n > 0 {
		return true
	}
	if !s.cfg.TrustEmptyCache {
		return false
	}
	fetched, err := s.store.ListingFetched(kind, parentID)
	if err != nil {
		s.log.Warn("read listing state failed", "kind", kind, "id", parentID, "error", err)
		return false
	}
	return fetched
}
