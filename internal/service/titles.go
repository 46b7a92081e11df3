package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmunix/streamcz/internal/catalog"
	"github.com/vmunix/streamcz/internal/events"
	"github.com/vmunix/streamcz/internal/library"
)

// SearchTitles answers a catalog search through the result cache. An empty
// query returns no titles. refresh drops the cached answer first.
func (s *Service) SearchTitles(ctx context.Context, query string, refresh bool) ([]catalog.Title, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []catalog.Title{}, nil
	}

	if refresh {
		if _, err := s.store.DeleteSearch(library.CacheCatalog, query); err != nil {
			return nil, fmt.Errorf("clear cached search %q: %w", query, err)
		}
	} else {
		titles, ok := s.cachedTitles(query)
		if ok {
			s.publish(ctx, searched(query, len(titles), true))
			return titles, nil
		}
	}

	titles, err := s.catalog.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search catalog %q: %w", query, err)
	}
	if titles == nil {
		titles = []catalog.Title{}
	}

	payload, err := json.Marshal(titles)
	if err == nil {
		err = s.store.SaveSearch(library.CacheCatalog, query, payload)
	}
	if err != nil {
		s.log.Warn("cache catalog search failed", "query", query, "error", err)
	}
	s.storeTitles(titles)

	s.log.Info("catalog search", "query", query, "results", len(titles))
	s.publish(ctx, searched(query, len(titles), false))
	return titles, nil
}

func (s *Service) cachedTitles(query string) ([]catalog.Title, bool) {
	payload, found, err := s.store.LatestSearch(library.CacheCatalog, query)
	if err != nil {
		s.log.Warn("read cached search failed", "query", query, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	var titles []catalog.Title
	if err := json.Unmarshal(payload, &titles); err != nil {
		s.log.Warn("decode cached search failed", "query", query, "error", err)
		return nil, false
	}
	if titles == nil {
		titles = []catalog.Title{}
	}
	return titles, true
}

// storeTitles records returned titles so later series writes find their parent.
func (s *Service) storeTitles(titles []catalog.Title) {
	for _, t := range titles {
		rec := titleRecord(t)
		if err := s.store.UpsertTitle(&rec); err != nil {
			s.log.Warn("store title failed", "title_id", t.ID, "error", err)
		}
	}
}

// GetTitle returns a stored title, or library.ErrNotFound.
func (s *Service) GetTitle(_ context.Context, id int64) (*library.Title, error) {
	t, err := s.store.GetTitle(id)
	if err != nil {
		return nil, fmt.Errorf("get title %d: %w", id, err)
	}
	return t, nil
}

func titleRecord(t catalog.Title) library.Title {
	kind := library.KindMovie
	if t.Kind == catalog.KindSeries {
		kind = library.KindSeries
	}
	return library.Title{
		ID:       t.ID,
		Title:    t.Title,
		Year:     t.Year,
		Kind:     kind,
		Genre:    t.Genre,
		Director: t.Director,
		Poster:   t.Poster,
	}
}

func searched(query string, results int, cached bool) *events.CatalogSearched {
	return &events.CatalogSearched{
		BaseEvent: events.NewBaseEvent(events.EventCatalogSearched, events.EntityQuery, query),
		Query:     query,
		Results:   results,
		Cached:    cached,
	}
}
