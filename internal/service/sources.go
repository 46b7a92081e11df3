package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmunix/streamcz/internal/hosting"
	"github.com/vmunix/streamcz/internal/library"
)

// FindSources returns ranked hosting candidates for a query, which may be a
// pipe-delimited phrasing set. Cached lists are re-ranked on read; only
// non-empty live results are cached. year is informational.
func (s *Service) FindSources(ctx context.Context, query string, year int, refresh bool) ([]hosting.Source, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("find sources: empty query: %w", ErrInvalidInput)
	}

	if refresh {
		if _, err := s.store.DeleteSearch(library.CacheSources, query); err != nil {
			return nil, fmt.Errorf("clear cached sources %q: %w", query, err)
		}
	} else if sources, ok := s.cachedSources(query); ok {
		hosting.RankSources(sources)
		return sources, nil
	}

	sources, err := s.hosting.FindSources(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("find sources %q: %w", query, err)
	}
	if len(sources) == 0 {
		return []hosting.Source{}, nil
	}

	payload, err := json.Marshal(sources)
	if err == nil {
		err = s.store.SaveSearch(library.CacheSources, query, payload)
	}
	if err != nil {
		s.log.Warn("cache sources failed", "query", query, "error", err)
	}
	return sources, nil
}

func (s *Service) cachedSources(query string) ([]hosting.Source, bool) {
	payload, found, err := s.store.LatestSearch(library.CacheSources, query)
	if err != nil {
		s.log.Warn("read cached sources failed", "query", query, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	var sources []hosting.Source
	if err := json.Unmarshal(payload, &sources); err != nil {
		s.log.Warn("decode cached sources failed", "query", query, "error", err)
		return nil, false
	}
	if len(sources) == 0 {
		return nil, false
	}
	return sources, true
}

// ResolveStream resolves a hosting path to a playable stream. Streams
// expire, so this always goes to the hosting site.
func (s *Service) ResolveStream(ctx context.Context, path string) (*hosting.Stream, error) {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return nil, fmt.Errorf("resolve stream: empty path: %w", ErrInvalidInput)
	}
	stream, err := s.hosting.ResolveStream(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("resolve stream %s: %w", path, err)
	}
	return stream, nil
}

// EpisodeQuery builds the phrasing set used to find one episode of a show:
// "<t> SxxEyy|<t> xxxyy|<t> SxxEyy|<t> sxe|<t> serie xx epizoda yy".
func EpisodeQuery(title string, season, episode int) string {
	title = strings.TrimSpace(title)
	s := fmt.Sprintf("%02d", season)
	e := fmt.Sprintf("%02d", episode)
	return strings.Join([]string{
		fmt.Sprintf("%s S%sE%s", title, s, e),
		fmt.Sprintf("%s %sx%s", title, s, e),
		fmt.Sprintf("%s S%sE%s", title, s, e),
		fmt.Sprintf("%s %dx%d", title, season, episode),
		fmt.Sprintf("%s serie %s epizoda %s", title, s, e),
	}, "|")
}

// SelectSource picks the candidate bound in watch history when it is still
// listed, matching by upload id, and otherwise the first ranked candidate.
// ok is false when sources is empty.
func SelectSource(sources []hosting.Source, boundLink string) (selected hosting.Source, ok bool) {
	if len(sources) == 0 {
		return hosting.Source{}, false
	}
	if boundLink != "" {
		want := hosting.NormalizeID(boundLink)
		for _, src := range sources {
			if hosting.NormalizeID(src.Link) == want {
				return src, true
			}
		}
	}
	return sources[0], true
}
