package hosting

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// FindSources searches every "|"-separated phrasing of query, merges the
// hits in phrasing order, drops repeated links and ranks the rest.
// A phrasing whose search fails contributes nothing; only cancellation of
// ctx fails the call. year is informational.
func (c *Client) FindSources(ctx context.Context, query string, year int) ([]Source, error) {
	phrasings := SplitPhrasings(query)
	c.log.Debug("source search started", "query", query, "year", year, "phrasings", len(phrasings))
	start := time.Now()

	results := make([][]Source, len(phrasings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, phrasing := range phrasings {
		g.Go(func() error {
			sources, err := c.searchPhrasing(gctx, phrasing)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				c.log.Warn("phrasing failed", "phrasing", phrasing, "error", err)
				return nil
			}
			results[i] = sources
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("find sources %q: %w", query, err)
	}

	merged := dedupeLinks(slices.Concat(results...))
	RankSources(merged)

	c.log.Info("source search complete", "query", query, "results", len(merged), "duration_ms", time.Since(start).Milliseconds())
	return merged, nil
}

// SplitPhrasings splits a "|"-joined query into trimmed, non-empty phrasings.
func SplitPhrasings(query string) []string {
	var phrasings []string
	for _, p := range strings.Split(query, "|") {
		if p = strings.TrimSpace(p); p != "" {
			phrasings = append(phrasings, p)
		}
	}
	return phrasings
}

func (c *Client) searchPhrasing(ctx context.Context, phrasing string) ([]Source, error) {
	doc, err := c.fetcher.Document(ctx, c.baseURL+"/hledej/"+url.PathEscape(phrasing))
	if err != nil {
		return nil, err
	}
	sources := parseSearch(doc, c.baseURL, phrasing)
	c.log.Debug("phrasing searched", "phrasing", phrasing, "results", len(sources))
	return sources, nil
}

func dedupeLinks(sources []Source) []Source {
	seen := make(map[string]bool, len(sources))
	out := make([]Source, 0, len(sources))
	for _, s := range sources {
		if seen[s.Link] {
			continue
		}
		seen[s.Link] = true
		out = append(out, s)
	}
	return out
}
