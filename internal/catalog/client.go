package catalog

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/vmunix/streamcz/internal/scrape"
	"github.com/vmunix/streamcz/pkg/rank"
)

const (
	defaultBaseURL    = "https://www.csfd.cz"
	defaultMinScore   = 30
	defaultMaxResults = 10

	// UserAgent is the desktop browser identity the catalog site expects.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// Client resolves catalog titles by scraping the catalog site.
type Client struct {
	baseURL    string
	fetcher    *scrape.Fetcher
	listings   *listingCache
	minScore   int
	maxResults int
	log        *slog.Logger

	cacheSizeMB int
	cacheTTL    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithFetcher replaces the default page fetcher.
func WithFetcher(f *scrape.Fetcher) Option {
	return func(c *Client) {
		c.fetcher = f
	}
}

// WithListingCache enables the in-memory cache of parsed series and episode
// listings. A zero size or TTL disables it.
func WithListingCache(sizeMB int, ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheSizeMB = sizeMB
		c.cacheTTL = ttl
	}
}

// WithLimits sets the minimum relevance a search hit needs and the maximum
// number of hits returned.
func WithLimits(minScore, maxResults int) Option {
	return func(c *Client) {
		c.minScore = minScore
		if maxResults > 0 {
			c.maxResults = maxResults
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a catalog client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		minScore:   defaultMinScore,
		maxResults: defaultMaxResults,
		log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = scrape.NewFetcher(UserAgent, scrape.WithLogger(c.log))
	}
	c.listings = newListingCache(c.cacheSizeMB, c.cacheTTL, c.log)
	return c
}

// Search returns catalog hits for query, most relevant first. Hits scoring
// below the configured minimum are dropped and equal scores are ordered by
// fuzzy similarity to the query.
func (c *Client) Search(ctx context.Context, query string) ([]Title, error) {
	doc, err := c.fetcher.Document(ctx, c.baseURL+"/hledat/?q="+url.QueryEscape(query))
	if err != nil {
		return nil, fmt.Errorf("catalog search %q: %w", query, err)
	}

	hits := parseSearch(doc, query)
	titles := make([]Title, 0, len(hits))
	for _, t := range hits {
		if t.Score >= c.minScore {
			titles = append(titles, t)
		}
	}
	slices.SortStableFunc(titles, func(a, b Title) int {
		if n := cmp.Compare(b.Score, a.Score); n != 0 {
			return n
		}
		return cmp.Compare(rank.Similarity(b.Title, query), rank.Similarity(a.Title, query))
	})
	if len(titles) > c.maxResults {
		titles = titles[:c.maxResults]
	}

	c.log.Debug("catalog search", "query", query, "hits", len(hits), "kept", len(titles))
	return titles, nil
}

// Series lists the seasons of the title with the given id.
func (c *Client) Series(ctx context.Context, id string) ([]Series, error) {
	var series []Series
	if c.listings.get(seriesKeyPrefix+id, &series) {
		return series, nil
	}
	doc, err := c.detailPage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catalog series %s: %w", id, err)
	}
	series = parseSeries(doc)
	c.listings.set(seriesKeyPrefix+id, series)
	return series, nil
}

// Episodes lists the episodes of the season with the given id.
func (c *Client) Episodes(ctx context.Context, seriesID string) ([]Episode, error) {
	var episodes []Episode
	if c.listings.get(episodesKeyPrefix+seriesID, &episodes) {
		return episodes, nil
	}
	doc, err := c.detailPage(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("catalog episodes %s: %w", seriesID, err)
	}
	episodes = parseEpisodes(doc)
	c.listings.set(episodesKeyPrefix+seriesID, episodes)
	return episodes, nil
}

// Forget drops any cached listings for id.
func (c *Client) Forget(id string) {
	c.listings.forget(id)
}

func (c *Client) detailPage(ctx context.Context, id string) (*goquery.Document, error) {
	if id == "" || strings.Contains(id, "/") {
		return nil, ErrInvalidID
	}
	return c.fetcher.Document(ctx, c.baseURL+"/film/"+url.PathEscape(id))
}
