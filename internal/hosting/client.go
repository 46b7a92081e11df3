package hosting

import (
	"io"
	"log/slog"
	"strings"

	"github.com/vmunix/streamcz/internal/scrape"
)

const (
	defaultBaseURL     = "https://prehraj.to"
	defaultConcurrency = 4

	// UserAgent is the browser identity sent to the hosting site.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

// Client searches the hosting site and resolves stream URLs.
type Client struct {
	baseURL     string
	fetcher     *scrape.Fetcher
	concurrency int
	log         *slog.Logger
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

// WithConcurrency bounds how many search phrasings run at once.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithLogger sets the client's logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a hosting client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		concurrency: defaultConcurrency,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.fetcher == nil {
		c.fetcher = scrape.NewFetcher(UserAgent, scrape.WithBrowserHeaders(), scrape.WithLogger(c.log))
	}
	return c
}

// BaseURL returns the hosting site origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}
