// Package scrape fetches third-party HTML pages with browser-like requests.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout   = 30 * time.Second
	maxRedirects     = 10
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

// browserHeaders are sent alongside the User-Agent by WithBrowserHeaders.
var browserHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language": "cs-CZ,cs;q=0.9",
	"Connection":      "keep-alive",
	"Sec-Fetch-Dest":  "document",
	"Sec-Fetch-Mode":  "navigate",
	"Sec-Fetch-Site":  "same-origin",
	"Sec-Fetch-User":  "?1",
	"Pragma":          "no-cache",
	"Cache-Control":   "no-cache",
}

// Fetcher issues GET requests with a fixed browser signature.
type Fetcher struct {
	client *resty.Client
	log    *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client.SetTimeout(d)
		}
	}
}

// WithHTTPClient swaps the underlying transport (for testing).
// Headers and timeouts set by other options are kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Fetcher) {
		f.client.SetTransport(hc.Transport)
	}
}

// WithBrowserHeaders adds the full navigation header set a desktop browser sends.
func WithBrowserHeaders() Option {
	return func(f *Fetcher) {
		f.client.SetHeaders(browserHeaders)
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.log = l
		}
	}
}

// NewFetcher creates a Fetcher that identifies as userAgent.
// An empty userAgent falls back to a desktop Chrome string.
func NewFetcher(userAgent string, opts ...Option) *Fetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	f := &Fetcher{
		client: resty.New().
			SetTimeout(defaultTimeout).
			SetHeader("User-Agent", userAgent).
			SetRedirectPolicy(resty.FlexibleRedirectPolicy(maxRedirects)),
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// RequestOption adjusts a single request.
type RequestOption func(*resty.Request)

// WithReferer sets the Referer header.
func WithReferer(ref string) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader("Referer", ref)
	}
}

// WithHeader sets an arbitrary request header.
func WithHeader(key, value string) RequestOption {
	return func(r *resty.Request) {
		r.SetHeader(key, value)
	}
}

func (f *Fetcher) request(ctx context.Context, opts []RequestOption) *resty.Request {
	req := f.client.R().SetContext(ctx)
	for _, opt := range opts {
		opt(req)
	}
	return req
}

// Page GETs url and returns the response body.
// Transport failures and non-2xx statuses are returned as *FetchError.
func (f *Fetcher) Page(ctx context.Context, url string, opts ...RequestOption) ([]byte, error) {
	start := time.Now()
	resp, err := f.request(ctx, opts).Get(url)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	f.log.Debug("page fetched", "url", url, "status", resp.StatusCode(), "bytes", len(resp.Body()), "duration_ms", time.Since(start).Milliseconds())
	if !resp.IsSuccess() {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode()}
	}
	return resp.Body(), nil
}

// Document GETs url and parses it as HTML.
func (f *Fetcher) Document(ctx context.Context, url string, opts ...RequestOption) (*goquery.Document, error) {
	body, err := f.Page(ctx, url, opts...)
	if err != nil {
		return nil, err
	}
	return Parse(body)
}

// Follow GETs url, follows redirects, and returns the final URL reached.
// The final body is discarded unread.
func (f *Fetcher) Follow(ctx context.Context, url string, opts ...RequestOption) (string, error) {
	resp, err := f.request(ctx, opts).SetDoNotParseResponse(true).Get(url)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer func() { _ = resp.RawBody().Close() }()

	if !resp.IsSuccess() {
		return "", &FetchError{URL: url, StatusCode: resp.StatusCode()}
	}
	final := resp.RawResponse.Request.URL.String()
	f.log.Debug("redirect followed", "url", url, "final", final)
	return final, nil
}

// Parse loads an HTML body into a goquery document.
func Parse(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
