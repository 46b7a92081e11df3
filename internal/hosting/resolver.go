package hosting

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/vmunix/streamcz/internal/scrape"
)

// ResolveStream follows the download flow for the upload at path and
// returns the final redirect target as the stream URL.
// It returns ErrStreamNotFound when the detail page has no download link.
func (c *Client) ResolveStream(ctx context.Context, path string) (*Stream, error) {
	path = strings.Trim(path, "/")
	detailURL := c.baseURL + "/" + path

	doc, err := c.fetcher.Document(ctx, detailURL, scrape.WithReferer(c.baseURL+"/"))
	if err != nil {
		return nil, fmt.Errorf("resolve stream %s: %w", path, err)
	}

	trigger, ok := doc.Find(`a[href*="?do=download"]`).First().Attr("href")
	if !ok || trigger == "" {
		c.log.Debug("download link missing", "path", path)
		return nil, ErrStreamNotFound
	}

	downloadURL, err := resolveReference(detailURL, trigger)
	if err != nil {
		return nil, fmt.Errorf("resolve stream %s: download link %q: %w", path, trigger, err)
	}
	streamURL, err := c.fetcher.Follow(ctx, downloadURL, scrape.WithReferer(detailURL))
	if err != nil {
		return nil, fmt.Errorf("resolve stream %s: %w", path, err)
	}

	stream := parseStream(doc, c.baseURL)
	stream.ID = path
	stream.StreamURL = streamURL
	c.log.Debug("stream resolved", "path", path, "title", stream.Title)
	return stream, nil
}

func resolveReference(pageURL, href string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}
