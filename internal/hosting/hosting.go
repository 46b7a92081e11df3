// Package hosting finds and resolves video uploads on the hosting site.
package hosting

import (
	"errors"
	"net/url"
	"strings"

	"github.com/vmunix/streamcz/pkg/rank"
)

// ErrStreamNotFound is returned when a detail page has no download trigger.
// It is distinct from a failed fetch.
var ErrStreamNotFound = errors.New("stream not found")

// Source is an unresolved search hit on the hosting site.
type Source struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Size      string `json:"size,omitempty"`
	Quality   string `json:"quality,omitempty"`
	Score     int    `json:"relevance_score"`
}

// Stream is a resolved, directly playable upload. StreamURL expires, so
// streams are never cached.
type Stream struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StreamURL string `json:"stream_url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Size      string `json:"size,omitempty"`
	Quality   string `json:"quality,omitempty"`
}

// RankSources orders sources HD first, then by descending size.
func RankSources(sources []Source) {
	rank.Sources(sources,
		func(s Source) string { return s.Quality },
		func(s Source) string { return s.Size },
	)
}

// PathFromLink returns the hosting path of a source link, without the
// leading slash: "https://host/slug/abc" -> "slug/abc".
func PathFromLink(link string) string {
	p := link
	if u, err := url.Parse(link); err == nil && u.Host != "" {
		p = u.Path
	}
	return strings.Trim(p, "/")
}

// NormalizeID reduces a hosting path or link to the upload id, so the same
// upload matches whether it is addressed as "slug/id" or by bare id.
func NormalizeID(pathOrLink string) string {
	p := PathFromLink(pathOrLink)
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
