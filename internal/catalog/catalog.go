// Package catalog resolves titles, series and episodes from the film catalog site.
package catalog

import "errors"

// Title kinds reported by the catalog.
const (
	KindMovie  = "movie"
	KindSeries = "series"
)

// ErrInvalidID is returned for catalog ids that cannot address a detail page.
var ErrInvalidID = errors.New("invalid catalog id")

// Title is one catalog search hit.
type Title struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Year           int      `json:"year"`
	Kind           string   `json:"type"`
	Poster         string   `json:"poster,omitempty"`
	Genre          string   `json:"genre,omitempty"`
	Origin         string   `json:"origin,omitempty"`
	Director       string   `json:"director,omitempty"`
	Actors         []string `json:"actors,omitempty"`
	AdditionalInfo string   `json:"additional_info,omitempty"`
	Score          int      `json:"relevance_score"`
}

// Series is a season (or sub-series) listed on a title's detail page.
type Series struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Year         int    `json:"year"`
	EpisodeCount int    `json:"episode_count"`
}

// Episode is one entry of a season listing.
type Episode struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
}
