// Package library persists catalog titles, cached listings and watch history.
package library

import "time"

// Kind distinguishes movies from series.
type Kind string

const (
	KindMovie  Kind = "movie"
	KindSeries Kind = "series"
)

// CacheKind names one search-cache surface. Equal query text on different
// surfaces never collides.
type CacheKind string

const (
	CacheCatalog CacheKind = "catalog"
	CacheSources CacheKind = "sources"
)

// ListingKind names a stored catalog listing.
type ListingKind string

const (
	ListingSeries   ListingKind = "series"
	ListingEpisodes ListingKind = "episodes"
)

// Title is a catalog title. ID is the catalog's id.
type Title struct {
	ID        int64
	Title     string
	Year      int
	Kind      Kind
	Genre     string
	Director  string
	Poster    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Series is one season listed under a title.
type Series struct {
	ID           string
	TitleID      int64
	Title        string
	Year         int
	EpisodeCount int
}

// Episode belongs to a series; (SeriesID, Season, Episode) is unique.
type Episode struct {
	ID       string
	SeriesID string
	Title    string
	Season   int
	Episode  int
}

// HistoryEntry is the single live playback record of a title.
type HistoryEntry struct {
	ID          int64
	TitleID     int64
	Position    float64 // seconds
	LastPlayed  time.Time
	SourceLink  string
	SourceTitle string
	SeriesID    *string
	Season      *int
	Episode     *int

	// Filled by reads from the joined title.
	TitleName string
	Kind      Kind
}
