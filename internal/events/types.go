package events

import "strconv"

// Entity types
const (
	EntityTitle = "title"
	EntityQuery = "query"
)

// Event type constants
const (
	EventCatalogSearched       = "catalog.searched"
	EventPlayerQueryChanged    = "player.query_changed"
	EventPlayerEpisodeSelected = "player.episode_selected"
	EventSourcesInvalidated    = "sources.invalidated"
	EventSourcesResolved       = "sources.resolved"
	EventSourcesFailed         = "sources.failed"
	EventHistoryBound          = "history.bound"
	EventHistoryAdvanced       = "history.advanced"
)

// TitleEntity formats a catalog title id as an event entity id.
func TitleEntity(titleID int64) string {
	return strconv.FormatInt(titleID, 10)
}

// CatalogSearched is emitted after a catalog search is answered.
type CatalogSearched struct {
	BaseEvent
	Query   string `json:"query"`
	Results int    `json:"results"`
	Cached  bool   `json:"cached"`
}

// QueryChanged is emitted when a player session switches to a new
// free-text source query.
type QueryChanged struct {
	BaseEvent
	TitleID  int64  `json:"title_id"`
	Query    string `json:"query"`
	Year     int    `json:"year,omitempty"`
	Refresh  bool   `json:"refresh,omitempty"`
	Revision uint64 `json:"revision"`
}

// EpisodeSelected is emitted when a player session selects an episode.
type EpisodeSelected struct {
	BaseEvent
	TitleID   int64  `json:"title_id"`
	ShowTitle string `json:"show_title"`
	SeriesID  string `json:"series_id,omitempty"`
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
	Refresh   bool   `json:"refresh,omitempty"`
	Revision  uint64 `json:"revision"`
}

// SourcesInvalidated is emitted when a session's source list is cleared
// ahead of recomputation.
type SourcesInvalidated struct {
	BaseEvent
	TitleID  int64  `json:"title_id"`
	Revision uint64 `json:"revision"`
	Reason   string `json:"reason"`
}

// SourcesResolved is emitted when a session's sources have been recomputed.
type SourcesResolved struct {
	BaseEvent
	TitleID      int64  `json:"title_id"`
	Revision     uint64 `json:"revision"`
	Query        string `json:"query"`
	Count        int    `json:"count"`
	SelectedLink string `json:"selected_link,omitempty"`
}

// SourcesFailed is emitted when recomputing a session's sources fails.
type SourcesFailed struct {
	BaseEvent
	TitleID  int64  `json:"title_id"`
	Revision uint64 `json:"revision"`
	Query    string `json:"query"`
	Error    string `json:"error"`
}

// HistoryBound is emitted when a title's history is bound to a new source.
type HistoryBound struct {
	BaseEvent
	TitleID     int64   `json:"title_id"`
	SourceLink  string  `json:"source_link"`
	SourceTitle string  `json:"source_title"`
	Position    float64 `json:"position"`
	Season      *int    `json:"season,omitempty"`
	Episode     *int    `json:"episode,omitempty"`
}

// HistoryAdvanced is emitted when a playback checkpoint is persisted.
type HistoryAdvanced struct {
	BaseEvent
	TitleID  int64   `json:"title_id"`
	Position float64 `json:"position"`
}
