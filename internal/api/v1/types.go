package v1

import (
	"encoding/json"
	"time"

	"github.com/vmunix/streamcz/internal/catalog"
	"github.com/vmunix/streamcz/internal/hosting"
	"github.com/vmunix/streamcz/internal/library"
)

// titleResponse is the API representation of a stored title.
type titleResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	Kind      string    `json:"type"`
	Genre     string    `json:"genre,omitempty"`
	Director  string    `json:"director,omitempty"`
	Poster    string    `json:"poster,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

type listTitlesResponse struct {
	Items []catalog.Title `json:"items"`
	Total int             `json:"total"`
}

type listSeriesResponse struct {
	Items []catalog.Series `json:"items"`
	Total int              `json:"total"`
}

type listEpisodesResponse struct {
	Items []catalog.Episode `json:"items"`
	Total int               `json:"total"`
}

type listSourcesResponse struct {
	Items []hosting.Source `json:"items"`
	Total int              `json:"total"`
}

// historyResponse is the API representation of a history entry.
type historyResponse struct {
	TitleID     int64     `json:"title_id"`
	TitleName   string    `json:"title"`
	Kind        string    `json:"type,omitempty"`
	Position    float64   `json:"position"`
	LastPlayed  time.Time `json:"last_played"`
	SourceLink  string    `json:"source_link"`
	SourceTitle string    `json:"source_title"`
	SeriesID    *string   `json:"series_id,omitempty"`
	Season      *int      `json:"season,omitempty"`
	Episode     *int      `json:"episode,omitempty"`
}

type listHistoryResponse struct {
	Items []historyResponse `json:"items"`
	Total int               `json:"total"`
}

// bindHistoryRequest is the request body for POST /history.
type bindHistoryRequest struct {
	TitleID     int64   `json:"title_id"`
	TitleName   string  `json:"title,omitempty"`
	Position    float64 `json:"position"`
	SourceLink  string  `json:"source_link"`
	SourceTitle string  `json:"source_title"`
	SeriesID    *string `json:"series_id,omitempty"`
	Season      *int    `json:"season,omitempty"`
	Episode     *int    `json:"episode,omitempty"`
}

// advanceHistoryRequest is the request body for PATCH /history/{titleId}.
type advanceHistoryRequest struct {
	Position *float64 `json:"position"`
	Force    bool     `json:"force,omitempty"`
}

type advanceHistoryResponse struct {
	Entry   historyResponse `json:"entry"`
	Skipped bool            `json:"skipped"`
}

// playerQueryRequest is the request body for POST /player/{titleId}/query.
type playerQueryRequest struct {
	Query   string `json:"query"`
	Year    int    `json:"year,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

// playerEpisodeRequest is the request body for POST /player/{titleId}/episode.
type playerEpisodeRequest struct {
	ShowTitle string `json:"show_title"`
	SeriesID  string `json:"series_id,omitempty"`
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
	Refresh   bool   `json:"refresh,omitempty"`
}

// playerChangeResponse acknowledges an accepted player change.
type playerChangeResponse struct {
	TitleID  int64  `json:"title_id"`
	Revision uint64 `json:"revision"`
	Query    string `json:"query"`
}

// eventResponse is the API representation of a logged event.
type eventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt string          `json:"occurred_at"`
}

type listEventsResponse struct {
	Items  []eventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

type statusResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

func titleToResponse(t *library.Title) titleResponse {
	return titleResponse{
		ID:        t.ID,
		Title:     t.Title,
		Year:      t.Year,
		Kind:      string(t.Kind),
		Genre:     t.Genre,
		Director:  t.Director,
		Poster:    t.Poster,
		UpdatedAt: t.UpdatedAt,
	}
}

func historyToResponse(h *library.HistoryEntry) historyResponse {
	return historyResponse{
		TitleID:     h.TitleID,
		TitleName:   h.TitleName,
		Kind:        string(h.Kind),
		Position:    h.Position,
		LastPlayed:  h.LastPlayed,
		SourceLink:  h.SourceLink,
		SourceTitle: h.SourceTitle,
		SeriesID:    h.SeriesID,
		Season:      h.Season,
		Episode:     h.Episode,
	}
}
