package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client wraps HTTP calls to the streamcz server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new streamcz API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 90 * time.Second, // source searches fan out upstream
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.send(http.MethodPost, path, body, result)
}

func (c *Client) patch(path string, body any, result any) error {
	return c.send(http.MethodPatch, path, body, result)
}

func (c *Client) send(method, path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func withRefresh(q url.Values, refresh bool) url.Values {
	if refresh {
		q.Set("refresh", "true")
	}
	return q
}

// API response types (mirror server types)

type StatusResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
}

type TitleResponse struct {
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
	Score          int      `json:"relevance_score,omitempty"`
}

type ListTitlesResponse struct {
	Items []TitleResponse `json:"items"`
	Total int             `json:"total"`
}

type SeriesResponse struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Year         int    `json:"year"`
	EpisodeCount int    `json:"episode_count"`
}

type ListSeriesResponse struct {
	Items []SeriesResponse `json:"items"`
	Total int              `json:"total"`
}

type EpisodeResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Season  int    `json:"season"`
	Episode int    `json:"episode"`
}

type ListEpisodesResponse struct {
	Items []EpisodeResponse `json:"items"`
	Total int               `json:"total"`
}

type SourceResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Size      string `json:"size,omitempty"`
	Quality   string `json:"quality,omitempty"`
	Score     int    `json:"relevance_score"`
}

type ListSourcesResponse struct {
	Items []SourceResponse `json:"items"`
	Total int              `json:"total"`
}

type StreamResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	StreamURL string `json:"stream_url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Duration  string `json:"duration,omitempty"`
	Size      string `json:"size,omitempty"`
	Quality   string `json:"quality,omitempty"`
}

type HistoryResponse struct {
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

type ListHistoryResponse struct {
	Items []HistoryResponse `json:"items"`
	Total int               `json:"total"`
}

type BindHistoryRequest struct {
	TitleID     int64   `json:"title_id"`
	TitleName   string  `json:"title,omitempty"`
	Position    float64 `json:"position"`
	SourceLink  string  `json:"source_link"`
	SourceTitle string  `json:"source_title"`
	SeriesID    *string `json:"series_id,omitempty"`
	Season      *int    `json:"season,omitempty"`
	Episode     *int    `json:"episode,omitempty"`
}

type AdvanceHistoryResponse struct {
	Entry   HistoryResponse `json:"entry"`
	Skipped bool            `json:"skipped"`
}

type PlayerQueryRequest struct {
	Query   string `json:"query"`
	Year    int    `json:"year,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

type PlayerEpisodeRequest struct {
	ShowTitle string `json:"show_title"`
	SeriesID  string `json:"series_id,omitempty"`
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
	Refresh   bool   `json:"refresh,omitempty"`
}

type PlayerChangeResponse struct {
	TitleID  int64  `json:"title_id"`
	Revision uint64 `json:"revision"`
	Query    string `json:"query"`
}

type SessionResponse struct {
	TitleID  int64            `json:"title_id"`
	Query    string           `json:"query"`
	Revision uint64           `json:"revision"`
	State    string           `json:"state"`
	Sources  []SourceResponse `json:"sources"`
	Selected *SourceResponse  `json:"selected,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/api/v1/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SearchTitles(query string, refresh bool) (*ListTitlesResponse, error) {
	q := withRefresh(url.Values{"query": {query}}, refresh)
	var resp ListTitlesResponse
	if err := c.get("/api/v1/titles?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Title(id int64) (*TitleResponse, error) {
	var resp TitleResponse
	if err := c.get(fmt.Sprintf("/api/v1/titles/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Series(titleID int64, refresh bool) (*ListSeriesResponse, error) {
	path := fmt.Sprintf("/api/v1/titles/%d/series", titleID)
	if refresh {
		path += "?refresh=true"
	}
	var resp ListSeriesResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Episodes(seriesID string, refresh bool) (*ListEpisodesResponse, error) {
	path := "/api/v1/series/" + url.PathEscape(seriesID) + "/episodes"
	if refresh {
		path += "?refresh=true"
	}
	var resp ListEpisodesResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Sources(query string, year int, refresh bool) (*ListSourcesResponse, error) {
	q := withRefresh(url.Values{"query": {query}}, refresh)
	if year > 0 {
		q.Set("year", fmt.Sprint(year))
	}
	var resp ListSourcesResponse
	if err := c.get("/api/v1/sources?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stream resolves a hosting path ("slug/id") to a playable URL.
func (c *Client) Stream(path string) (*StreamResponse, error) {
	var resp StreamResponse
	if err := c.get("/api/v1/streams/"+strings.Trim(path, "/"), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) History() (*ListHistoryResponse, error) {
	var resp ListHistoryResponse
	if err := c.get("/api/v1/history", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) BindHistory(req *BindHistoryRequest) (*HistoryResponse, error) {
	var resp HistoryResponse
	if err := c.post("/api/v1/history", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AdvanceHistory(titleID int64, position float64, force bool) (*AdvanceHistoryResponse, error) {
	body := map[string]any{"position": position, "force": force}
	var resp AdvanceHistoryResponse
	if err := c.patch(fmt.Sprintf("/api/v1/history/%d", titleID), body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Session(titleID int64) (*SessionResponse, error) {
	var resp SessionResponse
	if err := c.get(fmt.Sprintf("/api/v1/player/%d", titleID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ChangeQuery(titleID int64, req *PlayerQueryRequest) (*PlayerChangeResponse, error) {
	var resp PlayerChangeResponse
	if err := c.post(fmt.Sprintf("/api/v1/player/%d/query", titleID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SelectEpisode(titleID int64, req *PlayerEpisodeRequest) (*PlayerChangeResponse, error) {
	var resp PlayerChangeResponse
	if err := c.post(fmt.Sprintf("/api/v1/player/%d/episode", titleID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Event types

type EventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"type"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt string          `json:"occurred_at"`
}

type ListEventsResponse struct {
	Items []EventResponse `json:"items"`
	Total int             `json:"total"`
}

func (c *Client) Events(limit int) (*ListEventsResponse, error) {
	path := fmt.Sprintf("/api/v1/events?limit=%d", limit)
	var resp ListEventsResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
