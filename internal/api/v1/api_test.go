package v1

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	_ "modernc.org/sqlite"

	"github.com/vmunix/streamcz/internal/api/v1/mocks"
	"github.com/vmunix/streamcz/internal/catalog"
	"github.com/vmunix/streamcz/internal/events"
	"github.com/vmunix/streamcz/internal/hosting"
	"github.com/vmunix/streamcz/internal/library"
	"github.com/vmunix/streamcz/internal/migrations"
	"github.com/vmunix/streamcz/internal/player"
	"github.com/vmunix/streamcz/internal/scrape"
	"github.com/vmunix/streamcz/internal/service"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = migrations.Apply(context.Background(), db)
	require.NoError(t, err, "apply migrations")
	return db
}

// newTestServer returns a mux serving a server backed by a mock service.
func newTestServer(t *testing.T, deps ServerDeps) (*http.ServeMux, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockService(ctrl)
	deps.Service = svc

	srv, err := NewWithDeps(deps, Config{Version: "test"})
	require.NoError(t, err)

	mux := http.NewServeMux()
	srv.RegisterRoutes(mux)
	return mux, svc
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func ptr[T any](v T) *T { return &v }

func TestNewWithDeps_MissingService(t *testing.T) {
	_, err := NewWithDeps(ServerDeps{}, Config{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestSearchTitles(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})

	svc.EXPECT().
		SearchTitles(gomock.Any(), "matrix", true).
		Return([]catalog.Title{{ID: 9499, Title: "Matrix", Year: 1999, Kind: catalog.KindMovie, Score: 100}}, nil)

	w := do(mux, http.MethodGet, "/api/v1/titles?query=matrix&refresh=1", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp listTitlesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, int64(9499), resp.Items[0].ID)
	assert.Equal(t, 100, resp.Items[0].Score)
}

func TestSearchTitles_EmptyResultIsArray(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().SearchTitles(gomock.Any(), "", false).Return([]catalog.Title{}, nil)

	w := do(mux, http.MethodGet, "/api/v1/titles", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"items":[]`)
}

func TestGetTitle(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().GetTitle(gomock.Any(), int64(9499)).Return(&library.Title{
		ID: 9499, Title: "Matrix", Year: 1999, Kind: library.KindMovie, Director: "Lana Wachowski",
	}, nil)

	w := do(mux, http.MethodGet, "/api/v1/titles/9499", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp titleResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Matrix", resp.Title)
	assert.Equal(t, "movie", resp.Kind)
}

func TestGetTitle_NotFound(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().GetTitle(gomock.Any(), int64(1)).Return(nil, fmt.Errorf("get title 1: %w", library.ErrNotFound))

	w := do(mux, http.MethodGet, "/api/v1/titles/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, w).Code)
}

func TestGetTitle_InvalidID(t *testing.T) {
	mux, _ := newTestServer(t, ServerDeps{})

	for _, id := range []string{"abc", "0", "-5"} {
		w := do(mux, http.MethodGet, "/api/v1/titles/"+id, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, "id %s", id)
		assert.Equal(t, "INVALID_ID", decodeError(t, w).Code)
	}
}

func TestListSeries(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().GetSeries(gomock.Any(), int64(72489), false).Return([]catalog.Series{
		{ID: "72490", Title: "Season 1", Year: 1994, EpisodeCount: 24},
	}, nil)

	w := do(mux, http.MethodGet, "/api/v1/titles/72489/series", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp listSeriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 24, resp.Items[0].EpisodeCount)
}

func TestListSeries_UpstreamError(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().GetSeries(gomock.Any(), int64(72489), true).Return(nil, fmt.Errorf("series 72489: %w",
		&scrape.FetchError{URL: "https://www.csfd.cz/film/72489/", StatusCode: http.StatusServiceUnavailable}))

	w := do(mux, http.MethodGet, "/api/v1/titles/72489/series?refresh=true", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "UPSTREAM_ERROR", decodeError(t, w).Code)
}

func TestListEpisodes(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().GetEpisodes(gomock.Any(), "72490", false).Return([]catalog.Episode{
		{ID: "1", Title: "Pilot", Season: 1, Episode: 1},
		{ID: "2", Title: "The One with the Sonogram at the End", Season: 1, Episode: 2},
	}, nil)

	w := do(mux, http.MethodGet, "/api/v1/series/72490/episodes", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp listEpisodesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
}

func TestFindSources(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().FindSources(gomock.Any(), "Matrix", 1999, false).Return([]hosting.Source{
		{ID: "aaa111", Title: "Matrix HD", Link: "https://prehraj.to/matrix-hd/aaa111", Quality: "HD"},
	}, nil)

	w := do(mux, http.MethodGet, "/api/v1/sources?query=Matrix&year=1999", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp listSourcesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "HD", resp.Items[0].Quality)
}

func TestFindSources_MissingQuery(t *testing.T) {
	mux, _ := newTestServer(t, ServerDeps{})

	w := do(mux, http.MethodGet, "/api/v1/sources?query=%20", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_QUERY", decodeError(t, w).Code)
}

func TestResolveStream(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().ResolveStream(gomock.Any(), "matrix-hd/aaa111").Return(&hosting.Stream{
		ID: "aaa111", Title: "Matrix HD", StreamURL: "https://cdn.example/aaa111.mp4?token=x",
	}, nil)

	w := do(mux, http.MethodGet, "/api/v1/streams/matrix-hd/aaa111", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp hosting.Stream
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://cdn.example/aaa111.mp4?token=x", resp.StreamURL)
}

func TestResolveStream_NotFound(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().ResolveStream(gomock.Any(), "gone/zzz999").Return(nil, fmt.Errorf("resolve: %w", hosting.ErrStreamNotFound))

	w := do(mux, http.MethodGet, "/api/v1/streams/gone/zzz999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "STREAM_NOT_FOUND", decodeError(t, w).Code)
}

func TestListHistory(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	played := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)
	svc.EXPECT().History(gomock.Any()).Return([]*library.HistoryEntry{
		{TitleID: 72489, TitleName: "Přátelé", Kind: library.KindSeries, Position: 120, LastPlayed: played,
			SourceLink: "https://prehraj.to/pratele/bbb222", Season: ptr(1), Episode: ptr(2)},
	}, nil)

	w := do(mux, http.MethodGet, "/api/v1/history", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp listHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Přátelé", resp.Items[0].TitleName)
	assert.Equal(t, 2, *resp.Items[0].Episode)
	assert.True(t, played.Equal(resp.Items[0].LastPlayed))
}

func TestBindHistory(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().BindHistory(gomock.Any(), service.BindRequest{
		TitleID:     9499,
		TitleName:   "Matrix",
		Position:    30,
		SourceLink:  "https://prehraj.to/matrix/aaa111",
		SourceTitle: "Matrix HD",
	}).Return(&library.HistoryEntry{TitleID: 9499, TitleName: "Matrix", Position: 30, SourceLink: "https://prehraj.to/matrix/aaa111"}, nil)

	w := do(mux, http.MethodPost, "/api/v1/history",
		`{"title_id":9499,"title":"Matrix","position":30,"source_link":"https://prehraj.to/matrix/aaa111","source_title":"Matrix HD"}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp historyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(30), resp.Position)
}

func TestBindHistory_Errors(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})

	w := do(mux, http.MethodPost, "/api/v1/history", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_JSON", decodeError(t, w).Code)

	svc.EXPECT().BindHistory(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("bind history: %w", service.ErrInvalidInput))
	w = do(mux, http.MethodPost, "/api/v1/history", `{"title_id":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_INPUT", decodeError(t, w).Code)

	svc.EXPECT().BindHistory(gomock.Any(), gomock.Any()).Return(nil, fmt.Errorf("bind history: %w", library.ErrConstraint))
	w = do(mux, http.MethodPost, "/api/v1/history", `{"title_id":1,"source_link":"x"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdvanceHistory(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().AdvanceHistory(gomock.Any(), int64(9499), 102.5, true).Return(&service.AdvanceResult{
		Entry: &library.HistoryEntry{TitleID: 9499, Position: 102.5},
	}, nil)

	w := do(mux, http.MethodPatch, "/api/v1/history/9499", `{"position":102.5,"force":true}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp advanceHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Skipped)
	assert.Equal(t, 102.5, resp.Entry.Position)
}

func TestAdvanceHistory_Skipped(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().AdvanceHistory(gomock.Any(), int64(9499), float64(0), false).Return(&service.AdvanceResult{
		Entry:   &library.HistoryEntry{TitleID: 9499, Position: 2},
		Skipped: true,
	}, nil)

	w := do(mux, http.MethodPatch, "/api/v1/history/9499", `{"position":0}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"skipped":true`)
}

func TestAdvanceHistory_Errors(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})

	w := do(mux, http.MethodPatch, "/api/v1/history/9499", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_POSITION", decodeError(t, w).Code)

	svc.EXPECT().AdvanceHistory(gomock.Any(), int64(5), float64(10), false).
		Return(nil, fmt.Errorf("advance history 5: %w", library.ErrNotFound))
	w = do(mux, http.MethodPatch, "/api/v1/history/5", `{"position":10}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServiceError_Internal(t *testing.T) {
	mux, svc := newTestServer(t, ServerDeps{})
	svc.EXPECT().History(gomock.Any()).Return(nil, errors.New("disk on fire"))

	w := do(mux, http.MethodGet, "/api/v1/history", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, w).Code)
}

func TestPlayer_NotConfigured(t *testing.T) {
	mux, _ := newTestServer(t, ServerDeps{})

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/v1/player/1", ""},
		{http.MethodPost, "/api/v1/player/1/query", `{"query":"Matrix"}`},
		{http.MethodPost, "/api/v1/player/1/episode", `{"show_title":"Přátelé","season":1,"episode":1}`},
	} {
		w := do(mux, tc.method, tc.path, tc.body)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, tc.path)
	}
}

func playerDeps(t *testing.T) ServerDeps {
	t.Helper()
	bus := events.NewBus(nil, nil)
	t.Cleanup(func() { _ = bus.Close() })
	return ServerDeps{Bus: bus, Sessions: player.NewSessions()}
}

func TestPlayer_ChangeQuery(t *testing.T) {
	deps := playerDeps(t)
	mux, _ := newTestServer(t, deps)
	ch := deps.Bus.Subscribe(events.EventPlayerQueryChanged, 1)

	w := do(mux, http.MethodPost, "/api/v1/player/9499/query", `{"query":" Matrix ","year":1999,"refresh":true}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp playerChangeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(1), resp.Revision)
	assert.Equal(t, "Matrix", resp.Query)

	select {
	case e := <-ch:
		ev, ok := e.(*events.QueryChanged)
		require.True(t, ok)
		assert.Equal(t, int64(9499), ev.TitleID)
		assert.Equal(t, 1999, ev.Year)
		assert.True(t, ev.Refresh)
		assert.Equal(t, uint64(1), ev.Revision)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for query change")
	}

	w = do(mux, http.MethodGet, "/api/v1/player/9499", "")
	assert.Equal(t, http.StatusOK, w.Code)
	var sess player.Session
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sess))
	assert.Equal(t, player.StateSearching, sess.State)
	assert.Equal(t, "Matrix", sess.Query)
}

func TestPlayer_ChangeQuery_Missing(t *testing.T) {
	mux, _ := newTestServer(t, playerDeps(t))

	w := do(mux, http.MethodPost, "/api/v1/player/9499/query", `{"query":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_QUERY", decodeError(t, w).Code)
}

func TestPlayer_SelectEpisode(t *testing.T) {
	deps := playerDeps(t)
	mux, _ := newTestServer(t, deps)
	ch := deps.Bus.Subscribe(events.EventPlayerEpisodeSelected, 1)

	deps.Sessions.SetQuery(72489, "Přátelé", 0)
	w := do(mux, http.MethodPost, "/api/v1/player/72489/episode",
		`{"show_title":"Přátelé","series_id":"72490","season":1,"episode":2}`)
	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp playerChangeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, uint64(2), resp.Revision)
	assert.Equal(t, "Přátelé S01E02|Přátelé 01x02|Přátelé S01E02|Přátelé 1x2|Přátelé serie 01 epizoda 02", resp.Query)

	select {
	case e := <-ch:
		ev := e.(*events.EpisodeSelected)
		assert.Equal(t, "72490", ev.SeriesID)
		assert.Equal(t, 2, ev.Episode)
		assert.Equal(t, uint64(2), ev.Revision)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for episode selection")
	}

	sess, ok := deps.Sessions.Get(72489)
	require.True(t, ok)
	require.NotNil(t, sess.Episode)
	assert.Equal(t, 1, sess.Episode.Season)
}

func TestPlayer_SelectEpisode_Invalid(t *testing.T) {
	mux, _ := newTestServer(t, playerDeps(t))

	w := do(mux, http.MethodPost, "/api/v1/player/72489/episode", `{"show_title":"Přátelé","season":0,"episode":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_EPISODE", decodeError(t, w).Code)
}

func TestPlayer_GetSession_NotFound(t *testing.T) {
	mux, _ := newTestServer(t, playerDeps(t))

	w := do(mux, http.MethodGet, "/api/v1/player/42", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEvents_Success(t *testing.T) {
	db := setupTestDB(t)
	eventLog := events.NewEventLog(db)
	mux, _ := newTestServer(t, ServerDeps{EventLog: eventLog})

	_, err := eventLog.Append(&events.CatalogSearched{
		BaseEvent: events.NewBaseEvent(events.EventCatalogSearched, events.EntityQuery, "matrix"),
		Query:     "matrix",
		Results:   3,
	})
	require.NoError(t, err)

	w := do(mux, http.MethodGet, "/api/v1/events", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp listEventsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 50, resp.Limit) // default limit
	assert.Equal(t, 0, resp.Offset) // default offset
	assert.Equal(t, events.EventCatalogSearched, resp.Items[0].EventType)
	assert.Equal(t, "matrix", resp.Items[0].EntityID)
	assert.Contains(t, string(resp.Items[0].Payload), `"results":3`)
}

func TestListEvents_InvalidPagination(t *testing.T) {
	mux, _ := newTestServer(t, ServerDeps{EventLog: events.NewEventLog(setupTestDB(t))})

	w := do(mux, http.MethodGet, "/api/v1/events?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEvents_NotConfigured(t *testing.T) {
	mux, _ := newTestServer(t, ServerDeps{})

	w := do(mux, http.MethodGet, "/api/v1/events", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "NO_EVENT_LOG", decodeError(t, w).Code)
}

func TestGetStatus(t *testing.T) {
	deps := playerDeps(t)
	deps.Sessions.SetQuery(1, "Kolja", 0)
	mux, _ := newTestServer(t, deps)

	w := do(mux, http.MethodGet, "/api/v1/status", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp statusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.Equal(t, 1, resp.Sessions)
}
