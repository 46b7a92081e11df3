package catalog

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamcz/internal/scrape"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

type catalogSite struct {
	*httptest.Server
	hits map[string]*atomic.Int32
}

// newCatalogSite serves fixture pages keyed by request path.
func newCatalogSite(t *testing.T, pages map[string][]byte) *catalogSite {
	t.Helper()
	site := &catalogSite{hits: make(map[string]*atomic.Int32)}
	for path := range pages {
		site.hits[path] = &atomic.Int32{}
	}
	site.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		site.hits[r.URL.Path].Add(1)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
	}))
	t.Cleanup(site.Close)
	return site
}

func newTestClient(site *catalogSite, opts ...Option) *Client {
	opts = append([]Option{WithBaseURL(site.URL), WithLogger(testLogger())}, opts...)
	return NewClient(opts...)
}

func TestClient_Search(t *testing.T) {
	page := fixture(t, "search.html")
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/hledat/", r.URL.Path)
		assert.Contains(t, r.Header.Get("User-Agent"), "Chrome/91")
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithLogger(testLogger()))

	titles, err := client.Search(context.Background(), "Matrix")
	require.NoError(t, err)
	assert.Equal(t, "Matrix", gotQuery)
	require.Len(t, titles, 3)

	assert.Equal(t, "Matrix", titles[0].Title)
	assert.Equal(t, "Matrix Reloaded", titles[1].Title)
	assert.Equal(t, "Animatrix", titles[2].Title)

	matrix := titles[0]
	assert.Equal(t, int64(9499), matrix.ID)
	assert.Equal(t, 1999, matrix.Year)
	assert.Equal(t, KindMovie, matrix.Kind)
	assert.Equal(t, 100, matrix.Score)
	assert.Equal(t, "https://image.pmgstatic.com/files/images/film/posters/matrix.jpg", matrix.Poster)
	assert.Equal(t, "USA", matrix.Origin)
	assert.Equal(t, "Akční, Sci-Fi", matrix.Genre)
	assert.Equal(t, "Lana Wachowski", matrix.Director)
	assert.Equal(t, []string{"Keanu Reeves", "Laurence Fishburne"}, matrix.Actors)
	assert.Empty(t, matrix.AdditionalInfo)

	assert.Equal(t, 80, titles[1].Score)
	assert.Equal(t, "https://image.pmgstatic.com/files/images/film/posters/reloaded.jpg", titles[1].Poster)
	assert.Empty(t, titles[1].Genre)

	animatrix := titles[2]
	assert.Equal(t, KindSeries, animatrix.Kind)
	assert.Equal(t, 60, animatrix.Score)
	assert.Empty(t, animatrix.Poster, "inline images are dropped")
	assert.Equal(t, "(seriál)", animatrix.AdditionalInfo)
}

func TestClient_Search_Limits(t *testing.T) {
	site := newCatalogSite(t, map[string][]byte{"/hledat/": fixture(t, "search.html")})

	t.Run("min score", func(t *testing.T) {
		titles, err := newTestClient(site, WithLimits(70, 10)).Search(context.Background(), "matrix")
		require.NoError(t, err)
		require.Len(t, titles, 2)
		for _, ti := range titles {
			assert.GreaterOrEqual(t, ti.Score, 70)
		}
	})

	t.Run("max results", func(t *testing.T) {
		titles, err := newTestClient(site, WithLimits(30, 1)).Search(context.Background(), "matrix")
		require.NoError(t, err)
		require.Len(t, titles, 1)
		assert.Equal(t, "Matrix", titles[0].Title)
	})

	t.Run("no relevant hits", func(t *testing.T) {
		titles, err := newTestClient(site).Search(context.Background(), "kolja")
		require.NoError(t, err)
		assert.Empty(t, titles)
	})
}

func TestClient_Search_FetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithLogger(testLogger()))

	titles, err := client.Search(context.Background(), "Matrix")
	assert.Nil(t, titles)
	require.Error(t, err)
	assert.True(t, scrape.IsFetchError(err))
}

func TestClient_Series(t *testing.T) {
	site := newCatalogSite(t, map[string][]byte{"/film/72489": fixture(t, "series.html")})

	series, err := newTestClient(site).Series(context.Background(), "72489")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, Series{ID: "523474-serie-1", Title: "Série 1", Year: 1994, EpisodeCount: 24}, series[0])
	assert.Equal(t, Series{ID: "523500-serie-2", Title: "Série 2", Year: 1995, EpisodeCount: 24}, series[1])
}

func TestClient_Series_LegacyLayout(t *testing.T) {
	site := newCatalogSite(t, map[string][]byte{"/film/601234": fixture(t, "series_legacy.html")})

	series, err := newTestClient(site).Series(context.Background(), "601234")
	require.NoError(t, err)
	require.Len(t, series, 1)
	assert.Equal(t, Series{ID: "601235-serie-1", Title: "Série 1", Year: 2019, EpisodeCount: 8}, series[0])
}

func TestClient_Series_NoListing(t *testing.T) {
	site := newCatalogSite(t, map[string][]byte{"/film/9499": fixture(t, "search.html")})

	series, err := newTestClient(site).Series(context.Background(), "9499")
	require.NoError(t, err)
	assert.Empty(t, series)
}

func TestClient_Episodes(t *testing.T) {
	site := newCatalogSite(t, map[string][]byte{"/film/523474-serie-1": fixture(t, "episodes.html")})

	episodes, err := newTestClient(site).Episodes(context.Background(), "523474-serie-1")
	require.NoError(t, err)
	require.Len(t, episodes, 2, "rows without an episode code are skipped")
	assert.Equal(t, Episode{ID: "523475-epizoda-1", Title: "Ten s Monikou novou spolubydlící", Season: 1, Episode: 1}, episodes[0])
	assert.Equal(t, 2, episodes[1].Episode)
}

func TestClient_InvalidID(t *testing.T) {
	client := NewClient(WithBaseURL("http://127.0.0.1:1"), WithLogger(testLogger()))

	_, err := client.Series(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = client.Episodes(context.Background(), "a/b")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestClient_ListingCache(t *testing.T) {
	site := newCatalogSite(t, map[string][]byte{"/film/72489": fixture(t, "series.html")})
	client := newTestClient(site, WithListingCache(1, time.Minute))
	ctx := context.Background()

	_, err := client.Series(ctx, "72489")
	require.NoError(t, err)
	series, err := client.Series(ctx, "72489")
	require.NoError(t, err)
	assert.Len(t, series, 2)
	assert.Equal(t, int32(1), site.hits["/film/72489"].Load(), "second lookup should be served from cache")

	client.Forget("72489")
	_, err = client.Series(ctx, "72489")
	require.NoError(t, err)
	assert.Equal(t, int32(2), site.hits["/film/72489"].Load())
}

func TestClient_ListingCache_Disabled(t *testing.T) {
	site := newCatalogSite(t, map[string][]byte{"/film/72489": fixture(t, "series.html")})
	client := newTestClient(site)
	ctx := context.Background()

	for range 2 {
		_, err := client.Series(ctx, "72489")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), site.hits["/film/72489"].Load())
}
