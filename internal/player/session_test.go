package player

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/streamcz/internal/hosting"
)

var testSources = []hosting.Source{
	{ID: "aaa111", Link: "https://prehraj.to/matrix/aaa111", Quality: "HD"},
	{ID: "bbb222", Link: "https://prehraj.to/matrix/bbb222"},
}

func TestSessions_Get_Missing(t *testing.T) {
	s := NewSessions()
	_, ok := s.Get(1)
	assert.False(t, ok)
}

func TestSessions_SetQuery(t *testing.T) {
	s := NewSessions()

	rev := s.SetQuery(9499, "Matrix", 1999)
	assert.Equal(t, uint64(1), rev)

	sess, ok := s.Get(9499)
	require.True(t, ok)
	assert.Equal(t, "Matrix", sess.Query)
	assert.Equal(t, 1999, sess.Year)
	assert.Equal(t, StateSearching, sess.State)
	assert.Nil(t, sess.Episode)
	assert.NotNil(t, sess.Sources)
	assert.False(t, sess.UpdatedAt.IsZero())

	assert.Equal(t, uint64(2), s.SetQuery(9499, "Matrix CZ", 0))
}

func TestSessions_SelectEpisode(t *testing.T) {
	s := NewSessions()
	s.SetQuery(72489, "Přátelé", 1994)

	rev := s.SelectEpisode(72489, Episode{SeriesID: "523474-serie-1", Season: 1, Episode: 2}, "Přátelé S01E02")
	assert.Equal(t, uint64(2), rev)

	sess, _ := s.Get(72489)
	require.NotNil(t, sess.Episode)
	assert.Equal(t, 2, sess.Episode.Episode)
	assert.Zero(t, sess.Year)

	s.SetQuery(72489, "Přátelé", 0)
	sess, _ = s.Get(72489)
	assert.Nil(t, sess.Episode, "a new query drops the episode")
}

func TestSessions_Resolve(t *testing.T) {
	s := NewSessions()
	rev := s.SetQuery(1, "Matrix", 0)

	require.True(t, s.Invalidate(1, rev))
	require.True(t, s.Resolve(1, rev, testSources, &testSources[1]))

	sess, _ := s.Get(1)
	assert.Equal(t, StateReady, sess.State)
	assert.Len(t, sess.Sources, 2)
	require.NotNil(t, sess.Selected)
	assert.Equal(t, "bbb222", sess.Selected.ID)
}

func TestSessions_StaleRevisionDropped(t *testing.T) {
	s := NewSessions()
	old := s.SetQuery(1, "Matrix", 0)
	latest := s.SetQuery(1, "Matrix Reloaded", 0)

	assert.False(t, s.Invalidate(1, old))
	assert.False(t, s.Resolve(1, old, testSources, nil))
	assert.False(t, s.Fail(1, old, "boom"))
	assert.False(t, s.Current(1, old))
	assert.True(t, s.Current(1, latest))

	sess, _ := s.Get(1)
	assert.Equal(t, StateSearching, sess.State)
	assert.Empty(t, sess.Sources)
	assert.Empty(t, sess.Error)

	assert.False(t, s.Resolve(2, 1, testSources, nil), "unknown title")
}

func TestSessions_Fail(t *testing.T) {
	s := NewSessions()
	rev := s.SetQuery(1, "Matrix", 0)
	require.True(t, s.Resolve(1, rev, testSources, &testSources[0]))

	rev = s.SetQuery(1, "Matrix", 0)
	require.True(t, s.Fail(1, rev, "fetch failed"))

	sess, _ := s.Get(1)
	assert.Equal(t, StateFailed, sess.State)
	assert.Equal(t, "fetch failed", sess.Error)
	assert.Empty(t, sess.Sources)
	assert.Nil(t, sess.Selected)
}

func TestSessions_SnapshotIsCopy(t *testing.T) {
	s := NewSessions()
	rev := s.SetQuery(1, "Matrix", 0)
	s.Resolve(1, rev, testSources, &testSources[0])

	sess, _ := s.Get(1)
	sess.Sources[0].ID = "changed"
	sess.Selected.ID = "changed"

	again, _ := s.Get(1)
	assert.Equal(t, "aaa111", again.Sources[0].ID)
	assert.Equal(t, "aaa111", again.Selected.ID)
}

func TestSessions_Drop(t *testing.T) {
	s := NewSessions()
	s.SetQuery(1, "Matrix", 0)
	s.SetQuery(2, "Kolja", 0)
	assert.Equal(t, 2, s.Len())

	s.Drop(1)
	assert.Equal(t, 1, s.Len())
	_, ok := s.Get(1)
	assert.False(t, ok)
}

func TestSessions_Concurrent(t *testing.T) {
	s := NewSessions()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rev := s.SetQuery(1, "Matrix", 0)
			s.Resolve(1, rev, testSources, nil)
			s.Get(1)
		}()
	}
	wg.Wait()

	sess, _ := s.Get(1)
	assert.Equal(t, uint64(50), sess.Revision)
}
