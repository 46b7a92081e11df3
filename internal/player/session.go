// Package player tracks per-title playback sessions: what is being searched
// for, which episode is selected and which sources were found for it.
package player

import (
	"sync"
	"time"

	"github.com/vmunix/streamcz/internal/hosting"
)

// State is the lifecycle of a session's source list.
type State string

const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateReady     State = "ready"
	StateFailed    State = "failed"
)

// Episode identifies a selected episode of a show.
type Episode struct {
	SeriesID string `json:"series_id,omitempty"`
	Season   int    `json:"season"`
	Episode  int    `json:"episode"`
}

// Session is a snapshot of one title's playback state.
type Session struct {
	TitleID   int64            `json:"title_id"`
	Query     string           `json:"query"`
	Year      int              `json:"year,omitempty"`
	Episode   *Episode         `json:"episode,omitempty"`
	Revision  uint64           `json:"revision"`
	State     State            `json:"state"`
	Sources   []hosting.Source `json:"sources"`
	Selected  *hosting.Source  `json:"selected,omitempty"`
	Error     string           `json:"error,omitempty"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Sessions holds the live sessions keyed by title id. Every change of query
// or episode bumps the session revision; results carrying an older revision
// are rejected.
type Sessions struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	now      func() time.Time
}

// NewSessions creates an empty session set.
func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

// Get returns a copy of the title's session.
func (s *Sessions) Get(titleID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[titleID]
	if !ok {
		return Session{}, false
	}
	return sess.snapshot(), true
}

// SetQuery switches the session to a free-text query and returns the new
// revision. Any episode selection is dropped.
func (s *Sessions) SetQuery(titleID int64, query string, year int) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(titleID)
	sess.Query = query
	sess.Year = year
	sess.Episode = nil
	return s.restart(sess)
}

// SelectEpisode switches the session to an episode, searched for by query,
// and returns the new revision.
func (s *Sessions) SelectEpisode(titleID int64, ep Episode, query string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.session(titleID)
	sess.Query = query
	sess.Year = 0
	sess.Episode = &ep
	return s.restart(sess)
}

// Invalidate clears the sources of the session at revision. It reports
// false when the revision has been superseded.
func (s *Sessions) Invalidate(titleID int64, revision uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.current(titleID, revision)
	if !ok {
		return false
	}
	sess.Sources = nil
	sess.Selected = nil
	sess.Error = ""
	sess.State = StateSearching
	sess.UpdatedAt = s.now()
	return true
}

// Resolve stores ranked sources and the selected one for revision. It
// reports false, storing nothing, when the revision has been superseded.
func (s *Sessions) Resolve(titleID int64, revision uint64, sources []hosting.Source, selected *hosting.Source) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.current(titleID, revision)
	if !ok {
		return false
	}
	sess.Sources = append([]hosting.Source(nil), sources...)
	sess.Selected = nil
	if selected != nil {
		sel := *selected
		sess.Selected = &sel
	}
	sess.Error = ""
	sess.State = StateReady
	sess.UpdatedAt = s.now()
	return true
}

// Fail records a failed source search for revision.
func (s *Sessions) Fail(titleID int64, revision uint64, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.current(titleID, revision)
	if !ok {
		return false
	}
	sess.Sources = nil
	sess.Selected = nil
	sess.Error = msg
	sess.State = StateFailed
	sess.UpdatedAt = s.now()
	return true
}

// Current reports whether revision is the title's latest.
func (s *Sessions) Current(titleID int64, revision uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.current(titleID, revision)
	return ok
}

// Drop forgets a title's session.
func (s *Sessions) Drop(titleID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, titleID)
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Sessions) session(titleID int64) *Session {
	sess, ok := s.sessions[titleID]
	if !ok {
		sess = &Session{TitleID: titleID, State: StateIdle}
		s.sessions[titleID] = sess
	}
	return sess
}

func (s *Sessions) restart(sess *Session) uint64 {
	sess.Revision++
	sess.Sources = nil
	sess.Selected = nil
	sess.Error = ""
	sess.State = StateSearching
	sess.UpdatedAt = s.now()
	return sess.Revision
}

func (s *Sessions) current(titleID int64, revision uint64) (*Session, bool) {
	sess, ok := s.sessions[titleID]
	if !ok || sess.Revision != revision {
		return nil, false
	}
	return sess, true
}

func (sess *Session) snapshot() Session {
	out := *sess
	out.Sources = append([]hosting.Source{}, sess.Sources...)
	if sess.Selected != nil {
		sel := *sess.Selected
		out.Selected = &sel
	}
	if sess.Episode != nil {
		ep := *sess.Episode
		out.Episode = &ep
	}
	return out
}
