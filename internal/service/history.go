package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vmunix/streamcz/internal/events"
	"github.com/vmunix/streamcz/internal/library"
)

// BindRequest starts (or restarts) playback of a title on a source.
type BindRequest struct {
	TitleID     int64
	TitleName   string // stored for the placeholder title when unknown
	Position    float64
	SourceLink  string
	SourceTitle string
	SeriesID    *string
	Season      *int
	Episode     *int
}

// AdvanceResult reports the outcome of a checkpoint.
type AdvanceResult struct {
	Entry   *library.HistoryEntry
	Skipped bool // position moved no more than the checkpoint threshold
}

// BindHistory replaces the title's history entry with one bound to the
// requested source.
func (s *Service) BindHistory(ctx context.Context, req BindRequest) (*library.HistoryEntry, error) {
	if req.TitleID <= 0 || strings.TrimSpace(req.SourceLink) == "" {
		return nil, fmt.Errorf("bind history: title id and source link required: %w", ErrInvalidInput)
	}
	if req.Position < 0 || math.IsNaN(req.Position) {
		return nil, fmt.Errorf("bind history: bad position %v: %w", req.Position, ErrInvalidInput)
	}

	placeholder := library.Title{ID: req.TitleID, Title: req.TitleName, Kind: library.KindMovie}
	if placeholder.Title == "" {
		placeholder.Title = UnknownTitle
	}
	if req.SeriesID != nil || req.Season != nil {
		placeholder.Kind = library.KindSeries
	}

	entry := &library.HistoryEntry{
		TitleID:     req.TitleID,
		Position:    req.Position,
		SourceLink:  req.SourceLink,
		SourceTitle: req.SourceTitle,
		SeriesID:    req.SeriesID,
		Season:      req.Season,
		Episode:     req.Episode,
	}

	tx, err := s.store.Begin()
	if err != nil {
		return nil, fmt.Errorf("bind history: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.EnsureTitle(&placeholder); err != nil {
		return nil, fmt.Errorf("bind history: %w", err)
	}
	if err := tx.BindHistory(entry); err != nil {
		return nil, fmt.Errorf("bind history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("bind history: %w", err)
	}

	stored, err := s.store.GetHistory(req.TitleID)
	if err != nil {
		return nil, fmt.Errorf("bind history: %w", err)
	}

	s.log.Info("history bound", "title_id", req.TitleID, "source", req.SourceLink)
	s.publish(ctx, &events.HistoryBound{
		BaseEvent:   events.NewBaseEvent(events.EventHistoryBound, events.EntityTitle, events.TitleEntity(req.TitleID)),
		TitleID:     req.TitleID,
		SourceLink:  req.SourceLink,
		SourceTitle: req.SourceTitle,
		Position:    req.Position,
		Season:      req.Season,
		Episode:     req.Episode,
	})
	return stored, nil
}

// AdvanceHistory checkpoints the playback position of a title's bound
// source. Unless force is set, a move of no more than the checkpoint
// threshold is skipped. Returns library.ErrNotFound if nothing is bound.
func (s *Service) AdvanceHistory(ctx context.Context, titleID int64, position float64, force bool) (*AdvanceResult, error) {
	if position < 0 || math.IsNaN(position) {
		return nil, fmt.Errorf("advance history: bad position %v: %w", position, ErrInvalidInput)
	}

	current, err := s.store.GetHistory(titleID)
	if err != nil {
		return nil, fmt.Errorf("advance history of title %d: %w", titleID, err)
	}

	moved := math.Abs(position - current.Position)
	if !force && moved <= s.cfg.CheckpointThreshold.Seconds() {
		s.log.Debug("checkpoint skipped", "title_id", titleID, "position", position, "moved", moved)
		return &AdvanceResult{Entry: current, Skipped: true}, nil
	}

	if err := s.store.AdvanceHistory(titleID, position, time.Now()); err != nil {
		return nil, fmt.Errorf("advance history of title %d: %w", titleID, err)
	}
	updated, err := s.store.GetHistory(titleID)
	if err != nil {
		return nil, fmt.Errorf("advance history of title %d: %w", titleID, err)
	}

	s.publish(ctx, &events.HistoryAdvanced{
		BaseEvent: events.NewBaseEvent(events.EventHistoryAdvanced, events.EntityTitle, events.TitleEntity(titleID)),
		TitleID:   titleID,
		Position:  position,
	})
	return &AdvanceResult{Entry: updated}, nil
}

// History returns the most recently played entries, newest first.
func (s *Service) History(_ context.Context) ([]*library.HistoryEntry, error) {
	entries, err := s.store.ListHistory(s.cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	if entries == nil {
		entries = []*library.HistoryEntry{}
	}
	return entries, nil
}

// BoundLink returns the source link bound to a title, or "" when the title
// has no history.
func (s *Service) BoundLink(_ context.Context, titleID int64) (string, error) {
	entry, err := s.store.GetHistory(titleID)
	if errors.Is(err, library.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("bound link of title %d: %w", titleID, err)
	}
	return entry.SourceLink, nil
}
