package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmunix/streamcz/internal/events"
	"github.com/vmunix/streamcz/internal/library"
)

// MaintenanceConfig configures the maintenance handler.
type MaintenanceConfig struct {
	Interval       time.Duration
	EventRetention time.Duration // 0 keeps events forever
	CacheRetention time.Duration // 0 keeps cached results forever
}

// MaintenanceHandler periodically prunes the event log and the result cache.
type MaintenanceHandler struct {
	*BaseHandler
	log    *events.EventLog
	store  *library.Store
	config MaintenanceConfig
}

// NewMaintenanceHandler creates a new maintenance handler. log and store
// may be nil to skip their pruning.
func NewMaintenanceHandler(bus *events.Bus, log *events.EventLog, store *library.Store, config MaintenanceConfig, logger *slog.Logger) *MaintenanceHandler {
	if config.Interval <= 0 {
		config.Interval = time.Hour
	}
	return &MaintenanceHandler{
		BaseHandler: NewBaseHandler("maintenance", bus, logger),
		log:         log,
		store:       store,
		config:      config,
	}
}

// Start prunes once, then on every interval until ctx is done.
func (h *MaintenanceHandler) Start(ctx context.Context) error {
	h.prune()

	ticker := time.NewTicker(h.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			h.prune()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *MaintenanceHandler) prune() {
	if h.log != nil && h.config.EventRetention > 0 {
		n, err := h.log.Prune(h.config.EventRetention)
		if err != nil {
			h.Logger().Error("event prune failed", "error", err)
		} else if n > 0 {
			h.Logger().Info("pruned events", "removed", n)
		}
	}
	if h.store != nil && h.config.CacheRetention > 0 {
		n, err := h.store.PruneSearch(h.config.CacheRetention)
		if err != nil {
			h.Logger().Error("cache prune failed", "error", err)
		} else if n > 0 {
			h.Logger().Info("pruned cached results", "removed", n)
		}
	}
}
