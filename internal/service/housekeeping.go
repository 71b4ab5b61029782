package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"assistall/internal/repository"
)

// Housekeeper prunes pending rides that were never accepted. Old pending
// records drop out of the default feed first (feed window) and are removed
// from the store here once they pass the retention cutoff.
type Housekeeper struct {
	rideRepo  repository.RideRepository
	log       *zap.Logger
	retention time.Duration
	interval  time.Duration
}

// NewHousekeeper creates a new Housekeeper.
func NewHousekeeper(rideRepo repository.RideRepository, log *zap.Logger, retention, interval time.Duration) *Housekeeper {
	if log == nil {
		log = zap.NewNop()
	}
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Housekeeper{
		rideRepo:  rideRepo,
		log:       log,
		retention: retention,
		interval:  interval,
	}
}

// Run prunes on a fixed interval until the context is cancelled.
func (h *Housekeeper) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.PruneOnce(ctx)
		}
	}
}

// PruneOnce deletes stale pending rides once.
func (h *Housekeeper) PruneOnce(ctx context.Context) {
	cutoff := time.Now().Add(-h.retention)
	pruned, err := h.rideRepo.DeleteStalePending(ctx, cutoff)
	if err != nil {
		h.log.Warn("pruning stale pending rides failed", zap.Error(err))
		return
	}
	if pruned > 0 {
		h.log.Info("pruned stale pending rides", zap.Int64("count", pruned))
	}
}
