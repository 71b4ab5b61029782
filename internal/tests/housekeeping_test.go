package tests

import (
	"context"
	"testing"
	"time"

	"assistall/internal/domain"
	"assistall/internal/service"
)

// ──────────────────────────────────────────────
// HOUSEKEEPING
// ──────────────────────────────────────────────

func TestHousekeeper_PrunesOnlyStalePending(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	hk := service.NewHousekeeper(repo, nil, 7*24*time.Hour, time.Hour)

	now := time.Now()
	repo.AddRide(&domain.Ride{ID: "stale-pending", Status: domain.RideStatusPending, CreatedAt: now.Add(-8 * 24 * time.Hour)})
	repo.AddRide(&domain.Ride{ID: "fresh-pending", Status: domain.RideStatusPending, CreatedAt: now})
	repo.AddRide(&domain.Ride{ID: "stale-completed", Status: domain.RideStatusCompleted, CreatedAt: now.Add(-30 * 24 * time.Hour)})

	hk.PruneOnce(context.Background())

	if repo.GetRide("stale-pending") != nil {
		t.Error("stale pending ride should have been pruned")
	}
	if repo.GetRide("fresh-pending") == nil {
		t.Error("fresh pending ride must survive pruning")
	}
	if repo.GetRide("stale-completed") == nil {
		t.Error("completed rides are never pruned")
	}
}
