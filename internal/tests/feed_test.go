package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"assistall/internal/domain"
	"assistall/internal/service"
)

// ──────────────────────────────────────────────
// FEED VISIBILITY
// ──────────────────────────────────────────────

func TestFeed_RequesterSeesOwnOldRide(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	feed := service.NewFeedService(repo, nil, 24*time.Hour)
	ctx := context.Background()

	// Two-day-old pending ride owned by u1: outside the window, but still
	// visible to its own requester.
	repo.AddRide(&domain.Ride{
		ID:          "old-own",
		RequesterID: "u1",
		Status:      domain.RideStatusPending,
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	})
	// Two-day-old pending ride owned by someone else: invisible.
	repo.AddRide(&domain.Ride{
		ID:          "old-other",
		RequesterID: "u2",
		Status:      domain.RideStatusPending,
		CreatedAt:   time.Now().Add(-48 * time.Hour),
	})

	rides, err := feed.Feed(ctx, "u1", service.RoleRequester)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !containsRide(rides, "old-own") {
		t.Error("requester must see their own ride regardless of age")
	}
	if containsRide(rides, "old-other") {
		t.Error("stale pending rides of others must not appear")
	}
}

func TestFeed_VolunteerView(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	feed := service.NewFeedService(repo, nil, 24*time.Hour)
	ctx := context.Background()

	now := time.Now()
	repo.AddRide(&domain.Ride{ID: "fresh-pending", RequesterID: "u1", Status: domain.RideStatusPending, CreatedAt: now})
	repo.AddRide(&domain.Ride{ID: "stale-pending", RequesterID: "u2", Status: domain.RideStatusPending, CreatedAt: now.Add(-48 * time.Hour)})
	repo.AddRide(&domain.Ride{ID: "mine-active", RequesterID: "u3", VolunteerID: "v1", Status: domain.RideStatusInProgress, CreatedAt: now.Add(-time.Hour)})
	repo.AddRide(&domain.Ride{ID: "mine-done", RequesterID: "u4", VolunteerID: "v1", Status: domain.RideStatusCompleted, CreatedAt: now.Add(-2 * time.Hour)})
	repo.AddRide(&domain.Ride{ID: "theirs-active", RequesterID: "u5", VolunteerID: "v2", Status: domain.RideStatusAccepted, CreatedAt: now.Add(-time.Hour)})

	rides, err := feed.Feed(ctx, "v1", service.RoleVolunteer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"fresh-pending", "mine-active", "mine-done"} {
		if !containsRide(rides, want) {
			t.Errorf("volunteer feed missing %s", want)
		}
	}
	for _, reject := range []string{"stale-pending", "theirs-active"} {
		if containsRide(rides, reject) {
			t.Errorf("volunteer feed must not contain %s", reject)
		}
	}
}

func TestFeed_NewestFirst(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	feed := service.NewFeedService(repo, nil, 24*time.Hour)

	now := time.Now()
	repo.AddRide(&domain.Ride{ID: "older", RequesterID: "u1", Status: domain.RideStatusPending, CreatedAt: now.Add(-time.Hour)})
	repo.AddRide(&domain.Ride{ID: "newer", RequesterID: "u2", Status: domain.RideStatusPending, CreatedAt: now})

	rides, err := feed.Feed(context.Background(), "v1", service.RoleVolunteer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rides) != 2 {
		t.Fatalf("expected 2 rides, got %d", len(rides))
	}
	if rides[0].ID != "newer" || rides[1].ID != "older" {
		t.Errorf("expected newest first, got [%s, %s]", rides[0].ID, rides[1].ID)
	}
}

func TestFeed_RejectsUnknownRole(t *testing.T) {
	t.Parallel()

	feed := service.NewFeedService(NewMockRideRepository(), nil, 0)

	_, err := feed.Feed(context.Background(), "u1", "admin")
	if !errors.Is(err, service.ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestFeed_RoundTripAfterCreate(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)
	feed := service.NewFeedService(repo, nil, 24*time.Hour)
	ctx := context.Background()

	created, err := svc.CreateRide(ctx, service.CreateRideRequest{
		RequesterID:   "u1",
		RequesterName: "Asha",
		Type:          domain.ServiceTypeGroceries,
		Pickup:        "Market Street",
		Drop:          "Rose Apartments",
		Price:         80,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rides, err := feed.Feed(ctx, "u1", service.RoleRequester)
	if err != nil {
		t.Fatalf("feed: %v", err)
	}

	var got *domain.Ride
	for _, r := range rides {
		if r.ID == created.ID {
			got = r
			break
		}
	}
	if got == nil {
		t.Fatal("created ride missing from requester feed")
	}
	if got.Pickup != "Market Street" || got.Drop != "Rose Apartments" || got.Price != 80 || got.Type != domain.ServiceTypeGroceries {
		t.Errorf("feed ride does not match creation values: %+v", got)
	}
}

func TestFeed_UsesCacheWithinTTL(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	cache := NewMockFeedCache()
	feed := service.NewFeedService(repo, cache, 24*time.Hour)
	ctx := context.Background()

	repo.AddRide(&domain.Ride{ID: "r1", RequesterID: "u1", Status: domain.RideStatusPending, CreatedAt: time.Now()})

	if _, err := feed.Feed(ctx, "v1", service.RoleVolunteer); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if cache.SetCallCount != 1 {
		t.Fatalf("expected cache fill, got %d sets", cache.SetCallCount)
	}

	// Second fetch is served from cache even if the store errors.
	repo.FeedError = errors.New("db down")
	rides, err := feed.Feed(ctx, "v1", service.RoleVolunteer)
	if err != nil {
		t.Fatalf("cached fetch: %v", err)
	}
	if !containsRide(rides, "r1") {
		t.Error("cached feed missing ride")
	}
}

func containsRide(rides []*domain.Ride, id string) bool {
	for _, r := range rides {
		if r.ID == id {
			return true
		}
	}
	return false
}
