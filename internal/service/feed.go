package service

import (
	"context"
	"time"

	"assistall/internal/domain"
	"assistall/internal/redis"
	"assistall/internal/repository"
)

// ActorRole identifies which view of the feed an actor sees.
type ActorRole string

const (
	RoleRequester ActorRole = "requester"
	RoleVolunteer ActorRole = "volunteer"
)

// FeedService produces the role-filtered list of rides an actor sees. It
// performs no mutation and is called on every client poll tick, so results
// are cached for roughly one poll interval.
type FeedService struct {
	rideRepo      repository.RideRepository
	feedCache     redis.FeedCacheInterface
	pendingWindow time.Duration
}

// NewFeedService creates a new FeedService. pendingWindow bounds how long
// unclaimed pending rides stay visible; feedCache is optional.
func NewFeedService(rideRepo repository.RideRepository, feedCache redis.FeedCacheInterface, pendingWindow time.Duration) *FeedService {
	if pendingWindow <= 0 {
		pendingWindow = 24 * time.Hour
	}
	return &FeedService{
		rideRepo:      rideRepo,
		feedCache:     feedCache,
		pendingWindow: pendingWindow,
	}
}

// Feed returns the rides visible to the actor, newest first.
func (s *FeedService) Feed(ctx context.Context, actorID string, role ActorRole) ([]*domain.Ride, error) {
	if role != RoleRequester && role != RoleVolunteer {
		return nil, ErrInvalidRole
	}

	cacheKey := string(role) + ":" + actorID
	if s.feedCache != nil {
		if rides, ok := s.feedCache.Get(ctx, cacheKey); ok {
			return rides, nil
		}
	}

	cutoff := time.Now().Add(-s.pendingWindow)

	var rides []*domain.Ride
	var err error
	switch role {
	case RoleRequester:
		rides, err = s.rideRepo.RequesterFeed(ctx, actorID, cutoff)
	case RoleVolunteer:
		rides, err = s.rideRepo.VolunteerFeed(ctx, actorID, cutoff)
	}
	if err != nil {
		return nil, err
	}

	if s.feedCache != nil {
		_ = s.feedCache.Set(ctx, cacheKey, rides)
	}

	return rides, nil
}
