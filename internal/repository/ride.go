package repository

import (
	"context"
	"time"

	"assistall/internal/domain"
)

// RideRepository defines the persistence operations for rides.
//
// Accept and the guarded transition methods are atomic conditional updates:
// they only take effect when the ride is still in the expected status, and
// return ErrStaleStatus otherwise. This is the concurrency control for the
// at-most-one-volunteer guarantee; callers must not emulate it with a
// separate read followed by a write.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// RequesterFeed returns rides visible to a requester: pending rides
	// created after the cutoff, all active (accepted/in_progress) rides,
	// and the requester's own rides regardless of age. Newest first.
	RequesterFeed(ctx context.Context, requesterID string, pendingSince time.Time) ([]*domain.Ride, error)

	// VolunteerFeed returns rides visible to a volunteer: pending rides
	// created after the cutoff plus the volunteer's own
	// accepted/in_progress/completed rides. Newest first.
	VolunteerFeed(ctx context.Context, volunteerID string, pendingSince time.Time) ([]*domain.Ride, error)

	// Accept assigns a volunteer to a pending ride. Exactly one concurrent
	// caller can win; losers get ErrStaleStatus.
	Accept(ctx context.Context, id, volunteerID, volunteerName string) error

	// TransitionStatus moves a ride from one status to another.
	TransitionStatus(ctx context.Context, id string, from, to domain.RideStatus) error

	// Cancel moves any non-terminal ride to cancelled.
	Cancel(ctx context.Context, id string) error

	// AttachFeedback records rating/review/tip/payment on a completed ride.
	AttachFeedback(ctx context.Context, id string, rating int, review string, tip float64, method domain.PaymentMethod) error

	// DeleteStalePending removes pending rides created before the cutoff.
	// Returns the number of rides removed.
	DeleteStalePending(ctx context.Context, before time.Time) (int64, error)
}
