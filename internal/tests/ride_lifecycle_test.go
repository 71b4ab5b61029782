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
// RIDE LIFECYCLE
// ──────────────────────────────────────────────

func newRideService(repo *MockRideRepository) *service.RideService {
	return service.NewRideService(repo, nil, nil, service.NewNotificationService(nil))
}

func TestCreateRide_StartsPendingWithOTP(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)

	ride, err := svc.CreateRide(context.Background(), service.CreateRideRequest{
		RequesterID:   "u1",
		RequesterName: "Asha",
		Type:          domain.ServiceTypeRide,
		Pickup:        "A",
		Drop:          "B",
		Price:         150,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ride.Status != domain.RideStatusPending {
		t.Errorf("expected status %s, got %s", domain.RideStatusPending, ride.Status)
	}
	if len(ride.PickupOTP) != 4 {
		t.Errorf("expected 4-digit OTP, got %q", ride.PickupOTP)
	}
	for _, ch := range ride.PickupOTP {
		if ch < '0' || ch > '9' {
			t.Errorf("OTP contains non-digit: %q", ride.PickupOTP)
		}
	}
	if ride.VolunteerID != "" {
		t.Errorf("new ride must have no volunteer, got %q", ride.VolunteerID)
	}
	if ride.CreatedAt.IsZero() || ride.UpdatedAt.IsZero() {
		t.Error("timestamps must be set at creation")
	}
}

func TestCreateRide_ValidatesRequiredFields(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)
	ctx := context.Background()

	cases := []struct {
		name string
		req  service.CreateRideRequest
		want error
	}{
		{"missing requester", service.CreateRideRequest{Pickup: "A", Drop: "B"}, service.ErrInvalidRequesterID},
		{"missing pickup", service.CreateRideRequest{RequesterID: "u1", Drop: "B"}, service.ErrMissingPickup},
		{"missing drop", service.CreateRideRequest{RequesterID: "u1", Pickup: "A"}, service.ErrMissingDrop},
		{"negative price", service.CreateRideRequest{RequesterID: "u1", Pickup: "A", Drop: "B", Price: -5}, service.ErrInvalidPrice},
		{"unknown type", service.CreateRideRequest{RequesterID: "u1", Pickup: "A", Drop: "B", Type: "Skydiving"}, service.ErrInvalidServiceType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateRide(ctx, tc.req)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// Nothing may be persisted on validation failure.
	if repo.CreateCallCount != 0 {
		t.Errorf("expected no persistence attempts, got %d", repo.CreateCallCount)
	}
}

func TestPickup_RequiresMatchingOTP(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)
	ctx := context.Background()

	accepted := time.Now().Add(-time.Minute)
	repo.AddRide(&domain.Ride{
		ID:          "ride-1",
		RequesterID: "u1",
		Status:      domain.RideStatusAccepted,
		VolunteerID: "v1",
		PickupOTP:   "4321",
		UpdatedAt:   accepted,
	})

	// Wrong code: rejected, status unchanged.
	_, err := svc.Pickup(ctx, "ride-1", "0000")
	if !errors.Is(err, service.ErrIncorrectOTP) {
		t.Fatalf("expected ErrIncorrectOTP, got %v", err)
	}
	if got := repo.GetRide("ride-1").Status; got != domain.RideStatusAccepted {
		t.Errorf("status must stay accepted after OTP mismatch, got %s", got)
	}

	// Correct code: ride starts, and the returned ride is the
	// post-transition record.
	ride, err := svc.Pickup(ctx, "ride-1", "4321")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Status != domain.RideStatusInProgress {
		t.Errorf("expected in_progress, got %s", ride.Status)
	}
	if !ride.UpdatedAt.After(accepted) {
		t.Error("returned ride must carry the post-transition UpdatedAt")
	}
}

func TestPickup_FailsUnlessAccepted(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)
	ctx := context.Background()

	for _, status := range []domain.RideStatus{
		domain.RideStatusPending,
		domain.RideStatusInProgress,
		domain.RideStatusCompleted,
		domain.RideStatusCancelled,
	} {
		id := "ride-" + string(status)
		repo.AddRide(&domain.Ride{ID: id, Status: status, PickupOTP: "1234"})

		_, err := svc.Pickup(ctx, id, "1234")
		if !errors.Is(err, service.ErrRideNotAccepted) {
			t.Errorf("pickup from %s: expected ErrRideNotAccepted, got %v", status, err)
		}
		if got := repo.GetRide(id).Status; got != status {
			t.Errorf("pickup from %s must not change status, got %s", status, got)
		}
	}
}

func TestComplete_OnlyFromInProgress(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)
	ctx := context.Background()

	repo.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusAccepted})

	_, err := svc.Complete(ctx, "ride-1")
	if !errors.Is(err, service.ErrRideNotInProgress) {
		t.Fatalf("expected ErrRideNotInProgress, got %v", err)
	}

	repo.AddRide(&domain.Ride{ID: "ride-2", Status: domain.RideStatusInProgress})
	ride, err := svc.Complete(ctx, "ride-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Status != domain.RideStatusCompleted {
		t.Errorf("expected completed, got %s", ride.Status)
	}
}

func TestCancel_NonTerminalAndIdempotent(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)
	ctx := context.Background()

	repo.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusAccepted, VolunteerID: "v1"})

	ride, err := svc.Cancel(ctx, "ride-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Status != domain.RideStatusCancelled {
		t.Errorf("expected cancelled, got %s", ride.Status)
	}

	// Cancelling again is a no-op, not an error.
	ride, err = svc.Cancel(ctx, "ride-1")
	if err != nil {
		t.Fatalf("second cancel must be idempotent, got %v", err)
	}
	if ride.Status != domain.RideStatusCancelled {
		t.Errorf("expected cancelled, got %s", ride.Status)
	}

	// A completed ride cannot be cancelled.
	repo.AddRide(&domain.Ride{ID: "ride-2", Status: domain.RideStatusCompleted})
	if _, err := svc.Cancel(ctx, "ride-2"); !errors.Is(err, service.ErrRideFinished) {
		t.Errorf("expected ErrRideFinished, got %v", err)
	}
}

func TestAttachReview_OnlyWhenCompleted(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)
	ctx := context.Background()

	repo.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusInProgress, VolunteerID: "v1"})

	_, err := svc.AttachReview(ctx, service.ReviewRequest{RideID: "ride-1", Rating: 5})
	if !errors.Is(err, service.ErrRideNotCompleted) {
		t.Fatalf("expected ErrRideNotCompleted, got %v", err)
	}

	repo.AddRide(&domain.Ride{ID: "ride-2", Status: domain.RideStatusCompleted, VolunteerID: "v1"})

	if _, err := svc.AttachReview(ctx, service.ReviewRequest{RideID: "ride-2", Rating: 0}); !errors.Is(err, service.ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating for rating 0, got %v", err)
	}
	if _, err := svc.AttachReview(ctx, service.ReviewRequest{RideID: "ride-2", Rating: 6}); !errors.Is(err, service.ErrInvalidRating) {
		t.Errorf("expected ErrInvalidRating for rating 6, got %v", err)
	}
	if _, err := svc.AttachReview(ctx, service.ReviewRequest{RideID: "ride-2", Rating: 4, Tip: -1}); !errors.Is(err, service.ErrInvalidTip) {
		t.Errorf("expected ErrInvalidTip, got %v", err)
	}

	ride, err := svc.AttachReview(ctx, service.ReviewRequest{
		RideID:        "ride-2",
		Rating:        5,
		Review:        "very kind",
		Tip:           50,
		PaymentMethod: domain.PaymentMethodUPI,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ride.Status != domain.RideStatusCompleted {
		t.Errorf("review must not change status, got %s", ride.Status)
	}
	if ride.Rating != 5 || ride.Tip != 50 || ride.Review != "very kind" {
		t.Errorf("feedback not recorded: %+v", ride)
	}
}

func TestAttachReview_IsFinal(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)
	ctx := context.Background()

	repo.AddRide(&domain.Ride{ID: "ride-1", Status: domain.RideStatusCompleted, VolunteerID: "v1"})

	if _, err := svc.AttachReview(ctx, service.ReviewRequest{RideID: "ride-1", Rating: 5, Tip: 50}); err != nil {
		t.Fatalf("first review: %v", err)
	}

	// A second review is rejected and the first stays intact.
	_, err := svc.AttachReview(ctx, service.ReviewRequest{RideID: "ride-1", Rating: 1})
	if !errors.Is(err, service.ErrRideAlreadyReviewed) {
		t.Fatalf("expected ErrRideAlreadyReviewed, got %v", err)
	}

	ride := repo.GetRide("ride-1")
	if ride.Rating != 5 || ride.Tip != 50 {
		t.Errorf("original feedback must survive a second attempt, got rating=%d tip=%v", ride.Rating, ride.Tip)
	}
}

func TestScenario_FullLifecycle(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)
	ctx := context.Background()

	ride, err := svc.CreateRide(ctx, service.CreateRideRequest{
		RequesterID: "u1", RequesterName: "Asha", Pickup: "A", Drop: "B", Price: 150,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ride.Status != domain.RideStatusPending {
		t.Fatalf("expected pending, got %s", ride.Status)
	}

	// First volunteer wins.
	accepted, err := svc.Accept(ctx, service.AcceptRequest{RideID: ride.ID, VolunteerID: "v1", VolunteerName: "Vikram"})
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if accepted.Status != domain.RideStatusAccepted || accepted.VolunteerID != "v1" {
		t.Fatalf("unexpected accept result: %+v", accepted)
	}

	// Second volunteer is rejected.
	if _, err := svc.Accept(ctx, service.AcceptRequest{RideID: ride.ID, VolunteerID: "v2", VolunteerName: "Nina"}); !errors.Is(err, service.ErrRideAlreadyTaken) {
		t.Fatalf("expected ErrRideAlreadyTaken, got %v", err)
	}
	if got := repo.GetRide(ride.ID).VolunteerID; got != "v1" {
		t.Fatalf("volunteer must never be reassigned, got %q", got)
	}

	// Wrong OTP is rejected, status stays accepted.
	if _, err := svc.Pickup(ctx, ride.ID, "wrong"); !errors.Is(err, service.ErrIncorrectOTP) {
		t.Fatalf("expected ErrIncorrectOTP, got %v", err)
	}
	if got := repo.GetRide(ride.ID).Status; got != domain.RideStatusAccepted {
		t.Fatalf("expected accepted after mismatch, got %s", got)
	}

	// Correct OTP starts the ride.
	started, err := svc.Pickup(ctx, ride.ID, ride.PickupOTP)
	if err != nil {
		t.Fatalf("pickup: %v", err)
	}
	if started.Status != domain.RideStatusInProgress {
		t.Fatalf("expected in_progress, got %s", started.Status)
	}

	completed, err := svc.Complete(ctx, ride.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != domain.RideStatusCompleted {
		t.Fatalf("expected completed, got %s", completed.Status)
	}

	reviewed, err := svc.AttachReview(ctx, service.ReviewRequest{RideID: ride.ID, Rating: 5, Tip: 50})
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if reviewed.Status != domain.RideStatusCompleted || reviewed.Rating != 5 || reviewed.Tip != 50 {
		t.Fatalf("unexpected final state: %+v", reviewed)
	}
}

func TestMutations_AdvanceUpdatedAt(t *testing.T) {
	t.Parallel()

	repo := NewMockRideRepository()
	svc := newRideService(repo)
	ctx := context.Background()

	created := time.Now().Add(-time.Minute)
	repo.AddRide(&domain.Ride{
		ID:        "ride-1",
		Status:    domain.RideStatusPending,
		CreatedAt: created,
		UpdatedAt: created,
	})

	if _, err := svc.Accept(ctx, service.AcceptRequest{RideID: "ride-1", VolunteerID: "v1", VolunteerName: "V"}); err != nil {
		t.Fatalf("accept: %v", err)
	}

	ride := repo.GetRide("ride-1")
	if !ride.UpdatedAt.After(created) {
		t.Error("UpdatedAt must advance on mutation")
	}
	if !ride.CreatedAt.Equal(created) {
		t.Error("CreatedAt must be immutable")
	}
}
