package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"assistall/internal/domain"
	"assistall/internal/redis"
	"assistall/internal/repository"
)

const acceptLockTTL = 5 * time.Second

// RideService handles the ride request lifecycle.
type RideService struct {
	rideRepo            repository.RideRepository
	lockStore           redis.RideLockInterface
	feedCache           redis.FeedCacheInterface
	notificationService *NotificationService
}

// NewRideService creates a new RideService. lockStore and feedCache are
// optional; without them the repository's conditional updates remain the
// sole (and sufficient) concurrency control.
func NewRideService(
	rideRepo repository.RideRepository,
	lockStore redis.RideLockInterface,
	feedCache redis.FeedCacheInterface,
	notificationService *NotificationService,
) *RideService {
	return &RideService{
		rideRepo:            rideRepo,
		lockStore:           lockStore,
		feedCache:           feedCache,
		notificationService: notificationService,
	}
}

// CreateRideRequest contains the parameters for creating a ride.
type CreateRideRequest struct {
	RequesterID   string
	RequesterName string
	Type          domain.ServiceType
	Pickup        string
	Drop          string
	Price         float64
}

// CreateRide creates a new ride in the pending state with a fresh pickup
// OTP.
func (s *RideService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, err
	}

	serviceType := req.Type
	if serviceType == "" {
		serviceType = domain.ServiceTypeRide
	}

	now := time.Now()
	ride := &domain.Ride{
		ID:            uuid.New().String(),
		RequesterID:   req.RequesterID,
		RequesterName: req.RequesterName,
		Type:          serviceType,
		Pickup:        req.Pickup,
		Drop:          req.Drop,
		Price:         req.Price,
		Status:        domain.RideStatusPending,
		PickupOTP:     GeneratePickupOTP(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.rideRepo.Create(ctx, ride); err != nil {
		return nil, err
	}

	s.invalidateFeeds(ctx)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideRequested(ctx, ride)
	}

	return ride, nil
}

// AcceptRequest contains the parameters for accepting a ride.
type AcceptRequest struct {
	RideID        string
	VolunteerID   string
	VolunteerName string
}

// Accept assigns a volunteer to a pending ride. Exclusivity comes from the
// repository's conditional update; the redis lock only short-circuits
// volunteers racing within the same instant.
func (s *RideService) Accept(ctx context.Context, req AcceptRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.VolunteerID == "" {
		return nil, ErrInvalidVolunteerID
	}

	if s.lockStore != nil {
		locked, err := s.lockStore.AcquireRideLock(ctx, req.RideID, acceptLockTTL)
		if err == nil && !locked {
			return nil, ErrRideAlreadyTaken
		}
		if err == nil {
			defer func() { _ = s.lockStore.ReleaseRideLock(ctx, req.RideID) }()
		}
	}

	if err := s.rideRepo.Accept(ctx, req.RideID, req.VolunteerID, req.VolunteerName); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrRideAlreadyTaken
		}
		return nil, err
	}

	s.invalidateFeeds(ctx)

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyVolunteerFound(ctx, ride)
	}

	return ride, nil
}

// Pickup confirms the physical handoff and moves the ride to in_progress.
// The supplied OTP must match the code issued at creation.
func (s *RideService) Pickup(ctx context.Context, rideID, otp string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if ride.Status != domain.RideStatusAccepted {
		return nil, ErrRideNotAccepted
	}

	if otp != ride.PickupOTP {
		return nil, ErrIncorrectOTP
	}

	err = s.rideRepo.TransitionStatus(ctx, rideID, domain.RideStatusAccepted, domain.RideStatusInProgress)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrRideNotAccepted
		}
		return nil, err
	}

	s.invalidateFeeds(ctx)

	ride, err = s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideStarted(ctx, ride)
	}

	return ride, nil
}

// Complete finalizes an in-progress ride.
func (s *RideService) Complete(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	err := s.rideRepo.TransitionStatus(ctx, rideID, domain.RideStatusInProgress, domain.RideStatusCompleted)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, ErrRideNotInProgress
		}
		return nil, err
	}

	s.invalidateFeeds(ctx)

	ride, err := s.rideRepo.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideCompleted(ctx, ride)
	}

	return ride, nil
}

// Cancel moves any non-terminal ride to cancelled. Cancelling an already
// cancelled ride is a no-op.
func (s *RideService) Cancel(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}

	err := s.rideRepo.Cancel(ctx, rideID)
	if err != nil && !errors.Is(err, repository.ErrStaleStatus) {
		return nil, err
	}

	ride, getErr := s.rideRepo.GetByID(ctx, rideID)
	if getErr != nil {
		return nil, getErr
	}

	if err != nil {
		// Conditional update matched nothing: already cancelled is fine,
		// completed is not.
		if ride.Status == domain.RideStatusCancelled {
			return ride, nil
		}
		return nil, ErrRideFinished
	}

	s.invalidateFeeds(ctx)

	if s.notificationService != nil {
		_ = s.notificationService.NotifyRideCancelled(ctx, ride)
	}

	return ride, nil
}

// ReviewRequest contains the feedback attached to a completed ride.
type ReviewRequest struct {
	RideID        string
	Rating        int
	Review        string
	Tip           float64
	PaymentMethod domain.PaymentMethod
}

// AttachReview records rating, review text, tip and payment method on a
// completed ride. The status does not change, and feedback is write-once.
func (s *RideService) AttachReview(ctx context.Context, req ReviewRequest) (*domain.Ride, error) {
	if req.RideID == "" {
		return nil, ErrInvalidRideID
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}
	if req.Tip < 0 {
		return nil, ErrInvalidTip
	}

	method, err := ValidatePaymentMethod(string(req.PaymentMethod))
	if err != nil {
		return nil, err
	}

	err = s.rideRepo.AttachFeedback(ctx, req.RideID, req.Rating, req.Review, req.Tip, method)
	if err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			// The conditional write matched nothing: either the ride never
			// completed, or feedback already exists and is final.
			ride, getErr := s.rideRepo.GetByID(ctx, req.RideID)
			if getErr != nil {
				return nil, getErr
			}
			if ride.Status != domain.RideStatusCompleted {
				return nil, ErrRideNotCompleted
			}
			return nil, ErrRideAlreadyReviewed
		}
		return nil, err
	}

	ride, err := s.rideRepo.GetByID(ctx, req.RideID)
	if err != nil {
		return nil, err
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyReviewReceived(ctx, ride)
	}

	return ride, nil
}

// GetRide retrieves the current state of a ride.
func (s *RideService) GetRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	if rideID == "" {
		return nil, ErrInvalidRideID
	}
	return s.rideRepo.GetByID(ctx, rideID)
}

func (s *RideService) validateCreateRequest(req CreateRideRequest) error {
	if req.RequesterID == "" {
		return ErrInvalidRequesterID
	}
	if req.Pickup == "" {
		return ErrMissingPickup
	}
	if req.Drop == "" {
		return ErrMissingDrop
	}
	if req.Price < 0 {
		return ErrInvalidPrice
	}
	if req.Type != "" {
		if _, err := ValidateServiceType(string(req.Type)); err != nil {
			return err
		}
	}
	return nil
}

func (s *RideService) invalidateFeeds(ctx context.Context) {
	if s.feedCache != nil {
		_ = s.feedCache.InvalidateAll(ctx)
	}
}

// ValidateServiceType validates a service type string.
func ValidateServiceType(t string) (domain.ServiceType, error) {
	switch domain.ServiceType(t) {
	case domain.ServiceTypeRide, domain.ServiceTypeCompanion,
		domain.ServiceTypeMedicine, domain.ServiceTypeGroceries:
		return domain.ServiceType(t), nil
	case "":
		return domain.ServiceTypeRide, nil
	default:
		return "", ErrInvalidServiceType
	}
}

// ValidatePaymentMethod validates a payment method string.
func ValidatePaymentMethod(method string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(method) {
	case domain.PaymentMethodCash, domain.PaymentMethodCard,
		domain.PaymentMethodWallet, domain.PaymentMethodUPI:
		return domain.PaymentMethod(method), nil
	case "":
		return domain.PaymentMethodCash, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
