package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"assistall/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationRideRequested  NotificationType = "RIDE_REQUESTED"
	NotificationVolunteerFound NotificationType = "VOLUNTEER_FOUND"
	NotificationRideStarted    NotificationType = "RIDE_STARTED"
	NotificationRideCompleted  NotificationType = "RIDE_COMPLETED"
	NotificationRideCancelled  NotificationType = "RIDE_CANCELLED"
	NotificationReviewReceived NotificationType = "REVIEW_RECEIVED"
)

// Notification represents a notification to be delivered to an actor.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	RideID      string
	CreatedAt   time.Time
}

// NotificationService delivers human-readable lifecycle events. Delivery is
// currently a structured log; push/SMS transports would plug in here.
type NotificationService struct {
	log *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(log *zap.Logger) *NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &NotificationService{log: log}
}

// NotifyRideRequested announces a new pending ride to volunteers.
func (s *NotificationService) NotifyRideRequested(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideRequested,
		RecipientID: "volunteers",
		Title:       "New Request",
		Message:     "A new " + string(ride.Type) + " request is waiting for a volunteer",
		RideID:      ride.ID,
		CreatedAt:   time.Now(),
	})
}

// NotifyVolunteerFound tells the requester a volunteer accepted their ride.
func (s *NotificationService) NotifyVolunteerFound(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationVolunteerFound,
		RecipientID: ride.RequesterID,
		Title:       "Volunteer Found",
		Message:     ride.VolunteerName + " accepted your request",
		RideID:      ride.ID,
		CreatedAt:   time.Now(),
	})
}

// NotifyRideStarted tells the requester the pickup was confirmed.
func (s *NotificationService) NotifyRideStarted(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideStarted,
		RecipientID: ride.RequesterID,
		Title:       "Ride Started",
		Message:     "Your ride is now in progress",
		RideID:      ride.ID,
		CreatedAt:   time.Now(),
	})
}

// NotifyRideCompleted tells the requester the ride finished.
func (s *NotificationService) NotifyRideCompleted(ctx context.Context, ride *domain.Ride) error {
	return s.send(ctx, Notification{
		Type:        NotificationRideCompleted,
		RecipientID: ride.RequesterID,
		Title:       "Ride Completed",
		Message:     "Your ride has been completed",
		RideID:      ride.ID,
		CreatedAt:   time.Now(),
	})
}

// NotifyRideCancelled tells the volunteer, if any, that the ride was
// cancelled.
func (s *NotificationService) NotifyRideCancelled(ctx context.Context, ride *domain.Ride) error {
	if ride.VolunteerID == "" {
		return nil
	}
	return s.send(ctx, Notification{
		Type:        NotificationRideCancelled,
		RecipientID: ride.VolunteerID,
		Title:       "Ride Cancelled",
		Message:     "The requester cancelled the ride",
		RideID:      ride.ID,
		CreatedAt:   time.Now(),
	})
}

// NotifyReviewReceived tells the volunteer a review was left.
func (s *NotificationService) NotifyReviewReceived(ctx context.Context, ride *domain.Ride) error {
	if ride.VolunteerID == "" {
		return nil
	}
	return s.send(ctx, Notification{
		Type:        NotificationReviewReceived,
		RecipientID: ride.VolunteerID,
		Title:       "Review Received",
		Message:     "The requester reviewed your ride",
		RideID:      ride.ID,
		CreatedAt:   time.Now(),
	})
}

func (s *NotificationService) send(ctx context.Context, n Notification) error {
	s.log.Info("notification",
		zap.String("type", string(n.Type)),
		zap.String("recipient", n.RecipientID),
		zap.String("title", n.Title),
		zap.String("message", n.Message),
		zap.String("ride_id", n.RideID),
	)
	return nil
}
