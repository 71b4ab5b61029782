package domain

import "time"

// RideStatus represents the current lifecycle status of a ride request.
type RideStatus string

const (
	RideStatusPending    RideStatus = "pending"
	RideStatusAccepted   RideStatus = "accepted"
	RideStatusInProgress RideStatus = "in_progress"
	RideStatusCompleted  RideStatus = "completed"
	RideStatusCancelled  RideStatus = "cancelled"
)

// Terminal reports whether no further status transition is possible.
func (s RideStatus) Terminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// ServiceType represents the category of assistance requested.
type ServiceType string

const (
	ServiceTypeRide      ServiceType = "Ride"
	ServiceTypeCompanion ServiceType = "Companion"
	ServiceTypeMedicine  ServiceType = "Medicine"
	ServiceTypeGroceries ServiceType = "Groceries"
)

// PaymentMethod represents how the requester settles a completed ride.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodWallet PaymentMethod = "WALLET"
	PaymentMethodUPI    PaymentMethod = "UPI"
)

// Ride represents an assistance request tracked through its lifecycle.
//
// VolunteerID/VolunteerName stay empty until the ride is accepted and are
// never reassigned afterwards. PickupOTP is generated once at creation and
// must match exactly on the accepted -> in_progress transition.
type Ride struct {
	ID            string
	RequesterID   string
	RequesterName string
	VolunteerID   string
	VolunteerName string
	Type          ServiceType
	Pickup        string
	Drop          string
	Price         float64
	Status        RideStatus
	PickupOTP     string

	// Feedback, meaningful only once Status is completed.
	Rating        int
	Review        string
	Tip           float64
	PaymentMethod PaymentMethod

	CreatedAt time.Time
	UpdatedAt time.Time
}
