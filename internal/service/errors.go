package service

import "errors"

var (
	// ErrInvalidRequesterID is returned when requester ID is empty.
	ErrInvalidRequesterID = errors.New("invalid requester id")

	// ErrInvalidVolunteerID is returned when volunteer ID is empty.
	ErrInvalidVolunteerID = errors.New("invalid volunteer id")

	// ErrInvalidRideID is returned when ride ID is empty.
	ErrInvalidRideID = errors.New("invalid ride id")

	// ErrMissingPickup is returned when the pickup location is empty.
	ErrMissingPickup = errors.New("pickup location is required")

	// ErrMissingDrop is returned when the drop location is empty.
	ErrMissingDrop = errors.New("drop location is required")

	// ErrInvalidPrice is returned when the price is negative.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidServiceType is returned when the service type is unknown.
	ErrInvalidServiceType = errors.New("invalid service type")

	// ErrRideAlreadyTaken is returned when accepting a ride that is no
	// longer pending. Only the first accept wins.
	ErrRideAlreadyTaken = errors.New("ride already taken")

	// ErrIncorrectOTP is returned when the pickup code does not match.
	// Surfaced distinctly so clients can prompt for re-entry.
	ErrIncorrectOTP = errors.New("incorrect OTP")

	// ErrRideNotAccepted is returned when pickup is attempted on a ride
	// that is not in the accepted state.
	ErrRideNotAccepted = errors.New("ride not in accepted state")

	// ErrRideNotInProgress is returned when completing a ride that is not
	// in progress.
	ErrRideNotInProgress = errors.New("ride not in progress")

	// ErrRideNotCompleted is returned when attaching feedback to a ride
	// that has not completed.
	ErrRideNotCompleted = errors.New("ride not completed")

	// ErrRideAlreadyReviewed is returned when feedback is attached twice.
	// Feedback is write-once; there is no amendment flow.
	ErrRideAlreadyReviewed = errors.New("ride already reviewed")

	// ErrRideFinished is returned when cancelling a completed ride.
	ErrRideFinished = errors.New("ride already completed")

	// ErrInvalidRating is returned when the rating is outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrInvalidTip is returned when the tip is negative.
	ErrInvalidTip = errors.New("invalid tip amount")

	// ErrInvalidPaymentMethod is returned when payment method is unknown.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")

	// ErrInvalidRole is returned when the feed role is not requester or
	// volunteer.
	ErrInvalidRole = errors.New("invalid actor role")
)
