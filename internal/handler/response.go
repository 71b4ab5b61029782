package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"assistall/internal/repository"
	"assistall/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRequesterID),
		errors.Is(err, service.ErrInvalidVolunteerID),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrMissingPickup),
		errors.Is(err, service.ErrMissingDrop),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidServiceType),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidTip),
		errors.Is(err, service.ErrInvalidPaymentMethod),
		errors.Is(err, service.ErrInvalidRole):
		return http.StatusBadRequest

	// Wrong-state errors - Bad Request, distinct messages
	case errors.Is(err, service.ErrIncorrectOTP),
		errors.Is(err, service.ErrRideNotAccepted),
		errors.Is(err, service.ErrRideNotInProgress),
		errors.Is(err, service.ErrRideNotCompleted),
		errors.Is(err, service.ErrRideAlreadyReviewed),
		errors.Is(err, service.ErrRideFinished):
		return http.StatusBadRequest

	// Conflict: lost the accept race
	case errors.Is(err, service.ErrRideAlreadyTaken):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
