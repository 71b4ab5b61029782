package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"assistall/internal/domain"
	"assistall/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
	feedService *service.FeedService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService, feedService *service.FeedService) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		feedService: feedService,
	}
}

// CreateRideRequest is the HTTP request body for creating a ride.
type CreateRideRequest struct {
	RequesterID   string  `json:"requester_id"`
	RequesterName string  `json:"requester_name"`
	Type          string  `json:"type,omitempty"`
	Pickup        string  `json:"pickup"`
	Drop          string  `json:"drop"`
	Price         float64 `json:"price"`
}

// AcceptRideRequest is the HTTP request body for accepting a ride.
type AcceptRideRequest struct {
	VolunteerID   string `json:"volunteer_id"`
	VolunteerName string `json:"volunteer_name"`
}

// PickupRequest is the HTTP request body for confirming pickup.
type PickupRequest struct {
	OTP string `json:"otp"`
}

// ReviewRequest is the HTTP request body for attaching feedback.
type ReviewRequest struct {
	Rating        int     `json:"rating"`
	Review        string  `json:"review,omitempty"`
	Tip           float64 `json:"tip,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

// RideResponse is the HTTP representation of a ride. PickupOTP is only
// populated for the ride's own requester.
type RideResponse struct {
	ID            string  `json:"id"`
	RequesterID   string  `json:"requester_id"`
	RequesterName string  `json:"requester_name"`
	VolunteerID   string  `json:"volunteer_id,omitempty"`
	VolunteerName string  `json:"volunteer_name,omitempty"`
	Type          string  `json:"type"`
	Pickup        string  `json:"pickup"`
	Drop          string  `json:"drop"`
	Price         float64 `json:"price"`
	Status        string  `json:"status"`
	PickupOTP     string  `json:"pickup_otp,omitempty"`
	Rating        int     `json:"rating,omitempty"`
	Review        string  `json:"review,omitempty"`
	Tip           float64 `json:"tip,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

// toRideResponse converts a domain ride. The OTP is scoped to the
// requester: it never appears on rows served to other actors.
func toRideResponse(ride *domain.Ride, viewerID string) RideResponse {
	resp := RideResponse{
		ID:            ride.ID,
		RequesterID:   ride.RequesterID,
		RequesterName: ride.RequesterName,
		VolunteerID:   ride.VolunteerID,
		VolunteerName: ride.VolunteerName,
		Type:          string(ride.Type),
		Pickup:        ride.Pickup,
		Drop:          ride.Drop,
		Price:         ride.Price,
		Status:        string(ride.Status),
		Rating:        ride.Rating,
		Review:        ride.Review,
		Tip:           ride.Tip,
		PaymentMethod: string(ride.PaymentMethod),
		CreatedAt:     ride.CreatedAt.Format(timeFormat),
		UpdatedAt:     ride.UpdatedAt.Format(timeFormat),
	}
	if viewerID != "" && viewerID == ride.RequesterID {
		resp.PickupOTP = ride.PickupOTP
	}
	return resp
}

// CreateRide handles POST /v1/rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.CreateRide(c.Request.Context(), service.CreateRideRequest{
		RequesterID:   req.RequesterID,
		RequesterName: req.RequesterName,
		Type:          domain.ServiceType(req.Type),
		Pickup:        req.Pickup,
		Drop:          req.Drop,
		Price:         req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toRideResponse(ride, ride.RequesterID))
}

// Feed handles GET /v1/rides?actor_id=...&role=...
func (h *RideHandler) Feed(c *gin.Context) {
	actorID := c.Query("actor_id")
	role := service.ActorRole(c.DefaultQuery("role", string(service.RoleRequester)))

	rides, err := h.feedService.Feed(c.Request.Context(), actorID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	viewerID := ""
	if role == service.RoleRequester {
		viewerID = actorID
	}

	response := make([]RideResponse, 0, len(rides))
	for _, r := range rides {
		response = append(response, toRideResponse(r, viewerID))
	}

	respondJSON(c, http.StatusOK, response)
}

// GetRide handles GET /v1/rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	ride, err := h.rideService.GetRide(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, c.Query("actor_id")))
}

// AcceptRide handles PUT /v1/rides/:id/accept
func (h *RideHandler) AcceptRide(c *gin.Context) {
	var req AcceptRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Accept(c.Request.Context(), service.AcceptRequest{
		RideID:        c.Param("id"),
		VolunteerID:   req.VolunteerID,
		VolunteerName: req.VolunteerName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, ""))
}

// PickupRide handles PUT /v1/rides/:id/pickup
func (h *RideHandler) PickupRide(c *gin.Context) {
	var req PickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.Pickup(c.Request.Context(), c.Param("id"), req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, ""))
}

// CompleteRide handles PUT /v1/rides/:id/complete
func (h *RideHandler) CompleteRide(c *gin.Context) {
	ride, err := h.rideService.Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, ""))
}

// CancelRide handles PUT /v1/rides/:id/cancel
func (h *RideHandler) CancelRide(c *gin.Context) {
	ride, err := h.rideService.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, ""))
}

// ReviewRide handles PUT /v1/rides/:id/review
func (h *RideHandler) ReviewRide(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	ride, err := h.rideService.AttachReview(c.Request.Context(), service.ReviewRequest{
		RideID:        c.Param("id"),
		Rating:        req.Rating,
		Review:        req.Review,
		Tip:           req.Tip,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toRideResponse(ride, ""))
}
