// Package client provides a Go client for the AssistAll API plus the
// polling tracker that mirrors server-side ride status into local UI state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RideStatus values as served by the API.
const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Actor roles for the feed query.
const (
	RoleRequester = "requester"
	RoleVolunteer = "volunteer"
)

// Ride is the wire representation of a ride.
type Ride struct {
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

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// Conflict reports whether the error is an accept race loss.
func (e *APIError) Conflict() bool { return e.StatusCode == http.StatusConflict }

// IncorrectOTP reports whether the error is a pickup code mismatch, so the
// caller can prompt for re-entry instead of failing outright.
func (e *APIError) IncorrectOTP() bool {
	return e.StatusCode == http.StatusBadRequest && strings.Contains(e.Message, "incorrect OTP")
}

// Client is an HTTP client for the AssistAll API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new API client. A request timeout is set by default
// so a stalled server cannot wedge the polling loop.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CreateRideParams are the fields for creating a ride.
type CreateRideParams struct {
	RequesterID   string  `json:"requester_id"`
	RequesterName string  `json:"requester_name"`
	Type          string  `json:"type,omitempty"`
	Pickup        string  `json:"pickup"`
	Drop          string  `json:"drop"`
	Price         float64 `json:"price"`
}

// CreateRide creates a new ride request.
func (c *Client) CreateRide(ctx context.Context, params CreateRideParams) (*Ride, error) {
	return c.doRide(ctx, http.MethodPost, "/v1/rides", params)
}

// Feed fetches the rides visible to the actor.
func (c *Client) Feed(ctx context.Context, actorID, role string) ([]Ride, error) {
	endpoint := "/v1/rides?" + url.Values{"actor_id": {actorID}, "role": {role}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}

	var rides []Ride
	if err := json.NewDecoder(resp.Body).Decode(&rides); err != nil {
		return nil, err
	}
	return rides, nil
}

// GetRide fetches a single ride. actorID scopes OTP visibility.
func (c *Client) GetRide(ctx context.Context, rideID, actorID string) (*Ride, error) {
	endpoint := "/v1/rides/" + rideID
	if actorID != "" {
		endpoint += "?" + url.Values{"actor_id": {actorID}}.Encode()
	}
	return c.doRide(ctx, http.MethodGet, endpoint, nil)
}

// Accept claims a pending ride for a volunteer.
func (c *Client) Accept(ctx context.Context, rideID, volunteerID, volunteerName string) (*Ride, error) {
	body := map[string]string{"volunteer_id": volunteerID, "volunteer_name": volunteerName}
	return c.doRide(ctx, http.MethodPut, "/v1/rides/"+rideID+"/accept", body)
}

// Pickup confirms the pickup handoff with the OTP.
func (c *Client) Pickup(ctx context.Context, rideID, otp string) (*Ride, error) {
	return c.doRide(ctx, http.MethodPut, "/v1/rides/"+rideID+"/pickup", map[string]string{"otp": otp})
}

// Complete finalizes an in-progress ride.
func (c *Client) Complete(ctx context.Context, rideID string) (*Ride, error) {
	return c.doRide(ctx, http.MethodPut, "/v1/rides/"+rideID+"/complete", struct{}{})
}

// Cancel cancels a ride.
func (c *Client) Cancel(ctx context.Context, rideID string) (*Ride, error) {
	return c.doRide(ctx, http.MethodPut, "/v1/rides/"+rideID+"/cancel", struct{}{})
}

// ReviewParams are the feedback fields for a completed ride.
type ReviewParams struct {
	Rating        int     `json:"rating"`
	Review        string  `json:"review,omitempty"`
	Tip           float64 `json:"tip,omitempty"`
	PaymentMethod string  `json:"payment_method,omitempty"`
}

// Review attaches feedback to a completed ride.
func (c *Client) Review(ctx context.Context, rideID string, params ReviewParams) (*Ride, error) {
	return c.doRide(ctx, http.MethodPut, "/v1/rides/"+rideID+"/review", params)
}

func (c *Client) doRide(ctx context.Context, method, endpoint string, body any) (*Ride, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}

	var ride Ride
	if err := json.NewDecoder(resp.Body).Decode(&ride); err != nil {
		return nil, err
	}
	return &ride, nil
}

func decodeError(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	data, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(data, &apiErr); err != nil || apiErr.Error == "" {
		apiErr.Error = strings.TrimSpace(string(data))
	}
	return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error}
}
