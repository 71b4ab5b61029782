package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"assistall/internal/domain"
	"assistall/internal/repository"
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

const rideColumns = `id, requester_id, requester_name, volunteer_id, volunteer_name, type, pickup, drop_location, price, status, pickup_otp, rating, review, tip, payment_method, created_at, updated_at`

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (` + rideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RequesterID,
		ride.RequesterName,
		nullString(ride.VolunteerID),
		nullString(ride.VolunteerName),
		ride.Type,
		ride.Pickup,
		ride.Drop,
		ride.Price,
		ride.Status,
		ride.PickupOTP,
		nullInt(ride.Rating),
		nullString(ride.Review),
		ride.Tip,
		nullString(string(ride.PaymentMethod)),
		ride.CreatedAt,
		ride.UpdatedAt,
	)

	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// RequesterFeed returns the rides visible to a requester, newest first.
func (r *RideRepository) RequesterFeed(ctx context.Context, requesterID string, pendingSince time.Time) ([]*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + ` FROM rides
		WHERE (status = 'pending' AND created_at > $1)
		   OR status IN ('accepted', 'in_progress')
		   OR requester_id = $2
		ORDER BY created_at DESC
	`
	return r.queryRides(ctx, query, pendingSince, requesterID)
}

// VolunteerFeed returns the rides visible to a volunteer, newest first.
func (r *RideRepository) VolunteerFeed(ctx context.Context, volunteerID string, pendingSince time.Time) ([]*domain.Ride, error) {
	query := `
		SELECT ` + rideColumns + ` FROM rides
		WHERE (status = 'pending' AND created_at > $1)
		   OR (volunteer_id = $2 AND status IN ('accepted', 'in_progress', 'completed'))
		ORDER BY created_at DESC
	`
	return r.queryRides(ctx, query, pendingSince, volunteerID)
}

// Accept assigns a volunteer to a pending ride with a single conditional
// update. The status filter makes the first accept win; any later attempt
// matches zero rows.
func (r *RideRepository) Accept(ctx context.Context, id, volunteerID, volunteerName string) error {
	query := `
		UPDATE rides
		SET status = $1, volunteer_id = $2, volunteer_name = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		domain.RideStatusAccepted, volunteerID, volunteerName, time.Now(), id, domain.RideStatusPending)
	if err != nil {
		return err
	}

	return r.checkConditional(ctx, result, id)
}

// TransitionStatus moves a ride from one status to another, guarded by the
// expected current status.
func (r *RideRepository) TransitionStatus(ctx context.Context, id string, from, to domain.RideStatus) error {
	query := `UPDATE rides SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`

	result, err := r.q.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return err
	}

	return r.checkConditional(ctx, result, id)
}

// Cancel moves any non-terminal ride to cancelled.
func (r *RideRepository) Cancel(ctx context.Context, id string) error {
	query := `
		UPDATE rides SET status = $1, updated_at = $2
		WHERE id = $3 AND status IN ('pending', 'accepted', 'in_progress')
	`

	result, err := r.q.ExecContext(ctx, query, domain.RideStatusCancelled, time.Now(), id)
	if err != nil {
		return err
	}

	return r.checkConditional(ctx, result, id)
}

// AttachFeedback records rating/review/tip/payment on a completed ride.
// Feedback is write-once: the rating guard makes a second attempt match
// zero rows.
func (r *RideRepository) AttachFeedback(ctx context.Context, id string, rating int, review string, tip float64, method domain.PaymentMethod) error {
	query := `
		UPDATE rides
		SET rating = $1, review = $2, tip = $3, payment_method = $4, updated_at = $5
		WHERE id = $6 AND status = 'completed' AND rating IS NULL
	`

	result, err := r.q.ExecContext(ctx, query,
		nullInt(rating), nullString(review), tip, nullString(string(method)), time.Now(), id)
	if err != nil {
		return err
	}

	return r.checkConditional(ctx, result, id)
}

// DeleteStalePending removes pending rides created before the cutoff.
func (r *RideRepository) DeleteStalePending(ctx context.Context, before time.Time) (int64, error) {
	query := `DELETE FROM rides WHERE status = 'pending' AND created_at < $1`

	result, err := r.q.ExecContext(ctx, query, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// checkConditional distinguishes "ride missing" from "ride present but in
// the wrong status" after a zero-row conditional update.
func (r *RideRepository) checkConditional(ctx context.Context, result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected > 0 {
		return nil
	}

	var exists bool
	if err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM rides WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return repository.ErrStaleStatus
}

func (r *RideRepository) queryRides(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rides []*domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var volunteerID, volunteerName, review, paymentMethod sql.NullString
	var rating sql.NullInt64

	err := row.Scan(
		&ride.ID,
		&ride.RequesterID,
		&ride.RequesterName,
		&volunteerID,
		&volunteerName,
		&ride.Type,
		&ride.Pickup,
		&ride.Drop,
		&ride.Price,
		&ride.Status,
		&ride.PickupOTP,
		&rating,
		&review,
		&ride.Tip,
		&paymentMethod,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if volunteerID.Valid {
		ride.VolunteerID = volunteerID.String
	}
	if volunteerName.Valid {
		ride.VolunteerName = volunteerName.String
	}
	if rating.Valid {
		ride.Rating = int(rating.Int64)
	}
	if review.Valid {
		ride.Review = review.String
	}
	if paymentMethod.Valid {
		ride.PaymentMethod = domain.PaymentMethod(paymentMethod.String)
	}

	return &ride, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullInt(n int) sql.NullInt64 {
	if n == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(n), Valid: true}
}
