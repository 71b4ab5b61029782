package domain

import "time"

// UserRole distinguishes the two actor roles on the platform.
type UserRole string

const (
	UserRoleRequester UserRole = "requester"
	UserRoleVolunteer UserRole = "volunteer"
)

// User represents a registered requester or volunteer.
type User struct {
	ID        string
	Name      string
	Phone     string
	Role      UserRole
	CreatedAt time.Time
}
