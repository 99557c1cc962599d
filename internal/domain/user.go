package domain

import "time"

// Role enumerates the actors in the delivery workflow.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleLogist  Role = "LOGIST"
	RoleClient  Role = "CLIENT"
)

// IsStaff reports whether the role belongs to the coordinating side. Admin
// is a superset of manager everywhere the workflow admits a manager.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager
}

// User is the domain model for all workflow participants.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
