package domain

import "time"

// Role enumerates the two account roles.
type Role string

const (
	RoleSupervisor Role = "SUPERVISOR"
	RoleMiner      Role = "MINER"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleSupervisor || r == RoleMiner
}

// User is the domain model for supervisors and miners. Role is immutable
// after creation; account role changes go through re-provisioning.
type User struct {
	ID           int64
	UserID       string
	Name         string
	Email        string
	Phone        *string
	PasswordHash string
	Role         Role
	MiningSite   *string
	Location     *string
	SupervisorID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
