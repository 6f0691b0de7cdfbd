package domain

import "time"

// Role enumerates platform roles carried in access tokens.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleDriver Role = "DRIVER"
	RolePlant  Role = "PLANT"
)

// ParseRole maps a raw string onto a known Role.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin, RoleDriver, RolePlant:
		return Role(raw), true
	}
	return "", false
}

// Authority returns the canonical authority string for the role.
func (r Role) Authority() string {
	return "ROLE_" + string(r)
}

// Account is the domain model for a platform login (admin, driver or plant operator).
type Account struct {
	ID           int64
	Username     string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
