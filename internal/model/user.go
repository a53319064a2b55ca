package model

import "time"

// Role is the closed set of account roles. It is deliberately a distinct
// type rather than a free string so that role checks are exhaustive: any
// value outside the two constants below fails ParseRole and is rejected
// at the boundary (registration, token verification).
type Role string

const (
	// RoleClient is the default role assigned at registration.
	RoleClient Role = "client"
	// RoleAdmin grants access to the /admin endpoints and bypasses
	// ownership filtering on vehicles and bookings.
	RoleAdmin Role = "admin"
)

// ParseRole validates a raw role string against the closed enumeration.
// The boolean is false for any value that is not a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User mirrors the `users` table. Email is stored lowercased and is
// unique; PasswordHash carries a bcrypt digest and is never serialized
// to clients. Role and email are immutable after creation: the profile
// update path only touches name, phone and the password hash.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
