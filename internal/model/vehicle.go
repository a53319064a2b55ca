package model

import "time"

// Vehicle mirrors the `vehicles` table. Every vehicle belongs to exactly
// one user; all reads and deletes outside the admin surface are scoped to
// that owner in the repository layer.
type Vehicle struct {
	ID           uint64    `json:"id"`
	UserID       uint64    `json:"user_id"`
	Type         string    `json:"type"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	LicensePlate string    `json:"license_plate"`
	CreatedAt    time.Time `json:"created_at"`
}
