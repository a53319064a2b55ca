package model

import "time"

// BookingStatusPending is the status assigned to newly created bookings.
const BookingStatusPending = "pending"

// Booking mirrors the `bookings` table. UserID is nullable: a NULL owner
// marks a guest booking made through the public form. Contact and vehicle
// fields are snapshots captured at booking time -- for authenticated
// bookings they are resolved from the stored user and vehicle rows, for
// guest bookings they are taken verbatim from the request. Later edits or
// deletes of a vehicle never rewrite these snapshots.
type Booking struct {
	ID           uint64    `json:"id"`
	UserID       *uint64   `json:"user_id,omitempty"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Date         string    `json:"booking_date"`
	Time         string    `json:"booking_time"`
	Service      string    `json:"service"`
	VehicleType  string    `json:"vehicle_type"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	LicensePlate string    `json:"license_plate"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
