// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedEvent is published when a booking is created through the
// public form or the authenticated API. It carries the full snapshot so
// downstream consumers can log or notify without querying the primary
// database. UserID is zero for guest bookings.
type BookingCreatedEvent struct {
	BookingID    uint64 `json:"booking_id"`
	UserID       uint64 `json:"user_id,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Date         string `json:"booking_date"`
	Time         string `json:"booking_time"`
	Service      string `json:"service"`
	VehicleType  string `json:"vehicle_type"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"license_plate"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}
