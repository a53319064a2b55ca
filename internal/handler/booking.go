package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autospa/carwash-booking/internal/auth"
	"github.com/autospa/carwash-booking/internal/middleware"
	"github.com/autospa/carwash-booking/internal/model"
	"github.com/autospa/carwash-booking/internal/queue"
	"github.com/autospa/carwash-booking/internal/repository"
)

// PublishFunc sends a booking-created event to the broker. Publishing is
// best effort; a failure is logged, never surfaced to the client.
type PublishFunc func(ctx context.Context, ev queue.BookingCreatedEvent) error

// BookingHandler serves booking creation and the per-booking operations.
// Creation runs behind OptionalAuth: with an identity present the contact
// and vehicle snapshots are resolved server-side from the store, without
// one the request body is taken verbatim and the owner stays NULL.
type BookingHandler struct {
	Bookings repository.BookingRepository
	Users    repository.UserRepository
	Vehicles repository.VehicleRepository
	Publish  PublishFunc
}

func NewBookingHandler(bookings repository.BookingRepository, users repository.UserRepository, vehicles repository.VehicleRepository, publish PublishFunc) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Users: users, Vehicles: vehicles, Publish: publish}
}

type createBookingReq struct {
	// Common fields.
	Date    string `json:"date"`
	Time    string `json:"time"`
	Service string `json:"service"`
	// Authenticated path: the vehicle to snapshot, must belong to the caller.
	VehicleID uint64 `json:"vehicle_id"`
	// Guest path: contact and vehicle descriptor, taken verbatim.
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	VehicleType  string `json:"vehicle_type"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"license_plate"`
}

type updateBookingReq struct {
	Date    *string `json:"date"`
	Time    *string `json:"time"`
	Service *string `json:"service"`
	Status  *string `json:"status"`
}

func validSlot(date, timeStr string) bool {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return false
	}
	_, err := time.Parse("15:04", timeStr)
	return err == nil
}

// Create books a wash slot. See the handler type comment for the two
// trust paths.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Service = strings.TrimSpace(req.Service)
	if req.Service == "" || !validSlot(req.Date, req.Time) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date (YYYY-MM-DD), time (HH:MM) and service required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b := &model.Booking{
		Date:    req.Date,
		Time:    req.Time,
		Service: req.Service,
		Status:  model.BookingStatusPending,
	}

	if ident, ok := middleware.CurrentIdentity(c); ok {
		// Authenticated: resolve snapshots from the store. Contact fields
		// come from the user row, vehicle fields from an owner-scoped
		// vehicle lookup; nothing client-supplied is trusted here.
		if req.VehicleID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_id required"})
		}
		u, err := h.Users.GetByID(ctx, ident.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		v, err := h.Vehicles.GetForOwner(ctx, req.VehicleID, ident.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		uid := ident.UserID
		b.UserID = &uid
		b.Name = u.Name
		b.Email = u.Email
		b.Phone = u.Phone
		b.VehicleType = v.Type
		b.Brand = v.Brand
		b.Model = v.Model
		b.LicensePlate = v.LicensePlate
	} else {
		// Guest: everything comes from the form.
		req.Name = strings.TrimSpace(req.Name)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.Phone = strings.TrimSpace(req.Phone)
		if req.Name == "" || req.Email == "" || req.Phone == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/phone required"})
		}
		if req.VehicleType == "" || req.Brand == "" || req.Model == "" || req.LicensePlate == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_type/brand/model/license_plate required"})
		}
		b.Name = req.Name
		b.Email = req.Email
		b.Phone = req.Phone
		b.VehicleType = req.VehicleType
		b.Brand = req.Brand
		b.Model = req.Model
		b.LicensePlate = req.LicensePlate
	}

	if err := h.Bookings.Create(ctx, b); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create booking failed"})
	}

	if h.Publish != nil {
		ev := queue.BookingCreatedEvent{
			BookingID:    b.ID,
			Name:         b.Name,
			Email:        b.Email,
			Phone:        b.Phone,
			Date:         b.Date,
			Time:         b.Time,
			Service:      b.Service,
			VehicleType:  b.VehicleType,
			Brand:        b.Brand,
			Model:        b.Model,
			LicensePlate: b.LicensePlate,
			Status:       b.Status,
			CreatedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if b.UserID != nil {
			ev.UserID = *b.UserID
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("booking %d: publish event failed: %v", b.ID, err)
		}
	}

	return c.JSON(http.StatusCreated, b)
}

// MyBookings lists the caller's bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListByOwner(ctx, ident.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// Get returns one booking. Non-admins only see their own; an id owned by
// someone else is indistinguishable from a missing one.
func (h *BookingHandler) Get(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.fetch(ctx, id, ident)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// Update mutates the slot, service or status of a booking, owner-scoped
// for non-admins. The contact and vehicle snapshots are immutable.
func (h *BookingHandler) Update(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Date != nil || req.Time != nil {
		date, timeStr := "", ""
		if req.Date != nil {
			date = *req.Date
		}
		if req.Time != nil {
			timeStr = *req.Time
		}
		// Partial slot changes still have to parse; reuse the stored half.
		ctxPeek, cancelPeek := context.WithTimeout(c.Request().Context(), 5*time.Second)
		existing, peekErr := h.fetch(ctxPeek, id, ident)
		cancelPeek()
		if peekErr != nil {
			if errors.Is(peekErr, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if date == "" {
			date = existing.Date
		}
		if timeStr == "" {
			timeStr = existing.Time
		}
		if !validSlot(date, timeStr) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date/time"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.fetch(ctx, id, ident); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	upd := repository.BookingUpdate{Date: req.Date, Time: req.Time, Service: req.Service, Status: req.Status}
	if err := h.Bookings.Update(ctx, id, h.ownerScope(ident), upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update booking failed"})
	}

	b, err := h.fetch(ctx, id, ident)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, b)
}

// Delete cancels a booking, owner-scoped for non-admins.
func (h *BookingHandler) Delete(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Bookings.Delete(ctx, id, h.ownerScope(ident)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete booking failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ownerScope returns the owner predicate for store calls: nil for admins
// (no scoping), the caller's id for everyone else.
func (h *BookingHandler) ownerScope(ident auth.Identity) *uint64 {
	if ident.Role == model.RoleAdmin {
		return nil
	}
	uid := ident.UserID
	return &uid
}

func (h *BookingHandler) fetch(ctx context.Context, id uint64, ident auth.Identity) (*model.Booking, error) {
	if ident.Role == model.RoleAdmin {
		return h.Bookings.GetByID(ctx, id)
	}
	return h.Bookings.GetForOwner(ctx, id, ident.UserID)
}
