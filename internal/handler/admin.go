package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autospa/carwash-booking/internal/repository"
)

// AdminHandler serves the dashboard endpoints. Routes using it sit behind
// RequireAuth + RequireRole(admin), so no per-resource ownership checks
// apply here; admins see across all owners.
type AdminHandler struct {
	Users    repository.UserRepository
	Vehicles repository.VehicleRepository
	Bookings repository.BookingRepository
}

func NewAdminHandler(users repository.UserRepository, vehicles repository.VehicleRepository, bookings repository.BookingRepository) *AdminHandler {
	return &AdminHandler{Users: users, Vehicles: vehicles, Bookings: bookings}
}

type statsResp struct {
	TotalUsers       int64            `json:"total_users"`
	TotalBookings    int64            `json:"total_bookings"`
	TotalVehicles    int64            `json:"total_vehicles"`
	BookingsByStatus map[string]int64 `json:"bookings_by_status"`
}

// ListUsers returns every registered account. Password hashes never
// serialize (see model.User).
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, users)
}

// DeleteUser removes an account: owned vehicles are deleted, the owner
// reference on bookings is cleared so history survives.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBookings returns bookings across all owners, guests included.
func (h *AdminHandler) ListBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	bookings, err := h.Bookings.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, bookings)
}

// Stats returns the dashboard aggregates.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	bookings, err := h.Bookings.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	vehicles, err := h.Vehicles.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	byStatus, err := h.Bookings.CountByStatus(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, statsResp{
		TotalUsers:       users,
		TotalBookings:    bookings,
		TotalVehicles:    vehicles,
		BookingsByStatus: byStatus,
	})
}
