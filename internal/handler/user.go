package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/autospa/carwash-booking/internal/auth"
	"github.com/autospa/carwash-booking/internal/config"
	"github.com/autospa/carwash-booking/internal/middleware"
	"github.com/autospa/carwash-booking/internal/model"
	"github.com/autospa/carwash-booking/internal/repository"
)

// UserHandler serves the authenticated profile and vehicle endpoints.
// Every operation is scoped to the identity attached by the auth
// middleware; the owner id is never read from the request.
type UserHandler struct {
	Cfg      config.Config
	Users    repository.UserRepository
	Vehicles repository.VehicleRepository
	Bookings repository.BookingRepository
}

func NewUserHandler(cfg config.Config, users repository.UserRepository, vehicles repository.VehicleRepository, bookings repository.BookingRepository) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Vehicles: vehicles, Bookings: bookings}
}

type updateProfileReq struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

type addVehicleReq struct {
	Type         string `json:"type"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	LicensePlate string `json:"license_plate"`
}

type profileResp struct {
	User     *model.User     `json:"user"`
	Vehicles []model.Vehicle `json:"vehicles"`
	Bookings []model.Booking `json:"bookings"`
}

// Profile returns the caller's account together with their vehicles and
// bookings, matching what the profile page renders.
func (h *UserHandler) Profile(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, ident.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	vehicles, err := h.Vehicles.ListByOwner(ctx, ident.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	bookings, err := h.Bookings.ListByOwner(ctx, ident.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, profileResp{User: u, Vehicles: vehicles, Bookings: bookings})
}

// UpdateProfile mutates name, phone and/or password. Role and email are
// not part of the request type and cannot change through this path. A
// supplied password is re-hashed before it reaches the store.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.GetByID(ctx, ident.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	upd := repository.ProfileUpdate{Name: req.Name, Phone: req.Phone}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			if errors.Is(err, auth.ErrEmptyPassword) {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must not be empty"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
		upd.PasswordHash = &hash
	}
	if err := h.Users.UpdateProfile(ctx, ident.UserID, upd); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	u, err := h.Users.GetByID(ctx, ident.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, u)
}

// ListVehicles returns the caller's vehicles and nothing else; there is no
// way to widen the filter from the request.
func (h *UserHandler) ListVehicles(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	vehicles, err := h.Vehicles.ListByOwner(ctx, ident.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, vehicles)
}

// AddVehicle creates a vehicle owned by the caller.
func (h *UserHandler) AddVehicle(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req addVehicleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Type = strings.TrimSpace(req.Type)
	req.Brand = strings.TrimSpace(req.Brand)
	req.Model = strings.TrimSpace(req.Model)
	req.LicensePlate = strings.TrimSpace(req.LicensePlate)
	if req.Type == "" || req.Brand == "" || req.Model == "" || req.LicensePlate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type/brand/model/license_plate required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v := &model.Vehicle{
		UserID:       ident.UserID,
		Type:         req.Type,
		Brand:        req.Brand,
		Model:        req.Model,
		LicensePlate: req.LicensePlate,
	}
	if err := h.Vehicles.Create(ctx, v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create vehicle failed"})
	}
	return c.JSON(http.StatusCreated, v)
}

// DeleteVehicle removes one of the caller's vehicles. A vehicle id that
// exists but belongs to someone else produces the same 404 as a missing
// id.
func (h *UserHandler) DeleteVehicle(c echo.Context) error {
	ident, ok := middleware.CurrentIdentity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid vehicle id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Vehicles.Delete(ctx, id, ident.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "vehicle not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete vehicle failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
