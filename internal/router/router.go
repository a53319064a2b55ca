package router // route registration for the booking API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/autospa/carwash-booking/internal/auth"
	"github.com/autospa/carwash-booking/internal/config"
	"github.com/autospa/carwash-booking/internal/handler"
	"github.com/autospa/carwash-booking/internal/middleware"
	"github.com/autospa/carwash-booking/internal/model"
)

// Handlers groups the handler sets wired by main.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Booking *handler.BookingHandler
	Admin   *handler.AdminHandler
}

// Register wires every route. Three tiers of access:
//
//   - public: health check, register/login, and the booking form. The
//     booking form runs behind OptionalAuth so a logged-in user's booking
//     is attributed to their account while guests pass through.
//   - authenticated (/v1, RequireAuth): profile, vehicles, own bookings.
//   - admin (/v1/admin, RequireAuth + RequireRole): dashboard endpoints,
//     with the aggregate stats response cached in Redis.
//
// The rate limiter wraps everything; it degrades to a no-op without Redis.
func Register(e *echo.Echo, tokens *auth.TokenService, h Handlers, rdb *redis.Client) {
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)

	ag := e.Group("/v1/auth")
	ag.POST("/register", h.Auth.Register)
	ag.POST("/login", h.Auth.Login)

	e.POST("/v1/bookings", h.Booking.Create, middleware.OptionalAuth(tokens))

	g := e.Group("/v1", middleware.RequireAuth(tokens))
	g.GET("/me", h.Auth.Me)
	g.GET("/users/profile", h.User.Profile)
	g.PUT("/users/profile", h.User.UpdateProfile)
	g.GET("/users/vehicles", h.User.ListVehicles)
	g.POST("/users/vehicles", h.User.AddVehicle)
	g.DELETE("/users/vehicles/:id", h.User.DeleteVehicle)
	g.GET("/bookings/user", h.Booking.MyBookings)
	g.GET("/bookings/:id", h.Booking.Get)
	g.PUT("/bookings/:id", h.Booking.Update)
	g.DELETE("/bookings/:id", h.Booking.Delete)

	adm := e.Group("/v1/admin",
		middleware.RequireAuth(tokens),
		middleware.RequireRole(model.RoleAdmin),
	)
	adm.GET("/users", h.Admin.ListUsers)
	adm.DELETE("/users/:id", h.Admin.DeleteUser)
	adm.GET("/bookings", h.Admin.ListBookings)
	// All admins see the same aggregates, so the cache sits after the
	// auth middlewares and keys on route+query only.
	adm.GET("/stats", h.Admin.Stats, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
}
