package main // booking API entry point

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/autospa/carwash-booking/internal/auth"
	"github.com/autospa/carwash-booking/internal/config"
	"github.com/autospa/carwash-booking/internal/database"
	"github.com/autospa/carwash-booking/internal/handler"
	"github.com/autospa/carwash-booking/internal/queue"
	"github.com/autospa/carwash-booking/internal/repository"
	"github.com/autospa/carwash-booking/internal/router"
	queue_publisher "github.com/autospa/carwash-booking/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	tokens := auth.NewTokenService(cfg.JWTSecret)
	users := repository.NewUserRepository(db)
	vehicles := repository.NewVehicleRepository(db)
	bookings := repository.NewBookingRepository(db)

	// Nil when Redis is unreachable; cache and rate limiting then no-op.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	h := router.Handlers{
		Auth:    handler.NewAuthHandler(cfg, users, tokens),
		User:    handler.NewUserHandler(cfg, users, vehicles, bookings),
		Booking: handler.NewBookingHandler(bookings, users, vehicles, queue_publisher.PublishBookingCreated),
		Admin:   handler.NewAdminHandler(users, vehicles, bookings),
	}

	e := echo.New()
	router.Register(e, tokens, h, rdb)

	// Background consumer logs created bookings; it reconnects on its own
	// and never takes the API down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
