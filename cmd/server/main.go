package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/restaurant-reservation/internal/auth"
	"github.com/iliyamo/restaurant-reservation/internal/config"
	"github.com/iliyamo/restaurant-reservation/internal/database"
	"github.com/iliyamo/restaurant-reservation/internal/handler"
	"github.com/iliyamo/restaurant-reservation/internal/middleware"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/router"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.InitSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema init: %v", err)
	}
	cancel()

	// Redis is optional: a nil client turns the limiter and the cache
	// into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	issuer := auth.NewJWTIssuer(cfg.JWTSecret, cfg.AccessTTLMin)

	users := repository.NewUserRepo(db)
	tables := repository.NewTableRepo(db)
	reservations := repository.NewReservationRepo(db)

	authHandler := handler.NewAuthHandler(cfg, users, issuer)
	tableHandler := handler.NewTableHandler(tables)
	reservationHandler := handler.NewReservationHandler(tables, reservations, service.NewQueuePublisher())

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, limiter)
	router.RegisterPublic(e, tableHandler, reservationHandler, cache)
	router.RegisterReservations(e, reservationHandler, issuer, limiter)

	// Booking log consumer; reconnects on broker failure and never
	// blocks request handling.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
