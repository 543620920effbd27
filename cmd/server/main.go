package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/resnplay/court-booking-api/internal/config"
	"github.com/resnplay/court-booking-api/internal/database"
	"github.com/resnplay/court-booking-api/internal/handler"
	"github.com/resnplay/court-booking-api/internal/middleware"
	"github.com/resnplay/court-booking-api/internal/queue"
	"github.com/resnplay/court-booking-api/internal/repository"
	"github.com/resnplay/court-booking-api/internal/router"
	"github.com/resnplay/court-booking-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer func() { _ = db.Close() }()

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	courtRepo := repository.NewCourtRepo(db)
	slotRepo := repository.NewTimeSlotRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	publisher := service.NewBookingEventPublisher()

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	ownerH := handler.NewOwnerHandler(courtRepo, slotRepo, bookingRepo)
	playerH := handler.NewPlayerHandler(courtRepo, slotRepo, bookingRepo, userRepo, publisher)
	publicH := handler.NewPublicHandler(courtRepo, slotRepo)

	e := echo.New()
	e.HideBanner = true

	// Redis backs the rate limiter and the public response cache.  When
	// it is unreachable both degrade to pass-through.
	rdb := config.NewRedisClient()
	var publicMW []echo.MiddlewareFunc
	if rdb != nil {
		rlCfg := config.LoadRateLimitConfig()
		if rlCfg.Enabled {
			e.Use(middleware.NewTokenBucket(rlCfg, rdb))
		}
		cacheCfg := config.LoadCacheConfig()
		if cacheCfg.Enabled {
			publicMW = append(publicMW, middleware.NewRedisCache(cacheCfg, rdb))
		}
	} else {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, publicH, publicMW...)
	router.RegisterOwner(e, ownerH, cfg.JWTSecret)
	router.RegisterPlayer(e, playerH, cfg.JWTSecret)

	// Confirmation notices are consumed off the broker in the background;
	// the consumer reconnects on its own and never takes the API down.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	go func() {
		log.Printf("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server start failed: %v", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM: stop accepting requests, let
	// in-flight transactions finish, then close the pools.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
