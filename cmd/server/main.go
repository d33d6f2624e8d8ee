package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/wildoasis/booking-api/internal/config"
	"github.com/wildoasis/booking-api/internal/database"
	"github.com/wildoasis/booking-api/internal/handler"
	"github.com/wildoasis/booking-api/internal/media"
	"github.com/wildoasis/booking-api/internal/middleware"
	"github.com/wildoasis/booking-api/internal/queue"
	"github.com/wildoasis/booking-api/internal/repository"
	"github.com/wildoasis/booking-api/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; response cache and rate limiting disabled")
	}

	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	guestRepo := repository.NewGuestRepo(db)
	cabinRepo := repository.NewCabinRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)

	mediaClient := media.NewClientFromEnv()
	if mediaClient == nil {
		log.Printf("cloudinary not configured; image uploads disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	cabinH := handler.NewCabinHandler(cabinRepo, bookingRepo, mediaClient)
	guestH := handler.NewGuestHandler(guestRepo)
	bookingH := handler.NewBookingHandler(bookingRepo, cabinRepo, guestRepo, settingsRepo)
	reportH := handler.NewReportHandler(bookingRepo)
	settingsH := handler.NewSettingsHandler(settingsRepo)

	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterCatalog(e, cabinH, guestH, settingsH, cfg.JWTSecret, cacheMW)
	router.RegisterBookings(e, bookingH, reportH, cfg.JWTSecret)

	// Background consumer appending check-in events to logs/booking.log.
	go func() {
		if err := queue.StartCheckedInConsumer(); err != nil {
			log.Printf("checkin consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
