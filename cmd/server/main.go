package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/airowalk/airowalk-backend/internal/config"
	"github.com/airowalk/airowalk-backend/internal/database"
	"github.com/airowalk/airowalk-backend/internal/handler"
	"github.com/airowalk/airowalk-backend/internal/middleware"
	"github.com/airowalk/airowalk-backend/internal/queue"
	"github.com/airowalk/airowalk-backend/internal/repository"
	"github.com/airowalk/airowalk-backend/internal/router"
)

func main() {
	// Missing .env is fine in production where real env vars are set.
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client turns the cache and rate limiter into
	// no-ops.
	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	rateMW := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	users := repository.NewUserRepo(db)
	nodes := repository.NewNodeRepo(db)
	measurements := repository.NewMeasurementRepo(db)
	stats := repository.NewStatsRepo(db)
	apps := repository.NewApplicationRepo(db)
	townHalls := repository.NewTownHallRepo(db)
	prizes := repository.NewPrizeRepo(db)

	authH := handler.NewAuthHandler(cfg, users, apps)
	userH := handler.NewUserHandler(cfg, users, stats)
	nodeH := handler.NewNodeHandler(nodes, users, measurements)
	airH := handler.NewAirQualityHandler(nodes, measurements, stats)
	measH := handler.NewMeasurementHandler(measurements)
	appH := handler.NewApplicationHandler(apps, users, townHalls)
	prizeH := handler.NewPrizeHandler(db, prizes, users)

	e := echo.New()
	e.Use(rateMW)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH)
	router.RegisterUsers(e, userH, airH, cfg.JWTSecret, cacheMW)
	router.RegisterNodes(e, nodeH, cfg.JWTSecret)
	router.RegisterMeasurements(e, measH)
	router.RegisterApplications(e, appH, cacheMW)
	router.RegisterPrizes(e, prizeH, cfg.JWTSecret, cacheMW)

	// Background consumer logging redemptions; reconnects on broker loss.
	go func() {
		if err := queue.StartRedemptionConsumer(); err != nil {
			log.Printf("redemption consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
