package main // Entry point package

import (
    "log" // Logging library

    "github.com/joho/godotenv"    // Loads .env files into the environment
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/parking-reservation/internal/config"     // Internal config loader
    "github.com/iliyamo/parking-reservation/internal/database"   // MySQL connector
    "github.com/iliyamo/parking-reservation/internal/handler"    // HTTP handlers
    "github.com/iliyamo/parking-reservation/internal/middleware" // Redis cache and rate limiting
    "github.com/iliyamo/parking-reservation/internal/queue"      // RabbitMQ consumer
    "github.com/iliyamo/parking-reservation/internal/repository" // Database repositories
    "github.com/iliyamo/parking-reservation/internal/router"     // Route registration
)

func main() {
    // Load .env when present; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load() // Load environment config

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer func() { _ = db.Close() }()

    // Redis is optional: a nil client disables caching and rate limiting.
    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Println("redis unavailable, caching and rate limiting disabled")
    }

    lotRepo := repository.NewLotRepo(db)
    spotRepo := repository.NewSpotRepo(db)
    spotTypeRepo := repository.NewSpotTypeRepo(db)
    userRepo := repository.NewUserRepo(db)
    carRepo := repository.NewCarRepo(db)
    reservationRepo := repository.NewReservationRepo(db)
    feeRepo := repository.NewFeeRepo(db)

    lotHandler := handler.NewLotHandler(lotRepo)
    spotHandler := handler.NewSpotHandler(spotRepo, lotRepo, spotTypeRepo)
    feeHandler := handler.NewFeeHandler(feeRepo, spotTypeRepo)
    userHandler := handler.NewUserHandler(userRepo, carRepo, cfg.BcryptCost)
    carHandler := handler.NewCarHandler(carRepo)
    reservationHandler := handler.NewReservationHandler(reservationRepo, spotRepo, userRepo, carRepo, cfg.PublishEvents)

    e := echo.New() // Create Echo instance
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterParking(e, lotHandler, spotHandler, feeHandler)
    router.RegisterAccounts(e, userHandler, carHandler)
    router.RegisterReservations(e, reservationHandler)

    if cfg.PublishEvents {
        // Background consumer mirrors confirmed reservations into
        // logs/reservation.log; it reconnects on broker failure.
        go func() {
            if err := queue.StartReservationConsumer(); err != nil {
                log.Printf("reservation consumer stopped: %v", err)
            }
        }()
    }

    addr := ":" + cfg.Port                                // Address string with port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

    if err := e.Start(addr); err != nil { // Start HTTP server
        log.Fatal(err) // Log and exit if server fails
    }
}
