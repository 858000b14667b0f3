package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"troffee-auctioneer/internal/adapters/db"
	"troffee-auctioneer/internal/adapters/httpapi"
	"troffee-auctioneer/internal/adapters/redis"
	"troffee-auctioneer/internal/app"
	"troffee-auctioneer/internal/config"
	"troffee-auctioneer/internal/ports/outbound"
	"troffee-auctioneer/internal/resilience"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	initLogging(cfg)

	log.Info().Msg("Starting Troffee Auctioneer...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := db.RunMigrations(cfg.Database.URL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Migrations applied")

	dbConn, err := db.NewConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbConn.Close()
	log.Info().Msg("Database connection established")

	vehicleRepo := db.NewVehicleRepository(dbConn)
	auctionRepo := db.NewAuctionRepository(dbConn)
	bidRepo := db.NewBidRepository(dbConn)

	// The vehicle cache is optional; without Redis the repositories serve
	// every read
	var vehicleCache outbound.VehicleCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(cfg)
		if err := redis.PingRedis(redisClient); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		vehicleCache = redis.NewVehicleCache(redis.VehicleCacheParams{
			Client: redisClient,
			Logger: log.Logger,
		})
		log.Info().Msg("Redis vehicle cache initialized")
	}

	policy := resilience.New(resilience.Config{
		MaxRetries:       uint64(cfg.Resilience.RetryMaxAttempts),
		InitialInterval:  cfg.Resilience.RetryInitialInterval,
		Multiplier:       2,
		MaxInterval:      cfg.Resilience.RetryInitialInterval * 4,
		BreakerThreshold: uint32(cfg.Resilience.BreakerFailThreshold),
		BreakerCooldown:  cfg.Resilience.BreakerCooldown,
	}, log.Logger)

	vehicleService := app.NewVehicleService(app.VehicleServiceParams{
		VehicleRepo: vehicleRepo,
		Cache:       vehicleCache,
		Policy:      policy,
		Logger:      log.Logger,
	})
	auctionService := app.NewAuctionService(app.AuctionServiceParams{
		AuctionRepo: auctionRepo,
		VehicleRepo: vehicleRepo,
		Cache:       vehicleCache,
		Policy:      policy,
		Logger:      log.Logger,
	})
	bidService := app.NewBidService(app.BidServiceParams{
		BidRepo:     bidRepo,
		AuctionRepo: auctionRepo,
		VehicleRepo: vehicleRepo,
		Cache:       vehicleCache,
		Policy:      policy,
		Logger:      log.Logger,
	})

	log.Info().Msg("Business services initialized")

	handler := httpapi.NewHandler(httpapi.HandlerParams{
		Vehicles: vehicleService,
		Auctions: auctionService,
		Bids:     bidService,
		Logger:   log.Logger,
	})
	server := httpapi.NewServer(httpapi.ServerParams{
		Config:  cfg,
		Handler: handler,
		Logger:  log.Logger,
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("HTTP server failed")
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	log.Info().Msg("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	}

	log.Info().Msg("Graceful shutdown completed")
}

func initLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Logging.Format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	zerolog.DefaultContextLogger = &log.Logger
}
