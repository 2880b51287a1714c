package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kwolity/realty-api/internal/api"
	"github.com/kwolity/realty-api/internal/api/handler"
	"github.com/kwolity/realty-api/internal/core/service"
	mongodb "github.com/kwolity/realty-api/internal/infrastructure/db/mongo"
	redisdb "github.com/kwolity/realty-api/internal/infrastructure/db/redis"
	"github.com/kwolity/realty-api/internal/infrastructure/media"
	"github.com/kwolity/realty-api/internal/infrastructure/queue"
	"github.com/kwolity/realty-api/internal/pkg/config"
	"github.com/kwolity/realty-api/pkg/logger"
)

// @title        Realty API
// @version      1.0
// @description  Real-estate marketplace backend: listings, bookings, payments and crowdfunded investments.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("startup: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	properties := mongodb.NewPropertyRepository(db)
	bookings := mongodb.NewBookingRepository(db)
	payments := mongodb.NewPaymentRepository(db)
	investments := mongodb.NewInvestmentRepository(db)

	// --- Services ---
	tokens := service.NewTokenManager(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessTTL,
		cfg.Auth.RefreshTTL,
	)
	denylist := redisdb.NewDenylist(rdb)
	uploader := media.NewClient(media.Config{
		UploadURL: cfg.Media.UploadURL,
		APIKey:    cfg.Media.APIKey,
	})

	authService := service.NewAuthService(users, tokens, denylist, cfg.Auth.BcryptCost, log)
	propertyService := service.NewPropertyService(properties, users, uploader, log)
	bookingService := service.NewBookingService(bookings, properties, log)
	paymentService := service.NewPaymentService(payments, redisdb.NewDedupChecker(rdb), log)
	investmentService := service.NewInvestmentService(investments, uploader, log)

	// --- Webhook dispatcher ---
	dispatcher := queue.NewDispatcher(0, paymentService, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		Log:         log,
		Mongo:       db,
		Redis:       rdb,
		Auth:        authService,
		Verifier:    tokens,
		Users:       users,
		Properties:  propertyService,
		Bookings:    bookingService,
		Payments:    paymentService,
		Investments: investmentService,
		Dispatcher:  dispatcher,
		Cookies: handler.CookieSettings{
			Secure:     cfg.Env != "development",
			AccessTTL:  tokens.AccessTTL(),
			RefreshTTL: tokens.RefreshTTL(),
		},
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
