package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/padelpoint/tournament-system/config"
	"github.com/padelpoint/tournament-system/db"
	"github.com/padelpoint/tournament-system/handlers"
	"github.com/padelpoint/tournament-system/repositories"
	api "github.com/padelpoint/tournament-system/routes"
	"github.com/padelpoint/tournament-system/services"
	"github.com/padelpoint/tournament-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.R2Configured() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("R2 storage not configured, bracket snapshots disabled")
	}

	divisionRepo := repositories.NewPostgresDivisionRepository(dbConn)
	participantRepo := repositories.NewPostgresParticipantRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	setRepo := repositories.NewPostgresSetRepository(dbConn)
	groupRepo := repositories.NewPostgresGroupRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	logger.Info("repositories initialized")

	standingService := services.NewStandingService(
		dbConn, divisionRepo, groupRepo, standingRepo, matchRepo, setRepo, logger)
	bracketService := services.NewBracketService(
		dbConn, divisionRepo, participantRepo, matchRepo, uploader, logger)
	groupService := services.NewGroupService(
		dbConn, divisionRepo, participantRepo, groupRepo, standingRepo, matchRepo, setRepo, logger)
	matchService := services.NewMatchService(
		dbConn, matchRepo, setRepo, standingService, logger)
	scheduleService := services.NewScheduleService(
		dbConn, divisionRepo, matchRepo, logger)
	overviewService := services.NewOverviewService(
		dbConn, divisionRepo, groupRepo, standingRepo, matchRepo, setRepo, logger)
	logger.Info("services initialized")

	defaults := services.MatchConfig{
		MaxSets:      cfg.DefaultMaxSets,
		PointsPerSet: cfg.DefaultPointsPerSet,
	}
	divisionHandler := handlers.NewDivisionHandler(overviewService, standingService)
	bracketHandler := handlers.NewBracketHandler(bracketService, groupService, defaults)
	matchHandler := handlers.NewMatchHandler(matchService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService)

	router := chi.NewRouter()
	api.SetupRoutes(router, cfg.JWTSecretKey,
		divisionHandler, bracketHandler, matchHandler, scheduleHandler)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
