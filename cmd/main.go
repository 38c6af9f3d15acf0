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
	"github.com/itbasis/go-clock"

	"github.com/sportarena/khokho-backend/config"
	"github.com/sportarena/khokho-backend/db"
	"github.com/sportarena/khokho-backend/handlers"
	"github.com/sportarena/khokho-backend/live"
	appMiddleware "github.com/sportarena/khokho-backend/middleware"
	"github.com/sportarena/khokho-backend/repositories"
	"github.com/sportarena/khokho-backend/routes"
	"github.com/sportarena/khokho-backend/services"
	"github.com/sportarena/khokho-backend/storage"
)

// schedulerInterval is how often tournament statuses are realigned with
// their date ranges.
const schedulerInterval = 30 * time.Second

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

	if err := db.Migrate(dbConn); err != nil {
		logger.Error("failed to apply migrations", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("migrations applied")

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
		logger.Warn("R2 storage not configured, logo uploads disabled")
	}

	hub := live.NewHub(logger)
	go hub.Run()
	logger.Info("websocket hub started")

	clk := clock.New()
	txRunner := repositories.NewSQLTxRunner(dbConn)

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	tournamentRepo := repositories.NewPostgresTournamentRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	playerRepo := repositories.NewPostgresPlayerRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	officialRepo := repositories.NewPostgresOfficialRepository(dbConn)
	matchPlayerRepo := repositories.NewPostgresMatchPlayerRepository(dbConn)
	resultRepo := repositories.NewPostgresResultRepository(dbConn)
	scoreRepo := repositories.NewPostgresScoreRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	tournamentService := services.NewTournamentService(txRunner, tournamentRepo, teamRepo, playerRepo, matchRepo, clk, logger)
	teamService := services.NewTeamService(teamRepo, tournamentRepo, uploader, logger)
	playerService := services.NewPlayerService(playerRepo, teamRepo, tournamentRepo, clk)
	matchService := services.NewMatchService(txRunner, matchRepo, tournamentRepo, teamRepo, playerRepo, userRepo, officialRepo, matchPlayerRepo)
	lifecycleService := services.NewMatchLifecycleService(txRunner, matchRepo, officialRepo, scoreRepo, resultRepo, teamRepo, clk, hub)
	scoringService := services.NewScoringService(txRunner, matchRepo, playerRepo, matchPlayerRepo, scoreRepo, hub)
	standingsService := services.NewStandingsService(tournamentRepo, teamRepo, resultRepo)
	logger.Info("services initialized")

	go runStatusScheduler(tournamentService, logger)

	authenticator := appMiddleware.NewAuthenticator(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	tournamentHandler := handlers.NewTournamentHandler(tournamentService, standingsService)
	teamHandler := handlers.NewTeamHandler(teamService)
	playerHandler := handlers.NewPlayerHandler(playerService)
	matchHandler := handlers.NewMatchHandler(matchService, lifecycleService)
	scoringHandler := handlers.NewScoringHandler(scoringService, matchService)
	webSocketHandler := handlers.NewWebSocketHandler(hub, matchService, logger)

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		authenticator,
		authHandler,
		tournamentHandler,
		teamHandler,
		playerHandler,
		matchHandler,
		scoringHandler,
		webSocketHandler,
	)
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
}

// runStatusScheduler keeps tournament statuses in line with their dates,
// once at startup and then on every tick.
func runStatusScheduler(tournamentService services.TournamentService, logger *slog.Logger) {
	ticker := time.NewTicker(schedulerInterval)
	defer ticker.Stop()
	logger.Info("tournament status scheduler started", slog.Duration("interval", schedulerInterval))

	sync := func() {
		updated, err := tournamentService.SyncStatusesWithDates(context.Background())
		if err != nil {
			logger.Error("tournament status sync failed", slog.Any("error", err))
			return
		}
		if updated > 0 {
			logger.Info("tournament statuses updated", slog.Int("count", updated))
		}
	}

	sync()
	for range ticker.C {
		sync()
	}
}
