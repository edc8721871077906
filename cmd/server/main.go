package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/opengds/terminal-server-go/internal/collab"
	"github.com/opengds/terminal-server-go/internal/config"
	"github.com/opengds/terminal-server-go/internal/database"
	"github.com/opengds/terminal-server-go/internal/engine"
	"github.com/opengds/terminal-server-go/internal/handler"
	"github.com/opengds/terminal-server-go/internal/inventory"
	"github.com/opengds/terminal-server-go/internal/jobs"
	"github.com/opengds/terminal-server-go/internal/middleware"
	"github.com/opengds/terminal-server-go/internal/parser"
	"github.com/opengds/terminal-server-go/internal/redis"
	"github.com/opengds/terminal-server-go/internal/repository"
	"github.com/opengds/terminal-server-go/internal/workspace"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setLogLevel(cfg.LogLevel)

	isProduction := os.Getenv("FLY_APP_NAME") != ""
	if err := cfg.Validate(isProduction); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), config.DBPingTimeout)
	if err := db.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}
	cancel()
	log.Info().Msg("database connected")

	redisClient, err := redis.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected")

	flightRepo := repository.NewFlightRepository(db.DB)
	pnrRepo := repository.NewPnrRepository(db)
	agentRepo := repository.NewAgentRepository(db.DB)
	sessionRepo := repository.NewSessionRepository(redisClient)

	inventoryStore := inventory.NewPostgresStore(db.DB)
	allocator := inventory.NewAllocator(inventoryStore, flightRepo)

	workspaces := workspace.NewManager()
	coordinator := workspace.NewCoordinator(pnrRepo, allocator, workspaces)

	eng := engine.New(engine.Deps{
		Registry:    parser.NewRegistry(),
		Workspaces:  workspaces,
		Coordinator: coordinator,
		Allocator:   allocator,
		Flights:     flightRepo,
		Pnrs:        pnrRepo,
		Sessions:    sessionRepo,
		Quoter:      collab.NewLocalFareQuoter(),
		Issuer:      collab.NewLocalTicketIssuer(),
		CheckIn:     collab.NewLocalCheckInAgent(),
		Payments:    collab.NewLocalPaymentGateway(),
		Apis:        collab.NewLocalApisValidator(),
		SessionTTL:  cfg.SessionTTL(),
	})

	authMiddleware := middleware.NewAuthMiddleware(sessionRepo, cfg.JWTSecret, cfg.SessionTTL())

	sessionHandler := handler.NewSessionHandler(
		agentRepo, sessionRepo, workspaces, coordinator, cfg.JWTSecret, cfg.SessionTTL(),
	)
	terminalHandler := handler.NewTerminalHandler(eng)

	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(config.ServerRequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	})

	r.Route("/v1/sessions", func(r chi.Router) {
		r.Mount("/", sessionHandler.Routes())
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Handler)
			r.Post("/sign-out", sessionHandler.SignOut)
		})
	})

	r.Route("/v1/terminal", func(r chi.Router) {
		r.Use(authMiddleware.Handler)
		r.Mount("/", terminalHandler.Routes())
	})

	cleanupJob := jobs.NewCleanupJob(workspaces, coordinator, sessionRepo, eng, cfg.CleanupInterval())
	cleanupJob.Start()
	defer cleanupJob.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: 0,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
