// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"parksense/internal/adapter/storage"
	"parksense/internal/config"
	"parksense/internal/server"
	profileservice "parksense/internal/service/profile"
	"parksense/internal/service/scoring"
	"parksense/internal/service/suggestion"
)

func main() {
	// Load .env file if it exists
	godotenv.Load()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "parksense-api").Logger()
	if os.Getenv("APP_ENV") == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()

	// Connect to PostgreSQL
	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
		cfg.Database.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse database config")
	}
	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping database")
	}
	logger.Info().Str("host", cfg.Database.Host).Msg("connected to database")

	// Connect to NATS. The engine works without it; served events and the
	// live feed are simply disabled.
	natsConn, err := nats.Connect(cfg.NATS.URL,
		nats.MaxReconnects(cfg.NATS.MaxReconnects),
		nats.ReconnectWait(cfg.NATS.ReconnectWait),
		nats.Timeout(cfg.NATS.ConnectTimeout),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("nats disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("nats reconnected")
		}),
	)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to connect to nats, events disabled")
		natsConn = nil
	} else {
		defer natsConn.Close()
		logger.Info().Str("url", cfg.NATS.URL).Msg("connected to nats")
	}

	// Storage adapters
	spaceStore := storage.NewSpaceStore(pool)
	bookingStore := storage.NewBookingStore(pool)
	searchStore := storage.NewSearchStore(pool)

	// Services
	profiles := profileservice.NewService(bookingStore, logger)
	locationScorer := scoring.NewLocationScorer(bookingStore, searchStore, logger)
	recentSelector := scoring.NewRecentSelector(bookingStore, searchStore, profiles, locationScorer, logger)
	resolver := suggestion.NewResolver(searchStore, logger)
	suggestionService := suggestion.NewService(
		spaceStore,
		bookingStore,
		profiles,
		resolver,
		natsConn,
		suggestion.Config{EventsTopic: cfg.Suggestion.EventsTopic},
		logger,
	)

	// HTTP server
	srv := server.NewServer(
		cfg.Server,
		cfg.Auth.TokenSecret,
		cfg.Suggestion.EventsTopic,
		natsConn,
		suggestionService,
		recentSelector,
		logger,
	)

	go func() {
		logger.Info().Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil {
			logger.Error().Err(err).Msg("server stopped")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
