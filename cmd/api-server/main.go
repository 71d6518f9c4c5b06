package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sehoon/invoice-pipeline/internal/api"
	"github.com/sehoon/invoice-pipeline/internal/auth"
	"github.com/sehoon/invoice-pipeline/internal/blobstore"
	"github.com/sehoon/invoice-pipeline/internal/config"
	"github.com/sehoon/invoice-pipeline/internal/ingest"
	"github.com/sehoon/invoice-pipeline/internal/logger"
	"github.com/sehoon/invoice-pipeline/internal/queue"
	"github.com/sehoon/invoice-pipeline/internal/storage"
)

func main() {
	cfg, err := config.Load("config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewFromConfig(cfg.Logging)
	log.Info().Msg("starting API server")

	ctx := context.Background()

	db, err := storage.NewDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()
	log.Info().Msg("database connection established")

	clients, err := queue.Connect(ctx, cfg.Queue, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to queue broker")
	}
	defer clients.Close()

	rawStore, err := blobstore.New(cfg.Blobs, blobstore.CollectionRaw, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create raw blob store")
	}
	processedStore, err := blobstore.New(cfg.Blobs, blobstore.CollectionProcessed, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create processed blob store")
	}

	jwtService := auth.NewJWTService(cfg.Auth)
	if cfg.Auth.SigningKey == "" {
		log.Warn().Msg("JWT signing key is not set; set INVOICE_PIPELINE_AUTH_SIGNING_KEY in production")
	}

	ingestSvc := ingest.NewService(rawStore, clients.Publisher(cfg.Queues.Conversion), log)

	router := api.NewRouter(api.RouterConfig{
		Users:       storage.NewUserStore(db),
		JWTService:  jwtService,
		TokenExpiry: cfg.Auth.TokenExpiry,
		Ingest:      ingestSvc,
		Processed:   processedStore,
		Readiness: map[string]api.Pinger{
			"database": db,
			"queue":    clients,
		},
		Log: log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.API.ReadTimeout,
		WriteTimeout: cfg.API.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("API server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("API server stopped")
}
