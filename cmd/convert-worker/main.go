package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/sehoon/invoice-pipeline/internal/blobstore"
	"github.com/sehoon/invoice-pipeline/internal/config"
	"github.com/sehoon/invoice-pipeline/internal/converter"
	"github.com/sehoon/invoice-pipeline/internal/logger"
	"github.com/sehoon/invoice-pipeline/internal/queue"
)

const consumerGroup = "convert-workers"

func main() {
	cfg, err := config.Load("config")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewFromConfig(cfg.Logging)
	log.Info().Msg("starting conversion worker")

	ctx := context.Background()

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

	handler := converter.NewHandler(
		rawStore,
		processedStore,
		clients.Publisher(cfg.Queues.Notification),
		log,
	)

	consumer := clients.Consumer(cfg.Queues.Conversion, consumerGroup, handler)
	if err := consumer.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to start consumer")
	}

	go serveMetrics(log, ":9091")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down conversion worker")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("consumer shutdown error")
	}

	log.Info().Msg("conversion worker stopped")
}

// serveMetrics exposes /metrics and /healthz for the worker process.
func serveMetrics(log zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Str("addr", addr).Msg("metrics server error")
	}
}
