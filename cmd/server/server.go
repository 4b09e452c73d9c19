package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"upload-gateway/internal/config"
	"upload-gateway/internal/domain/upload"
	"upload-gateway/internal/infrastructure/auth"
	"upload-gateway/internal/infrastructure/logger"
	"upload-gateway/internal/infrastructure/observability"
	"upload-gateway/internal/infrastructure/storage"
	"upload-gateway/internal/infrastructure/taskqueue"
	"upload-gateway/internal/interfaces/httpserver"
)

// Application hosts the HTTP server lifecycle.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	store, err := storage.NewGCSStore(ctx, cfg.Bucket, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize object store")
	}
	defer store.Close()

	queue, err := taskqueue.NewCloudTasksQueue(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize task queue")
	}
	defer queue.Close()

	verifier, err := auth.NewGoogleVerifier(ctx, cfg.PushAudience)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize token verifier")
	}
	authenticator := auth.NewAuthenticator(verifier, cfg, log)

	issuer := upload.NewGrantIssuer(cfg, store, log)
	uploader := upload.NewUploader(cfg, store, log)
	filter := upload.NewFilter(cfg)
	dispatcher := upload.NewDispatcher(queue, log)

	httpServer := httpserver.New(cfg, log, issuer, uploader, filter, dispatcher, authenticator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
