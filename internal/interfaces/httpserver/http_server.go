package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"upload-gateway/internal/config"
	"upload-gateway/internal/domain/upload"
	"upload-gateway/internal/infrastructure/auth"
	"upload-gateway/internal/interfaces/httpserver/handlers"
	"upload-gateway/internal/interfaces/httpserver/middlewares"
)

// HttpServer wraps the gin engine with graceful shutdown helpers.
type HttpServer struct {
	cfg    *config.Config
	engine *gin.Engine
	log    zerolog.Logger
}

// New constructs the HTTP server with default middleware and routes.
func New(cfg *config.Config, log zerolog.Logger, issuer *upload.GrantIssuer, uploader *upload.Uploader, filter *upload.Filter, dispatcher *upload.Dispatcher, authenticator *auth.Authenticator) *HttpServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), gin.Logger(), middlewares.MetricsRecorder())

	provider := handlers.NewProvider(issuer, uploader, filter, dispatcher, log)
	registerRoutes(engine, cfg, provider, authenticator)

	return &HttpServer{
		cfg:    cfg,
		engine: engine,
		log:    log,
	}
}

// Run starts the HTTP listener and handles graceful shutdown via context
// cancellation.
func (s *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("upload gateway HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// Handler exposes the underlying engine, mainly for tests.
func (s *HttpServer) Handler() http.Handler {
	return s.engine
}

func registerRoutes(engine *gin.Engine, cfg *config.Config, provider *handlers.Provider, authenticator *auth.Authenticator) {
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": cfg.ServiceName})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	engine.POST("/upload", provider.Upload.Direct)
	engine.POST("/uploadSignedUrl", provider.Upload.SignedURL)
	engine.POST("/uploadResumable", provider.Upload.Resumable)

	// Filtering and dispatch must never run for an unauthenticated push.
	engine.POST("/uploadNotification", authenticator.Middleware(), provider.Notification.Receive)
}
