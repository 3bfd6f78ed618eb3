// Package httpserver exposes the NatorVoice JSON API over HTTP using gin.
package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/natorvoice/natorvoice/internal/logging"
	"github.com/natorvoice/natorvoice/internal/server/metrics"
	"github.com/natorvoice/natorvoice/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

// Pinger reports backend health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Services bundles the business logic the handlers call.
type Services struct {
	Auth      *services.AuthService
	Usage     *services.UsageLedger
	Clips     *services.ClipService
	Synthesis *services.SynthesisService
	Voices    *services.VoiceService
}

// HTTPServer serves the API.
type HTTPServer struct {
	address       string
	allowedOrigin string
	logger        logging.Logger
	metrics       *metrics.Metrics
	health        Pinger
	svc           Services
	engine        *gin.Engine
}

// NewHTTPServer builds the server and its routes.
func NewHTTPServer(address, allowedOrigin string, l logging.Logger, m *metrics.Metrics, health Pinger, svc Services) *HTTPServer {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	s := &HTTPServer{
		address:       address,
		allowedOrigin: allowedOrigin,
		logger:        l.With("module", "http_server"),
		metrics:       m,
		health:        health,
		svc:           svc,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the root handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		s.requestLogger(),
		gin.CustomRecoveryWithWriter(io.Discard, s.recoverPanic),
		s.cors(),
	)

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	api.GET("/voices", s.listVoices)
	api.POST("/tts", s.optionalUser(), s.synthesize)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.GET("/me", s.requireUser(), s.me)

	api.GET("/clips", s.requireUser(), s.listClips)
	api.POST("/clips", s.requireUser(), s.saveClip)
	api.GET("/clips/:id/audio", s.requireUser(), s.clipAudio)

	api.GET("/usage", s.requireUser(), s.usage)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found."})
	})
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
