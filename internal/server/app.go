// Package server wires configuration, storage, providers and the HTTP API
// into a runnable application with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/natorvoice/natorvoice/internal/logging"
	"github.com/natorvoice/natorvoice/internal/server/archive"
	"github.com/natorvoice/natorvoice/internal/server/auth"
	"github.com/natorvoice/natorvoice/internal/server/config"
	"github.com/natorvoice/natorvoice/internal/server/httpserver"
	"github.com/natorvoice/natorvoice/internal/server/metrics"
	"github.com/natorvoice/natorvoice/internal/server/repositories/repomanager"
	"github.com/natorvoice/natorvoice/internal/server/services"
	"github.com/natorvoice/natorvoice/internal/server/tts"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	logCloser io.Closer
	repos     repomanager.RepositoryManager
	server    *httpserver.HTTPServer
}

// openRepositories is replaced in tests.
var openRepositories = repomanager.Open

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, closer := logging.New(logging.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		File:       cfg.LogFile,
		MaxSizeMB:  100,
		MaxBackups: 5,
	})

	if cfg.UsesDevSecret() {
		logger.Warn(ctx, "SESSION_SECRET is not set; using the insecure development secret")
	}

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	m := metrics.New()
	registry := newRegistry(cfg)
	ledger := services.NewUsageLedger(repos.Usage(), []byte(cfg.SessionSecret), cfg.DailyCharLimit, cfg.AnonDailyCharLimit)

	var clipArchive services.AudioArchive
	store, err := archive.New(ctx, cfg)
	switch {
	case err == nil:
		clipArchive = store
		logger.Info(ctx, "clip archive enabled", "bucket", cfg.S3Bucket)
	case !errors.Is(err, archive.ErrDisabled):
		_ = repos.Close()
		_ = closer.Close()
		return nil, fmt.Errorf("archive init error: %w", err)
	}
	clips := services.NewClipService(repos.Clips(), clipArchive, logger)

	svc := httpserver.Services{
		Auth:      services.NewAuthService(repos.Users(), auth.NewIssuer([]byte(cfg.SessionSecret), cfg.SessionTTL)),
		Usage:     ledger,
		Clips:     clips,
		Synthesis: services.NewSynthesisService(registry, ledger, clips, m, logger),
		Voices:    services.NewVoiceService(registry),
	}

	return &App{
		config:    cfg,
		logger:    logger,
		logCloser: closer,
		repos:     repos,
		server:    httpserver.NewHTTPServer(cfg.ListenAddr, cfg.AllowedOrigin, logger, m, repos, svc),
	}, nil
}

// newRegistry builds a provider for every configured credential.
func newRegistry(cfg *config.Config) *tts.Registry {
	opts := []tts.Option{
		tts.WithTimeout(cfg.UpstreamTimeout),
		tts.WithLimiter(tts.NewLimiter(cfg.UpstreamRPS)),
	}

	var elevenLabs, deepgram tts.Provider
	if cfg.ElevenLabsAPIKey != "" {
		elevenLabs = tts.NewElevenLabs(cfg.ElevenLabsAPIKey, cfg.ElevenLabsModelID,
			append(opts, tts.WithBaseURL(cfg.ElevenLabsBaseURL))...)
	}
	if cfg.DeepgramAPIKey != "" {
		deepgram = tts.NewDeepgram(cfg.DeepgramAPIKey,
			append(opts, tts.WithBaseURL(cfg.DeepgramBaseURL))...)
	}
	return tts.NewRegistry(cfg.TTSProvider, elevenLabs, deepgram)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or ctx is cancelled, then
// releases storage and log resources.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "store", app.config.StoreDriver, "provider", app.config.TTSProvider)

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, "server stopped", "error", err)
	}

	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "storage close failed", "error", cerr)
	}
	app.logger.Info(ctx, "App stopped")
	_ = app.logCloser.Close()
	return err
}
