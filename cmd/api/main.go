package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/doyeonstory/backend/internal/config"
	"github.com/doyeonstory/backend/internal/handler"
	"github.com/doyeonstory/backend/internal/model/design"
	"github.com/doyeonstory/backend/internal/observability"
	"github.com/doyeonstory/backend/internal/service/ai"
	"github.com/doyeonstory/backend/internal/service/concept"
	"github.com/doyeonstory/backend/internal/service/flow"
	"github.com/doyeonstory/backend/internal/service/imagery"
	orderservice "github.com/doyeonstory/backend/internal/service/order"
	sessionservice "github.com/doyeonstory/backend/internal/service/session"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .env is optional
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load configuration", zap.Error(err))
	}

	logger, err := newLogger(cfg.App)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file loaded, using process environment only", zap.Error(envErr))
	}

	metrics := observability.NewCollector("doyeonstory")

	var generator concept.Generator = concept.TemplateGenerator{}
	if cfg.AI.Enabled() {
		conceptService, err := ai.NewConceptService(ctx, cfg.AI, logger)
		if err != nil {
			logger.Warn("failed to initialize AI concept service, using templates only", zap.Error(err))
		} else {
			generator = concept.WithFallback(conceptService, concept.TemplateGenerator{}, logger)
			logger.Info("AI concept service initialized", zap.String("model", cfg.AI.Model))
		}
	} else {
		logger.Info("ark credentials not configured, using template concepts")
	}

	catalog := design.DefaultCatalog()
	orders := orderservice.NewService(logger.Named("order"))
	machine := flow.NewMachine(flow.Deps{
		Generator: generator,
		Images:    imagery.NewPlaceholderResolver(cfg.Image.PlaceholderBaseURL, nil),
		Catalog:   catalog,
		Orders:    orders,
		Logger:    logger.Named("flow"),
		Metrics:   metrics,
	})

	router := handler.NewRouter(handler.Deps{
		Sessions:       sessionservice.NewMemoryStore(cfg.Session.TTL),
		Machine:        machine,
		Catalog:        catalog,
		Quoter:         orders,
		Logger:         logger,
		Metrics:        metrics,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxPhotoBytes:  cfg.Session.MaxPhotoBytes,
	})

	startServer(ctx, logger, cfg.Server, router)
}

func newLogger(app config.AppConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(app.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if app.Development() {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: serverCfg.ReadHeaderTimeout,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("doyeon story backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
