package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fooddash/internal/api/http"
	"github.com/spec-kit/fooddash/internal/api/http/handlers"
	"github.com/spec-kit/fooddash/internal/api/http/views"
	"github.com/spec-kit/fooddash/internal/auth"
	"github.com/spec-kit/fooddash/internal/backend"
	"github.com/spec-kit/fooddash/internal/config"
	"github.com/spec-kit/fooddash/internal/events"
	"github.com/spec-kit/fooddash/internal/observability"
	"github.com/spec-kit/fooddash/internal/persistence"
	"github.com/spec-kit/fooddash/internal/service"
	"github.com/spec-kit/fooddash/internal/session"
	"github.com/spec-kit/fooddash/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.App, cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	storage, closeStorage, err := persistence.Open(ctx, *cfg, logger)
	if err != nil {
		logger.Fatal("failed to open session storage", zap.Error(err))
	}
	defer closeStorage()

	dispatcher := events.NewInMemoryDispatcher()
	store := session.New(storage, dispatcher, logger,
		session.WithKey(cfg.Session.TokenKey),
		session.WithMetrics(metrics),
	)

	audit := service.NewAuditService(logger)
	worker.StartAuditWorker(audit, store)

	store.Initialize(ctx)
	logger.Info("session initialized", zap.String("state", string(store.State())))

	client := backend.New(cfg.Backend, store, logger)
	interpreter := auth.NewInterpreter(logger, metrics)

	renderer, err := views.NewRenderer()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:  logger,
		Metrics: metrics,
		Timeout: cfg.App.RequestTimeout(),
		Views:   renderer,
		Viewers: auth.NewViewerMiddleware(store, interpreter),
		CSRF: auth.CSRFConfig{
			Expiration:   cfg.App.CSRFTokenTTL(),
			SecureCookie: cfg.App.SecureCookies,
		},
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, storage),
		Auth:    handlers.NewAuthHandler(service.NewAuthService(client, store, logger), renderer),
		Catalog: handlers.NewCatalogHandler(service.NewCatalogService(client), renderer, logger),
		Profile: handlers.NewProfileHandler(service.NewProfileService(client), renderer),
		Metrics: metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
