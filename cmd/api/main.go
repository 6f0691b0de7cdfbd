package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/sejin/dispatch-platform/internal/api/http"
	"github.com/sejin/dispatch-platform/internal/api/http/handlers"
	"github.com/sejin/dispatch-platform/internal/auth"
	"github.com/sejin/dispatch-platform/internal/config"
	"github.com/sejin/dispatch-platform/internal/events"
	"github.com/sejin/dispatch-platform/internal/observability"
	"github.com/sejin/dispatch-platform/internal/persistence"
	"github.com/sejin/dispatch-platform/internal/repository"
	"github.com/sejin/dispatch-platform/internal/service"
	"github.com/sejin/dispatch-platform/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// Weak or missing signing secrets must kill the process here, not fail
	// the first request.
	tokenManager, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL(), cfg.Auth.RefreshTokenTTL())
	if err != nil {
		logger.Fatal("token manager misconfigured", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dispatcher := events.NewInMemoryDispatcher()
	auditWorker := worker.NewAuditWorker(redis, cfg.Audit, logger)
	auditWorker.Start(dispatcher)
	defer auditWorker.Stop()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		AccountRepo: accountRepo,
		Tokens:      tokenManager,
		Dispatcher:  dispatcher,
		Redis:       redis,
	}, logger)
	orderService := service.NewOrderService(orderRepo, accountRepo, dispatcher)
	authenticator := auth.NewAuthenticator(tokenManager, logger, dispatcher)

	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimitBytes,
		ErrorHandler: httptransport.ErrorHandler(logger, metrics),
	})
	httptransport.RegisterMiddlewares(app, cfg.App, logger, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService),
		Accounts:      handlers.NewAccountsHandler(authService),
		Orders:        handlers.NewOrdersHandler(orderService),
		Authenticator: authenticator,
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
