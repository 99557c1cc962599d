package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/package-tracking/internal/api/http"
	"github.com/spec-kit/package-tracking/internal/api/http/handlers"
	"github.com/spec-kit/package-tracking/internal/auth"
	"github.com/spec-kit/package-tracking/internal/config"
	"github.com/spec-kit/package-tracking/internal/events"
	"github.com/spec-kit/package-tracking/internal/observability"
	"github.com/spec-kit/package-tracking/internal/persistence"
	"github.com/spec-kit/package-tracking/internal/repository"
	"github.com/spec-kit/package-tracking/internal/service"
	"github.com/spec-kit/package-tracking/internal/worker"
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

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	packageRepo := repository.NewPackageRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	fileRepo := repository.NewPackageFileRepository(pool)
	historyRepo := repository.NewStatusHistoryRepository(pool)
	logistRepo := repository.NewLogistRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	unitOfWork := repository.NewUnitOfWork(pool)

	trackingCache := persistence.NewTrackingCache(redis, cfg.Redis.TrackingCacheTTL)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		PasswordResetRepo: resetRepo,
		Dispatcher:        dispatcher,
	})
	packageService := service.NewPackageService(service.PackageDependencies{
		PackageRepo: packageRepo,
		MessageRepo: messageRepo,
		FileRepo:    fileRepo,
		HistoryRepo: historyRepo,
		UserRepo:    userRepo,
		LogistRepo:  logistRepo,
		UnitOfWork:  unitOfWork,
		Tracking:    trackingCache,
		Dispatcher:  dispatcher,
	})
	adminService := service.NewAdminService(*cfg, service.AdminDependencies{
		UserRepo:   userRepo,
		LogistRepo: logistRepo,
	})
	notificationService := service.NewNotificationService(dispatcher, notificationRepo, userRepo, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Users:          handlers.NewUsersHandler(authService),
		Packages:       handlers.NewPackagesHandler(packageService),
		Tracking:       handlers.NewTrackingHandler(packageService),
		Admin:          handlers.NewAdminHandler(adminService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		AuthMiddleware: authMiddleware,
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
