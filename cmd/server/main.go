package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/handyman-backend/internal/config"
	"github.com/ignatzorin/handyman-backend/internal/db"
	httpHandlers "github.com/ignatzorin/handyman-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/handyman-backend/internal/http/router"
	"github.com/ignatzorin/handyman-backend/internal/logger"
	"github.com/ignatzorin/handyman-backend/internal/repository"
	"github.com/ignatzorin/handyman-backend/internal/service"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	skillRepo := repository.NewSkillRepository(dbConn)
	bookingRepo := repository.NewBookingRepository(dbConn)
	reviewRepo := repository.NewReviewRepository(dbConn)
	earningRepo := repository.NewEarningRepository(dbConn)
	reportRepo := repository.NewReportRepository(dbConn)

	// Сервисы.
	cacheService := service.NewCacheService()
	authService := service.NewAuthService(userRepo, tokenManager)
	catalogService := service.NewCatalogService(userRepo, skillRepo, reviewRepo)
	bookingService := service.NewBookingService(bookingRepo, userRepo, skillRepo, earningRepo, cfg.PlatformFeeRate)
	reviewService := service.NewReviewService(reviewRepo, bookingRepo)
	earningService := service.NewEarningService(earningRepo)
	adminService := service.NewAdminService(userRepo, skillRepo, reportRepo)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	catalogHandler := httpHandlers.NewCatalogHandler(catalogService, cacheService)
	bookingHandler := httpHandlers.NewBookingHandler(bookingService)
	reviewHandler := httpHandlers.NewReviewHandler(reviewService, cacheService)
	earningHandler := httpHandlers.NewEarningHandler(earningService)
	adminHandler := httpHandlers.NewAdminHandler(adminService, cacheService)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, catalogHandler, bookingHandler, reviewHandler, earningHandler, adminHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
