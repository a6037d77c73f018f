package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fgcbrasil/platform-backend/config"
	"github.com/fgcbrasil/platform-backend/db"
	"github.com/fgcbrasil/platform-backend/handlers"
	"github.com/fgcbrasil/platform-backend/live"
	"github.com/fgcbrasil/platform-backend/middleware"
	"github.com/fgcbrasil/platform-backend/repositories"
	api "github.com/fgcbrasil/platform-backend/routes"
	"github.com/fgcbrasil/platform-backend/services"
	"github.com/fgcbrasil/platform-backend/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Сериализуемые транзакции с повтором при конфликтах
	txRunner := db.NewSerializableRunner(dbConn, logger)

	// Инициализация загрузчика файлов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	// Инициализация WebSocket Hub
	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	orgRepo := repositories.NewPostgresOrganizationRepository(dbConn)
	champRepo := repositories.NewPostgresChampionshipRepository(dbConn)
	raffleRepo := repositories.NewPostgresRaffleRepository(dbConn)
	contributionRepo := repositories.NewPostgresContributionRepository(dbConn)
	donationRepo := repositories.NewPostgresDonationRepository(dbConn)
	missionRepo := repositories.NewPostgresMissionRepository(dbConn)
	rankingConfigRepo := repositories.NewPostgresRankingConfigRepository(dbConn)
	supportRepo := repositories.NewPostgresSupportTicketRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	authService := services.NewAuthService(txRunner, userRepo, orgRepo)
	userService := services.NewUserService(userRepo, cloudflareUploader)
	orgService := services.NewOrganizationService(orgRepo, cloudflareUploader)
	champService := services.NewChampionshipService(txRunner, champRepo, orgRepo)
	finalizeService := services.NewFinalizeService(txRunner, champRepo, userRepo, wsHub, logger)
	raffleService := services.NewRaffleService(txRunner, raffleRepo, userRepo, logger)
	contributionService := services.NewContributionService(txRunner, contributionRepo, donationRepo, userRepo)
	missionService := services.NewMissionService(txRunner, missionRepo, userRepo)
	rankingService := services.NewRankingService(userRepo, rankingConfigRepo, logger)
	supportService := services.NewSupportService(supportRepo)
	logger.Info("Services initialized")

	// Инициализация обработчиков HTTP
	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey, userRepo)
	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	userHandler := handlers.NewUserHandler(userService)
	orgHandler := handlers.NewOrganizationHandler(orgService)
	champHandler := handlers.NewChampionshipHandler(champService, finalizeService)
	raffleHandler := handlers.NewRaffleHandler(raffleService)
	missionHandler := handlers.NewMissionHandler(missionService)
	contributionHandler := handlers.NewContributionHandler(contributionService)
	rankingHandler := handlers.NewRankingHandler(rankingService)
	supportHandler := handlers.NewSupportHandler(supportService)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub)
	logger.Info("HTTP handlers initialized")

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		authenticator,
		authHandler,
		userHandler,
		orgHandler,
		champHandler,
		raffleHandler,
		missionHandler,
		contributionHandler,
		rankingHandler,
		supportHandler,
		webSocketHandler,
	)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
