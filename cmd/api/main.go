package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/frontandrew/parking/internal/delivery/http"
	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/infrastructure/audit"
	"github.com/frontandrew/parking/internal/pkg/config"
	"github.com/frontandrew/parking/internal/pkg/database"
	"github.com/frontandrew/parking/internal/pkg/jwt"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/frontandrew/parking/internal/pkg/metrics"
	"github.com/frontandrew/parking/internal/pkg/redis"
	"github.com/frontandrew/parking/internal/repository"
	"github.com/frontandrew/parking/internal/repository/cached"
	"github.com/frontandrew/parking/internal/repository/postgres"
	"github.com/frontandrew/parking/internal/usecase/auth"
	"github.com/frontandrew/parking/internal/usecase/parking"
	"github.com/frontandrew/parking/internal/usecase/report"
	"github.com/prometheus/client_golang/prometheus"
)

const refreshTokenCleanupInterval = time.Hour

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting PARKING API server", map[string]interface{}{
		"version":      "1.0.0",
		"capacity":     cfg.Parking.Capacity,
		"tariff_table": cfg.Parking.TariffTable,
	})

	// =========================================================================
	// Подключение к PostgreSQL
	// =========================================================================

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	log.Info("Connected to PostgreSQL", map[string]interface{}{
		"host":     cfg.Database.Host,
		"port":     cfg.Database.Port,
		"database": cfg.Database.Database,
	})

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal("Failed to apply schema", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// =========================================================================
	// Создание repositories
	// =========================================================================

	userRepo := postgres.NewUserRepository(db)
	refreshTokenRepo := postgres.NewRefreshTokenRepository(db)
	lotRepo := postgres.NewParkingLotRepository(db)
	entryRepo := postgres.NewEntryRepository(db)
	cancellationRepo := postgres.NewCancellationRepository(db)

	var paymentRepo repository.PaymentRepository = postgres.NewPaymentRepository(db)

	// Redis необязателен: без него квитанции читаются напрямую из PostgreSQL
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn("Redis is not available, receipt cache disabled", map[string]interface{}{
				"error":   err.Error(),
				"address": cfg.Redis.Address(),
			})
		} else {
			defer redisClient.Close()
			paymentRepo = cached.NewPaymentRepository(paymentRepo, redisClient, cfg.Redis.CacheTTL, log)
			log.Info("Connected to Redis", map[string]interface{}{
				"address": cfg.Redis.Address(),
			})
		}
	}

	log.Info("Repositories initialized")

	// =========================================================================
	// Парковка и тарифы
	// =========================================================================

	lot, err := parking.LoadOrCreateLot(ctx, lotRepo, cfg.Parking.Name, cfg.Parking.Address, cfg.Parking.Capacity, log)
	if err != nil {
		log.Fatal("Failed to load parking lot", map[string]interface{}{
			"error": err.Error(),
		})
	}

	rates, err := cfg.Parking.Rates()
	if err != nil {
		log.Fatal("Invalid tariff configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	calculator, err := domain.NewTariffCalculator(rates)
	if err != nil {
		log.Fatal("Failed to create tariff calculator", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// =========================================================================
	// Аудит отмен
	// =========================================================================

	sinks := []audit.Sink{audit.NewLogSink(log)}
	if cfg.Audit.StoreEnabled {
		sinks = append(sinks, audit.NewStoreSink(cancellationRepo))
	}
	if cfg.Audit.WebhookURL != "" {
		webhook := audit.NewWebhookSink(cfg.Audit.WebhookURL, cfg.Audit.WebhookTimeout)

		// Проверяем доступность получателя уведомлений
		if err := webhook.Health(ctx); err != nil {
			log.Warn("Audit webhook is not available", map[string]interface{}{
				"error": err.Error(),
				"url":   cfg.Audit.WebhookURL,
			})
		}
		sinks = append(sinks, webhook)
	}
	auditSink := audit.NewMultiSink(sinks...)

	// =========================================================================
	// Метрики
	// =========================================================================

	var (
		recorder       parking.MetricsRecorder
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		rec, err := metrics.NewRecorder(prometheus.DefaultRegisterer)
		if err != nil {
			log.Fatal("Failed to register metrics", map[string]interface{}{
				"error": err.Error(),
			})
		}
		recorder = rec
		metricsHandler = metrics.Handler(prometheus.DefaultGatherer)
	}

	// =========================================================================
	// Создание JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(
		cfg.JWT.SecretKey,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	log.Info("JWT token service initialized")

	// =========================================================================
	// Создание use case services
	// =========================================================================

	lifecycle, err := parking.NewLifecycle(lot, calculator, auditSink, log)
	if err != nil {
		log.Fatal("Failed to create parking lifecycle", map[string]interface{}{
			"error": err.Error(),
		})
	}

	parkingService := parking.NewService(lifecycle, entryRepo, paymentRepo, recorder, log)
	if err := parkingService.Restore(ctx); err != nil {
		log.Fatal("Failed to restore active entries", map[string]interface{}{
			"error": err.Error(),
		})
	}

	authService := auth.NewService(userRepo, refreshTokenRepo, tokenService, log)
	reportService := report.NewService(paymentRepo, cancellationRepo, lot.Capacity, time.Local, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers и router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		deliveryHTTP.NewAuthHandler(authService, log),
		deliveryHTTP.NewParkingHandler(parkingService, log),
		deliveryHTTP.NewTariffHandler(parkingService),
		deliveryHTTP.NewReportHandler(reportService, log),
		tokenService,
		metricsHandler,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Фоновая очистка истекших refresh токенов
	// =========================================================================

	go func() {
		ticker := time.NewTicker(refreshTokenCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				deleted, err := refreshTokenRepo.DeleteExpired(ctx, now)
				if err != nil {
					log.Error("Failed to delete expired refresh tokens", map[string]interface{}{
						"error": err.Error(),
					})
					continue
				}
				if deleted > 0 {
					log.Info("Expired refresh tokens deleted", map[string]interface{}{
						"count": deleted,
					})
				}
			}
		}
	}()

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server error", map[string]interface{}{
				"error": err.Error(),
			})
		}

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		// Даем серверу 30 секунд на graceful shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully", map[string]interface{}{
			"occupied": parkingService.Occupancy().Occupied,
		})
	}
}
