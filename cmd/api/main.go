package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/hospital_scheduler/internal/app"
	"github.com/Freeeeeet/hospital_scheduler/internal/auth"
	"github.com/Freeeeeet/hospital_scheduler/internal/cache"
	"github.com/Freeeeeet/hospital_scheduler/internal/config"
	"github.com/Freeeeeet/hospital_scheduler/internal/controller"
	"github.com/Freeeeeet/hospital_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository"
	"github.com/Freeeeeet/hospital_scheduler/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting hospital scheduler",
		zap.String("environment", cfg.Environment),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("timezone", cfg.Location.String()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// База данных
	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create connection pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Миграции
	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("Failed to close migrator", zap.Error(err))
	}

	// Кэш свободных слотов, без Redis работаем напрямую с БД
	var slotCache service.SlotCache = service.NopSlotCache{}
	if cfg.CacheEnabled() {
		redisCache, err := cache.Connect(ctx, cache.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			TTL:      cfg.SlotCacheTTL,
		}, logger)
		if err != nil {
			logger.Warn("Redis unavailable, slot cache disabled", zap.Error(err))
		} else {
			defer redisCache.Close()
			slotCache = redisCache
		}
	}

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)

	store := service.NewPostgresStore(repository.NewStore(pool))

	userService := service.NewUserService(store, tokens, cfg.AdminEmails, logger)
	bookingService := service.NewBookingService(store, slotCache, logger)
	patientService := service.NewPatientService(store, logger)
	doctorService := service.NewDoctorService(store, logger)
	generator := service.NewSlotGenerator(store, slotCache, cfg.Location, logger)

	// Фоновая генерация слотов
	scheduler := app.NewScheduler(generator, cfg.SlotGenerationSchedule, cfg.Location, logger)
	if err := scheduler.Start(ctx); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}

	h := handlers.NewHandlers(userService, bookingService, patientService, doctorService, tokens, logger)
	router := controller.NewRouter(h, controller.RouterOptions{
		AllowOrigins: cfg.CORSAllowOrigins,
		Production:   cfg.IsProduction(),
	}, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}

	scheduler.Stop()

	logger.Info("Server stopped")
}
