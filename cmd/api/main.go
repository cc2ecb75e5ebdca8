// @title           Polarad Admin API
// @version         1.0
// @description     폴라라드 마케팅 운영 관리자 API

// @contact.name   API Support
// @contact.email  dev@polarad.co.kr

// @host      localhost:8080
// @BasePath  /api/admin

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"polarad-admin-api/internal/config"
	"polarad-admin-api/internal/database"
	"polarad-admin-api/internal/job"
	"polarad-admin-api/internal/metrics"
	"polarad-admin-api/internal/router"
	"polarad-admin-api/internal/util"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logger.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Polarad Admin API",
		zap.String("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("base_path", cfg.Server.BasePath),
	)

	// Initialize database (실패해도 앱은 시작됨 - pod 생존 보장)
	dbConfig := database.Config{
		DSN:             cfg.Database.GetDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	db, err := database.New(dbConfig)
	if err != nil {
		logger.Warn("Failed to connect to database on startup, will retry in background",
			zap.Error(err))
		database.NewAsync(dbConfig, 5*time.Second)
	} else {
		logger.Info("Database connected successfully")
		if err := database.SafeAutoMigrateWithRetry(db, logger, 3); err != nil {
			logger.Warn("Failed to run database migrations", zap.Error(err))
		} else {
			logger.Info("Database migrations completed")
		}
	}

	// Initialize Redis (조회 캐시/pub-sub, 없어도 동작)
	if err := database.InitRedis(cfg, logger); err != nil {
		logger.Warn("Failed to connect to redis, cache and pub/sub disabled", zap.Error(err))
	}

	// Initialize metrics
	m := metrics.NewWithLogger(logger)

	// Initialize token cipher
	cipher, err := util.NewTokenCipher(cfg.Crypto.Key)
	if err != nil {
		logger.Fatal("Failed to initialize token cipher", zap.Error(err))
	}

	// Setup router with all dependencies
	r, deps := router.Setup(cfg, db, m, cipher, logger)

	// Business metrics collector
	if db != nil {
		collector := metrics.NewBusinessMetricsCollector(db, m, logger)
		collector.Start()
		defer collector.Stop()
	}

	// Cron jobs: 계약 만료 스윕(매일 자정), 토큰 만료 스윕(매시)
	scheduler := cron.New()
	contractExpiryJob := job.NewContractExpiryJob(deps.ContractService, logger)
	tokenExpiryJob := job.NewTokenExpiryJob(deps.AdAccountService, logger)
	if _, err := scheduler.AddJob("0 0 * * *", contractExpiryJob); err != nil {
		logger.Error("Failed to schedule contract expiry job", zap.Error(err))
	}
	if _, err := scheduler.AddJob("0 * * * *", tokenExpiryJob); err != nil {
		logger.Error("Failed to schedule token expiry job", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Polarad Admin API started successfully",
			zap.String("address", srv.Addr),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

// initLogger initializes the zap logger with the specified level
func initLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      zapLevel == zapcore.DebugLevel,
		Encoding:         "json",
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	return config.Build()
}
