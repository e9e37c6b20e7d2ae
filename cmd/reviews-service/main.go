package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HusseinMoukalled/meetingroom/internal/reviews/client"
	"github.com/HusseinMoukalled/meetingroom/internal/reviews/handler"
	"github.com/HusseinMoukalled/meetingroom/internal/reviews/repository"
	"github.com/HusseinMoukalled/meetingroom/internal/reviews/service"
	"github.com/HusseinMoukalled/meetingroom/pkg/auth"
	"github.com/HusseinMoukalled/meetingroom/pkg/breaker"
	"github.com/HusseinMoukalled/meetingroom/pkg/config"
	"github.com/HusseinMoukalled/meetingroom/pkg/database"
	"github.com/HusseinMoukalled/meetingroom/pkg/httpclient"
	"github.com/HusseinMoukalled/meetingroom/pkg/logger"
	"github.com/HusseinMoukalled/meetingroom/pkg/middleware"
	"github.com/HusseinMoukalled/meetingroom/pkg/telemetry"
)

func main() {
	cfg, err := config.LoadService("reviews-service", 8004)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logCfg := &logger.Config{
		Level:       cfg.App.LogLevel,
		ServiceName: "reviews-service",
		Development: cfg.IsDevelopment(),
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting Reviews Service...")

	ctx := context.Background()

	if _, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
	}); err != nil {
		appLog.Fatal(fmt.Sprintf("Telemetry init failed: %v", err))
	}
	defer telemetry.Shutdown(ctx)

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MinConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info("Database connected")

	breakers := breaker.NewRegistry(breaker.Config{
		FailureThreshold:  cfg.Breaker.FailureThreshold,
		RecoveryTimeout:   cfg.Breaker.RecoveryTimeout,
		HalfOpenSuccesses: cfg.Breaker.HalfOpenSuccesses,
		IsFailure:         httpclient.IsFailure,
	}, appLog)

	usersHTTP := httpclient.New("users-service", cfg.Services.UsersServiceURL, cfg.Client.Timeout, breakers)
	roomsHTTP := httpclient.New("rooms-service", cfg.Services.RoomsServiceURL, cfg.Client.Timeout, breakers)

	reviewRepo := repository.NewPostgresReviewRepository(db.Pool())
	reviewSvc := service.NewReviewService(
		reviewRepo,
		client.NewUsersClient(usersHTTP),
		client.NewRoomsClient(roomsHTTP),
	)
	reviewHandler := handler.NewReviewHandler(reviewSvc)

	tokens := auth.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL, cfg.JWT.Issuer)
	authn := middleware.Auth(tokens)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(appLog))
	router.Use(middleware.APIVersion())
	router.Use(middleware.RateLimit(middleware.NewSlidingWindowLimiter(), middleware.DefaultRules()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "reviews-service"})
	})
	router.GET("/ready", func(c *gin.Context) {
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	middleware.Mirror(router, func(r gin.IRouter) {
		reviewHandler.RegisterRoutes(r, authn)
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLog.Info(fmt.Sprintf("Reviews Service listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
