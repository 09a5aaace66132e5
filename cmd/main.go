package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"medbrain/config"
	"medbrain/controllers"
	"medbrain/routes"
	"medbrain/services"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := newLogger(cfg)
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	db, err := config.ConnectDB(cfg)
	if err != nil {
		sugar.Fatalf("database: %v", err)
	}

	users := services.NewUserService(db)
	auth := services.NewAuthService(db)
	metrics := services.NewMetricService(db, sugar)
	insights := services.NewInsightService(db)
	community := services.NewCommunityService(db)
	aiClient := services.NewAIClient(cfg.AIServiceURL, cfg.AIServiceTimeout, sugar)
	hub := services.NewRealtimeHub()

	// Push is optional: without AWS credentials the service runs fine,
	// insight events still reach websockets.
	var push *services.PushService
	if cfg.SNSFCMArn != "" || cfg.SNSAPNSArn != "" {
		push, err = services.NewPushService(db, cfg.AWSRegion, cfg.SNSFCMArn, cfg.SNSAPNSArn, sugar)
		if err != nil {
			sugar.Warnf("push notifications disabled: %v", err)
			push = nil
		}
	}

	notifier := services.NewNotifier(hub, push, sugar)
	analysis := services.NewAnalysisService(metrics, insights, aiClient, notifier, sugar)

	router := routes.SetupRouter(cfg, routes.Controllers{
		Health:    controllers.NewHealthController(aiClient),
		Auth:      controllers.NewAuthController(auth, users, cfg),
		Users:     controllers.NewUserController(users),
		Metrics:   controllers.NewMetricsController(metrics, users),
		AI:        controllers.NewAIController(analysis, insights, users),
		Community: controllers.NewCommunityController(community, users),
		Devices:   controllers.NewDeviceController(push),
		Realtime:  controllers.NewRealtimeController(hub),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		sugar.Infof("listening on :%s (env=%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	sugar.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorf("shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newLogger(cfg *config.Config) *zap.Logger {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	return logger
}
