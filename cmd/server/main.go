package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirelens/assessment-service/internal/cache"
	"github.com/hirelens/assessment-service/internal/config"
	"github.com/hirelens/assessment-service/internal/grading"
	"github.com/hirelens/assessment-service/internal/handlers"
	"github.com/hirelens/assessment-service/internal/repositories/postgres"
	"github.com/hirelens/assessment-service/internal/services"
	"github.com/hirelens/assessment-service/internal/utils"
	"github.com/hirelens/assessment-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	logger.Info("Starting assessment service", "environment", cfg.Environment, "port", cfg.Port)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}

	redisClient, err := pkg.NewRedisClient(cfg)
	if err != nil {
		logger.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	eventCfg := config.LoadEventConfig()
	publisher, err := eventCfg.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Error("Failed to create event publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()

	llmClient := grading.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	validator := utils.NewValidator()

	serviceManager := services.NewServiceManager(services.ManagerDeps{
		Repo:      postgres.NewRepository(db),
		Cache:     cache.NewRedisCache(redisClient, logger),
		Publisher: publisher,
		Grader:    llmClient,
		Reporter:  llmClient,
		Generator: llmClient,
		Logger:    logger,
		Validator: validator,
		Scoring:   cfg.Scoring,
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(serviceManager, validator, logger)
	handlerManager.SetupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
