package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"survey-spider/internal/adapter"
	"survey-spider/internal/cache"
	"survey-spider/internal/config"
	"survey-spider/internal/database"
	"survey-spider/internal/domain"
	"survey-spider/internal/handler"
	"survey-spider/internal/logger"
	"survey-spider/internal/middleware"
	"survey-spider/internal/repository"
	"survey-spider/internal/schema"
	"survey-spider/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewSQLXSQLiteDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	registry, err := schema.Load(cfg.Survey.SchemaPath)
	if err != nil {
		log.Fatal("Failed to load survey document", zap.Error(err))
	}
	log.Info("Survey document loaded",
		zap.String("path", cfg.Survey.SchemaPath),
		zap.Int("roles", len(registry.Roles())),
		zap.Int("categories", len(registry.Categories())))

	// Reports are served from Redis when it is configured; without it
	// every view renders on demand.
	var reportCache domain.Cache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		reportCache = adapter.NewRedisCacheAdapter(redisClient)
		log.Info("Report cache enabled", zap.String("address", cfg.Redis.Address))
	} else {
		log.Info("Report cache disabled, no Redis address configured")
	}

	responseRepo := repository.NewSQLXResponseRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)
	aggregator := service.NewAggregator(responseRepo, registry)

	surveyService := service.NewSurveyService(responseRepo, txManager, registry, reportCache)
	reportService := service.NewReportService(responseRepo, aggregator, registry, reportCache, cfg.Survey.ReportCacheTTL)

	surveyHandler := handler.NewSurveyHandler(surveyService, registry)
	reportHandler := handler.NewReportHandler(reportService)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.RequestLogger())

	api := app.Group("/api")
	api.Get("/schema", surveyHandler.GetSchema)
	api.Post("/responses", surveyHandler.SubmitResponse)
	api.Get("/responses/:id", reportHandler.GetResponse)
	api.Get("/reports/roles/:role", reportHandler.GetRoleReport)
	api.Get("/reports/teams/:team", reportHandler.GetTeamReport)
	api.Get("/reports/overall", reportHandler.GetOverallReport)
	api.Get("/dashboard", reportHandler.GetDashboard)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		log.Info("Starting server", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			log.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
	log.Info("Server exited")
}
