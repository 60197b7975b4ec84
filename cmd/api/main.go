package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/registro-go-api/internal/config"
	"github.com/noah-isme/registro-go-api/internal/database"
	"github.com/noah-isme/registro-go-api/internal/handler"
	"github.com/noah-isme/registro-go-api/internal/middleware"
	"github.com/noah-isme/registro-go-api/internal/models"
	"github.com/noah-isme/registro-go-api/internal/repository"
	"github.com/noah-isme/registro-go-api/internal/router"
	"github.com/noah-isme/registro-go-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectSQLite(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	if err := db.AutoMigrate(&models.ScheduledActivity{}, &models.AuditLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var events *nats.Conn
	if cfg.NATSServerURL != "" {
		events, err = nats.Connect(cfg.NATSServerURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer events.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	authenticator := service.NewCodeAuthenticator(cfg.AdminCode)

	scheduleRepo := repository.NewScheduleRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	scheduleService := service.NewScheduleService(scheduleRepo, validate, logger)
	adminService := service.NewAdminService(scheduleRepo, auditRepo, validate, events, cfg.AuditSubject, logger)
	exportService := service.NewExportService(scheduleRepo, logger)
	summaryService := service.NewSummaryService(scheduleRepo, redisClient, cfg.SummaryCacheTTL, logger)

	scheduleHandler := handler.NewScheduleHandler(scheduleService, summaryService, logger)
	adminHandler := handler.NewAdminHandler(adminService, authenticator, logger)
	exportHandler := handler.NewExportHandler(exportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ScheduleHandler: scheduleHandler,
		AdminHandler:    adminHandler,
		ExportHandler:   exportHandler,
		AdminMiddleware: middleware.AdminOnly(authenticator),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
