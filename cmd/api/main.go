// @title Worksheet Studio API
// @version 1.0
// @description Teacher-facing API for syllabus analysis, worksheet generation and grading.
// @host localhost:8080
// @BasePath /api
// @schemes http https
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"worksheet-studio/internal/config"
	"worksheet-studio/internal/handler"
	"worksheet-studio/internal/llm"
	"worksheet-studio/internal/logger"
	"worksheet-studio/internal/middleware"
	"worksheet-studio/internal/prompts"
	"worksheet-studio/internal/service"
	"worksheet-studio/internal/storage"

	_ "worksheet-studio/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()
		requestID, _ := c.Locals(middleware.RequestIDKey).(string)

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("request_id", requestID),
			zap.String("ip", c.IP()),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if err := logger.Initialize(cfg); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Prompt templates and model parameters, loaded and validated once.
	promptStore, err := prompts.Load(cfg.Prompts.Path)
	if err != nil {
		appLogger.Fatal("Failed to load prompts", zap.Error(err))
	}
	appLogger.Info("Prompt store loaded", zap.String("path", cfg.Prompts.Path))

	// Flat-file store; bootstraps its namespace directories.
	store, err := storage.NewFileStore(cfg.Storage.DataDir)
	if err != nil {
		appLogger.Fatal("Failed to initialize file store", zap.Error(err))
	}
	appLogger.Info("File store initialized", zap.String("data_dir", cfg.Storage.DataDir))

	gateway, err := llm.NewClient(cfg.OpenRouter)
	if err != nil {
		appLogger.Fatal("Failed to create LLM gateway", zap.Error(err))
	}
	appLogger.Info("LLM gateway initialized", zap.String("base_url", cfg.OpenRouter.BaseURL))

	// Initialize services
	syllabusService := service.NewSyllabusService(gateway, promptStore, store)
	worksheetService := service.NewWorksheetService(gateway, promptStore, store,
		syllabusService, cfg.Storage.WorksheetTemplate)
	gradingService := service.NewGradingService(gateway, promptStore, store)

	// Initialize handlers
	syllabusHandler := handler.NewSyllabusHandler(syllabusService)
	worksheetHandler := handler.NewWorksheetHandler(worksheetService)
	gradingHandler := handler.NewGradingHandler(gradingService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	apiGroup := app.Group("/api")

	syllabusGroup := apiGroup.Group("/syllabus")
	syllabusGroup.Post("/analyze", syllabusHandler.AnalyzeSyllabus)
	syllabusGroup.Get("/:grade/:subject", syllabusHandler.LoadSyllabus)

	worksheetGroup := apiGroup.Group("/worksheets")
	worksheetGroup.Post("/", worksheetHandler.GenerateWorksheet)
	worksheetGroup.Get("/", worksheetHandler.ListWorksheets)
	worksheetGroup.Get("/:filename", worksheetHandler.ViewWorksheet)

	gradingGroup := apiGroup.Group("/grading")
	gradingGroup.Post("/text", gradingHandler.GradeText)
	gradingGroup.Post("/vision", gradingHandler.GradeVision)

	go func() {
		appLogger.Info("Starting server",
			zap.Int("port", cfg.Server.Port),
			zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
