package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-orchestrator/internal/config"
	"ai-orchestrator/internal/database"
	"ai-orchestrator/internal/domain"
	"ai-orchestrator/internal/handler"
	"ai-orchestrator/internal/repository"
	"ai-orchestrator/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	// Логгер
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Конфиг
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warnf(".env not found: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	// Журнал отправок: Postgres при заданном DATABASE_URL, иначе память
	var journal domain.DispatchJournal
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgresDB(cfg)
		if err != nil {
			logger.Fatalf("Database connection failed: %v", err)
		}
		defer db.Close()
		logger.Info("Database connected")
		journal = repository.NewPostgresJournal(db)
	} else {
		logger.Info("DATABASE_URL is empty, using in-memory dispatch journal")
		journal = repository.NewMemoryJournal()
	}

	// Репозитории
	jiraRepo := repository.NewJiraRepository(cfg)
	docsRepo := repository.NewConfluenceRepository(cfg)
	agentRepo := repository.NewAgentRepository(cfg)
	configStore := repository.NewEnvConfigStore()

	// Use Cases
	resolver := usecase.NewConfigResolver(configStore)
	compiler := usecase.NewContextCompiler(docsRepo, cfg.ConfluenceSpaceKey)
	orchestratorUC := usecase.NewRouter(resolver, compiler, agentRepo, jiraRepo, journal, cfg.MaxReviewCycles, logger)
	webhookUC := usecase.NewWebhookUseCase(jiraRepo, logger)

	// Echo + Handlers
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(handler.LoggingMiddleware(logger))

	// Handlers
	apiHandler := handler.NewAPIHandler(orchestratorUC, logger)
	apiHandler.RegisterRoutes(e)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// Регистрация вебхуков в трекере. Сбой не фатален: подписки можно
	// завести вручную, сервис при этом полностью работоспособен.
	if cfg.WebhookEnabled {
		registerCtx, cancelRegister := context.WithTimeout(context.Background(), 30*time.Second)
		if err := webhookUC.EnsureRegistered(registerCtx, cfg.WebhookBaseURL, cfg.WebhookJQLFilter); err != nil {
			logger.WithError(err).Warn("Webhook registration failed, configure tracker subscriptions manually")
		}
		cancelRegister()
	}

	// Запуск сервера
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Infof("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatalf("Shutdown failed: %v", err)
	}

	logger.Info("Server exited")
}
