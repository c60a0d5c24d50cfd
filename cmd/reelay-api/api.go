// Package main provides the Reelay API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/reelay/reelay/pkg/persistence"
	"github.com/reelay/reelay/pkg/services"
	"github.com/reelay/reelay/pkg/web"
	"github.com/reelay/reelay/pkg/workflow"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	executor    *workflow.Executor
	assistant   services.Assistant
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	executor *workflow.Executor,
	assistant services.Assistant,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		executor:    executor,
		assistant:   assistant,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	workflowService := services.NewWorkflow(a.persistence)
	chatService := services.NewChat(a.persistence, a.assistant, workflowService)

	handlers := web.NewAPIHandlers(workflowService, chatService, a.executor, a.persistence, a.validate, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Reelay API")
	})

	api := app.Group("/api")
	api.Get("/stats", handlers.GetStats)

	w := api.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Patch("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/execute", handlers.ExecuteWorkflow)

	api.Get("/videos", handlers.GetVideos)
	api.Get("/videos/:id", handlers.GetVideo)
	api.Get("/runs", handlers.GetRuns)
	api.Get("/logs", handlers.GetLogs)

	api.Post("/chat", handlers.Chat)
	api.Delete("/chat/:sessionId", handlers.ClearChat)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(ctx context.Context, port int) error {
	app := a.App()

	go func() {
		<-ctx.Done()

		err := app.Shutdown()
		if err != nil {
			a.logger.Error("Failed to shut down API server", "error", err)
		}
	}()

	return app.Listen(":" + strconv.Itoa(port))
}
