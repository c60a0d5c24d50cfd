// Package web provides HTTP handlers and REST API endpoints for the
// automation dashboard.
package web

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/reelay/reelay/pkg/models"
	"github.com/reelay/reelay/pkg/persistence"
	"github.com/reelay/reelay/pkg/services"
	"github.com/reelay/reelay/pkg/workflow"
)

const defaultListLimit = 50

type APIHandlers struct {
	workflowService *services.Workflow
	chatService     *services.Chat
	executor        *workflow.Executor
	persistence     persistence.Persistence
	validator       *validator.Validate
	logger          *slog.Logger
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	chatService *services.Chat,
	executor *workflow.Executor,
	store persistence.Persistence,
	validator *validator.Validate,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		workflowService: workflowService,
		chatService:     chatService,
		executor:        executor,
		persistence:     store,
		validator:       validator,
		logger:          logger.With("module", "web"),
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Reelay API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if repOk {
		status = "healthy"
		message = "Reelay API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetStats(c fiber.Ctx) error {
	stats, err := h.workflowService.Stats(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(stats)
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	var status *models.WorkflowStatus

	if statusStr := c.Query("status"); statusStr != "" {
		s := models.WorkflowStatus(statusStr)
		status = &s
	}

	workflows, err := h.workflowService.List(c.Context(), status)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"workflows": workflows,
		"count":     len(workflows),
	})
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req services.CreateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.workflowService.Create(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	definition, err := h.workflowService.Get(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.JSON(definition)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req services.UpdateWorkflowRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.workflowService.Update(c.Context(), id, req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	err := h.workflowService.Delete(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ExecuteWorkflow triggers a run in the background and returns
// immediately. The run outcome lands in the runs and executions
// history, not in this response.
func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	definition, err := h.workflowService.Get(c.Context(), id)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			return notFound(c, "Workflow not found")
		}

		return internalError(c, err)
	}

	if definition.Status != models.WorkflowStatusActive {
		return handleServiceError(c, workflow.ErrWorkflowNotActive)
	}

	go func() {
		_, execErr := h.executor.Execute(context.Background(), id)
		if execErr != nil {
			h.logger.Error("Background execution failed",
				"workflow_id", id, "error", execErr)
		}
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"workflow_id": id,
		"status":      "started",
	})
}

func (h *APIHandlers) GetVideos(c fiber.Ctx) error {
	limit, err := queryLimit(c)
	if err != nil {
		return badRequest(c, "Invalid limit parameter")
	}

	videos, err := h.persistence.Videos().Recent(c.Context(), limit)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"videos": videos,
		"count":  len(videos),
	})
}

func (h *APIHandlers) GetVideo(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Video ID is required")
	}

	video, err := h.persistence.Videos().GetByID(c.Context(), id)
	if err != nil {
		if persistence.IsVideoNotFound(err) {
			return notFound(c, "Video not found")
		}

		return internalError(c, err)
	}

	return c.JSON(video)
}

func (h *APIHandlers) GetRuns(c fiber.Ctx) error {
	limit, err := queryLimit(c)
	if err != nil {
		return badRequest(c, "Invalid limit parameter")
	}

	runs, err := h.persistence.Runs().Recent(c.Context(), limit)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"runs":  runs,
		"count": len(runs),
	})
}

func (h *APIHandlers) GetLogs(c fiber.Ctx) error {
	limit, err := queryLimit(c)
	if err != nil {
		return badRequest(c, "Invalid limit parameter")
	}

	entries, err := h.persistence.Logs().Recent(c.Context(), limit, c.Query("level"))
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{
		"logs":  entries,
		"count": len(entries),
	})
}

type ChatRequest struct {
	Message   string `json:"message"    validate:"required,min=1"`
	SessionID string `json:"session_id" validate:"omitempty,max=100"`
}

func (h *APIHandlers) Chat(c fiber.Ctx) error {
	var req ChatRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	reply, err := h.chatService.Send(c.Context(), req.SessionID, req.Message)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"reply":      reply,
		"session_id": req.SessionID,
	})
}

func (h *APIHandlers) ClearChat(c fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return badRequest(c, "Session ID is required")
	}

	err := h.chatService.Clear(c.Context(), sessionID)
	if err != nil {
		return internalError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func queryLimit(c fiber.Ctx) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultListLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, err
	}

	if limit < 1 {
		return 0, strconv.ErrRange
	}

	return limit, nil
}
