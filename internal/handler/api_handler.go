package handler

import (
	"ai-orchestrator/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type APIHandler struct {
	*WebhookHandler
	*AgentHandler
}

func NewAPIHandler(
	orchestrator domain.OrchestratorUseCase,
	logger *logrus.Logger,
) *APIHandler {

	return &APIHandler{
		WebhookHandler: NewWebhookHandler(orchestrator, logger),
		AgentHandler:   NewAgentHandler(orchestrator, logger),
	}
}

// RegisterRoutes привязывает эндпоинты ingress-а к серверу.
func (h *APIHandler) RegisterRoutes(e *echo.Echo) {
	e.POST(domain.WebhookPathIssueCreated, h.PostIssueCreated)
	e.POST(domain.WebhookPathIssueUpdated, h.PostIssueUpdated)
	e.POST(domain.AgentCallbackPath, h.PostReviewCompleted)
}
