package handler

import (
	"net/http"

	"ai-orchestrator/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// WebhookHandler обрабатывает входящие вебхуки трекера задач
type WebhookHandler struct {
	*BaseHandler
	orchestrator domain.OrchestratorUseCase
}

// NewWebhookHandler создает новый экземпляр WebhookHandler
func NewWebhookHandler(orchestrator domain.OrchestratorUseCase, logger *logrus.Logger) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:  NewBaseHandler(logger),
		orchestrator: orchestrator,
	}
}

// PostIssueCreated обрабатывает событие создания задачи
func (h *WebhookHandler) PostIssueCreated(c echo.Context) error {
	return h.handleWebhook(c, "issue_created_webhook", domain.EventIssueCreated)
}

// PostIssueUpdated обрабатывает событие обновления задачи
func (h *WebhookHandler) PostIssueUpdated(c echo.Context) error {
	return h.handleWebhook(c, "issue_updated_webhook", domain.EventIssueUpdated)
}

func (h *WebhookHandler) handleWebhook(c echo.Context, operation string, eventType domain.EventType) error {
	var envelope webhookEvent
	if err := c.Bind(&envelope); err != nil {
		h.logger.WithError(err).Warn("Failed to bind webhook payload")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	event := envelope.toIssueEvent(eventType)

	logEntry := h.logRequest(c, operation).WithFields(logrus.Fields{
		"issue_key": event.Key,
		"status":    string(event.Status),
	})
	logEntry.Info("Webhook received")

	if err := event.Validate(); err != nil {
		logEntry.WithError(err).Warn("Webhook payload rejected")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toHTTPErrorResponse(httpErr))
		}
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	result := h.orchestrator.HandleEvent(c.Request().Context(), event)

	logEntry.WithFields(logrus.Fields{
		"state":  string(result.State),
		"reason": result.Reason,
	}).Info("Webhook processed")

	// Трекеру всегда подтверждается прием: повтор доставки не исправит
	// ни отклоненное, ни проигнорированное событие. Итог обработки
	// отдается в теле для диагностики.
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"issue_key": event.Key,
		"result":    string(result.State),
	})
}
