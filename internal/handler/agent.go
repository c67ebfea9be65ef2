package handler

import (
	"net/http"
	"strings"

	"ai-orchestrator/internal/domain"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// reviewCompletedRequest представляет тело обратного вызова агента ревью.
type reviewCompletedRequest struct {
	IssueKey string `json:"issue_key"`
	Outcome  string `json:"outcome"`
	Feedback string `json:"feedback"`
	PRURL    string `json:"pr_url"`
}

// AgentHandler обрабатывает обратные вызовы AI-агентов
type AgentHandler struct {
	*BaseHandler
	orchestrator domain.OrchestratorUseCase
}

// NewAgentHandler создает новый экземпляр AgentHandler
func NewAgentHandler(orchestrator domain.OrchestratorUseCase, logger *logrus.Logger) *AgentHandler {
	return &AgentHandler{
		BaseHandler:  NewBaseHandler(logger),
		orchestrator: orchestrator,
	}
}

// PostReviewCompleted обрабатывает вердикт агента архитектурного ревью
func (h *AgentHandler) PostReviewCompleted(c echo.Context) error {
	var req reviewCompletedRequest
	if err := c.Bind(&req); err != nil {
		h.logger.WithError(err).Warn("Failed to bind review callback")
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	logEntry := h.logRequest(c, "review_completed").WithFields(logrus.Fields{
		"issue_key": req.IssueKey,
		"outcome":   req.Outcome,
	})
	logEntry.Info("Review verdict received")

	if strings.TrimSpace(req.IssueKey) == "" {
		logEntry.Warn("Review verdict without issue key")
		httpErr, _ := domain.ToHTTPError(domain.ErrEmptyIssueKey)
		return c.JSON(http.StatusBadRequest, toHTTPErrorResponse(httpErr))
	}

	outcome, err := domain.ParseReviewOutcome(req.Outcome)
	if err != nil {
		logEntry.WithError(err).Warn("Review verdict not recognized")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toHTTPErrorResponse(httpErr))
		}
		return c.JSON(http.StatusBadRequest, toErrorResponse("INVALID_REQUEST", err.Error()))
	}

	err = h.orchestrator.ApplyReviewOutcome(c.Request().Context(), req.IssueKey, outcome, req.Feedback, req.PRURL)
	if err != nil {
		logEntry.WithError(err).Error("Failed to apply review outcome")
		if httpErr, exists := domain.ToHTTPError(err); exists {
			return c.JSON(getHTTPStatusCode(err), toHTTPErrorResponse(httpErr))
		}
		return c.JSON(http.StatusInternalServerError, toErrorResponse("INTERNAL_ERROR", err.Error()))
	}

	logEntry.Info("Review outcome applied")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"issue_key": req.IssueKey,
	})
}
