package handler

import (
	"errors"
	"net/http"

	"ai-orchestrator/internal/domain"
)

// Вспомогательные функции преобразования ошибок в ответы ingress-а

func toErrorResponse(code, message string) domain.ErrorResponse {
	return domain.ErrorResponse{
		Error: domain.HTTPError{
			Code:    code,
			Message: message,
		},
	}
}

func toHTTPErrorResponse(httpErr domain.HTTPError) domain.ErrorResponse {
	return domain.ErrorResponse{Error: httpErr}
}

func getHTTPStatusCode(err error) int {
	switch {
	// Bad Request errors (400) - валидация
	case errors.Is(err, domain.ErrEmptyIssueKey),
		errors.Is(err, domain.ErrUnknownOutcome),
		errors.Is(err, domain.ErrInvalidDispatch):
		return http.StatusBadRequest

	// Not Found errors (404)
	case errors.Is(err, domain.ErrIssueNotFound):
		return http.StatusNotFound

	// Conflict errors (409)
	case errors.Is(err, domain.ErrNoReviewPending),
		errors.Is(err, domain.ErrReviewCycleLimit),
		errors.Is(err, domain.ErrDuplicateDispatch):
		return http.StatusConflict

	// Bad Gateway (502) - сбой на стороне трекера
	case errors.Is(err, domain.ErrTransitionFailed):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
