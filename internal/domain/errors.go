package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors (для бизнес-логики)
var (
	// Validation errors
	ErrEmptyIssueKey   = errors.New("issue key is empty")
	ErrUnknownOutcome  = errors.New("unknown review outcome")
	ErrInvalidDispatch = errors.New("invalid dispatch payload")

	// Routing errors
	ErrUnresolvedProject = errors.New("project identifier not resolved")
	ErrMissingPRLink     = errors.New("no pull request linked to issue")
	ErrDuplicateDispatch = errors.New("dispatch already recorded for issue and status")

	// Integration errors
	ErrDispatchFailed   = errors.New("agent dispatch failed")
	ErrDocumentNotFound = errors.New("document not found")
	ErrIssueNotFound    = errors.New("issue not found")
	ErrTransitionFailed = errors.New("issue status transition failed")

	// Review loop errors
	ErrReviewCycleLimit = errors.New("review cycle limit exceeded")
	ErrNoReviewPending  = errors.New("no review dispatch recorded for issue")
)

// ConfigurationError означает, что для проекта не удалось собрать
// полный бандл настроек. Список недостающих ключей отсортирован и
// включает все отсутствующие переменные, а не только первую найденную.
type ConfigurationError struct {
	Identifier  ProjectIdentifier
	MissingKeys []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("incomplete configuration for project %s: missing %s",
		e.Identifier, strings.Join(e.MissingKeys, ", "))
}

// Is позволяет сопоставлять ConfigurationError через errors.Is
// с сентинелом ErrIncompleteConfig.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrIncompleteConfig
}

// ErrIncompleteConfig служит сентинелом для проверки ConfigurationError
// без доступа к списку ключей.
var ErrIncompleteConfig = errors.New("incomplete project configuration")

// HTTPError для ответа ingress-а
type HTTPError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error HTTPError `json:"error"`
}

// Маппинг domain ошибок в HTTP ошибки
var ErrorMapping = map[error]HTTPError{
	ErrEmptyIssueKey:    {Code: "INVALID_EVENT", Message: "issue key is required"},
	ErrUnknownOutcome:   {Code: "INVALID_OUTCOME", Message: "outcome must be accepted or rejected"},
	ErrInvalidDispatch:  {Code: "INVALID_DISPATCH", Message: "dispatch payload is malformed"},
	ErrIssueNotFound:    {Code: "NOT_FOUND", Message: "issue not found"},
	ErrNoReviewPending:  {Code: "NO_REVIEW", Message: "no review dispatch recorded for issue"},
	ErrReviewCycleLimit: {Code: "CYCLE_LIMIT", Message: "review cycle limit exceeded"},
	ErrTransitionFailed: {Code: "TRACKER_ERROR", Message: "issue status transition failed"},
}

// ToHTTPError преобразует domain ошибку в HTTP ошибку.
// Ошибки сопоставляются через errors.Is, поэтому обертки через %w
// также находят свое соответствие.
func ToHTTPError(err error) (HTTPError, bool) {
	if httpErr, exists := ErrorMapping[err]; exists {
		return httpErr, true
	}
	for sentinel, httpErr := range ErrorMapping {
		if errors.Is(err, sentinel) {
			return httpErr, true
		}
	}
	return HTTPError{}, false
}
