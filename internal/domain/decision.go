package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DecisionKind представляет вариант маршрутного решения для одного события.
type DecisionKind string

const (
	DecisionIgnore              DecisionKind = "ignore"
	DecisionDispatchDevelopment DecisionKind = "dispatch_development"
	DecisionDispatchReview      DecisionKind = "dispatch_architecture_review"
)

// Decision представляет результат классификации события. На каждое
// событие приходится ровно один вариант решения.
type Decision struct {
	Kind   DecisionKind
	Reason string
	Bundle *ContextBundle
}

// EventState представляет терминальное состояние обработки одного события.
type EventState string

const (
	EventIgnored    EventState = "ignored"
	EventDispatched EventState = "dispatched"
	EventRejected   EventState = "rejected"
	EventSkipped    EventState = "skipped"
)

// EventResult представляет итог обработки одной доставки вебхука.
type EventResult struct {
	IssueKey string
	State    EventState
	Decision DecisionKind
	Reason   string
}

// ReviewOutcome представляет вердикт агента архитектурного ревью.
type ReviewOutcome string

const (
	OutcomeAccepted ReviewOutcome = "accepted"
	OutcomeRejected ReviewOutcome = "rejected"
)

// ParseReviewOutcome разбирает вердикт из callback-запроса агента.
func ParseReviewOutcome(raw string) (ReviewOutcome, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(OutcomeAccepted):
		return OutcomeAccepted, nil
	case string(OutcomeRejected):
		return OutcomeRejected, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOutcome, raw)
	}
}

// Dispatch представляет задание агенту: роль плюс скомпилированный
// текст контекста.
type Dispatch struct {
	DispatchID string
	Role       AgentRole
	IssueKey   string
	Prompt     string
}

// DispatchRecord представляет запись журнала об отправке контекста
// агенту. Пара (IssueKey, TargetStatus) служит ключом дедупликации
// повторных доставок вебхука.
type DispatchRecord struct {
	DispatchID   string
	IssueKey     string
	TargetStatus Status
	Role         AgentRole
	CreatedAt    time.Time
}

// AgentDispatcher определяет контракт отправки задания агенту.
// Отправка следует модели fire-and-forget: подтверждение приема
// означает успех, за результатом оркестратор не следит.
type AgentDispatcher interface {
	Assign(ctx context.Context, d Dispatch) error
}

// DispatchJournal определяет контракт журнала отправок. Журнал
// обеспечивает дедупликацию повторных доставок и счетчик циклов
// ревью для каждой задачи.
//
// Метки отправок сбрасываются при отклонении ревью: цикл возврата
// в разработку легитимно повторяет отправку для той же пары
// (ключ, статус). Память о том, что задача вообще проходила через
// отправку (HasDispatched), при этом сохраняется.
type DispatchJournal interface {
	AlreadyDispatched(ctx context.Context, issueKey string, target Status) (bool, error)
	RecordDispatch(ctx context.Context, rec DispatchRecord) error
	ClearDispatches(ctx context.Context, issueKey string) error
	HasDispatched(ctx context.Context, issueKey string) (bool, error)
	RecordRejection(ctx context.Context, issueKey string) (int, error)
	ClearRejections(ctx context.Context, issueKey string) error
}
