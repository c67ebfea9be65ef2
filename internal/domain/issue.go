package domain

import (
	"context"
	"strings"
)

// AILabel задает метку, помечающую задачу как управляемую AI-агентами.
const AILabel = "ai"

// Status представляет колонку доски, в которой находится задача.
type Status string

const (
	StatusToDo           Status = "To Do"
	StatusSelectedForDev Status = "Selected for Dev"
	StatusInProgress     Status = "In Progress"
	StatusToApprove      Status = "To approve"
	StatusApproved       Status = "Approved"
	StatusApproveByHuman Status = "Approve by Human"
	StatusDone           Status = "Done"
)

// KnownStatuses возвращает полный набор известных колонок доски.
func KnownStatuses() []Status {
	return []Status{
		StatusToDo,
		StatusSelectedForDev,
		StatusInProgress,
		StatusToApprove,
		StatusApproved,
		StatusApproveByHuman,
		StatusDone,
	}
}

// ParseStatus приводит имя статуса из трекера к каноническому значению.
// Сравнение регистронезависимое; неизвестные статусы сохраняются как есть.
func ParseStatus(name string) Status {
	trimmed := strings.TrimSpace(name)
	for _, s := range KnownStatuses() {
		if strings.EqualFold(trimmed, string(s)) {
			return s
		}
	}
	return Status(trimmed)
}

// IsKnown проверяет, что статус входит в известный набор колонок.
func (s Status) IsKnown() bool {
	for _, known := range KnownStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// TriggersDevelopment проверяет, что колонка запускает ветку разработки.
func (s Status) TriggersDevelopment() bool {
	return s == StatusSelectedForDev
}

// TriggersReview проверяет, что колонка запускает ветку архитектурного
// ревью. "To approve" и "Approved" считаются альтернативными названиями
// одной колонки в разных конфигурациях доски.
func (s Status) TriggersReview() bool {
	return s == StatusToApprove || s == StatusApproved
}

// EventType представляет тип события вебхука.
type EventType string

const (
	EventIssueCreated EventType = "issue_created"
	EventIssueUpdated EventType = "issue_updated"
)

// StatusTransition представляет переход статуса из changelog события.
// Используется только для аудита.
type StatusTransition struct {
	From string
	To   string
}

// IssueEvent представляет одну доставку вебхука по задаче трекера.
// Событие конструируется на стороне ingress и далее не изменяется.
type IssueEvent struct {
	ID          string
	Key         string
	ProjectKey  string
	Status      Status
	Labels      []string
	Summary     string
	Description string
	PRLink      string
	EventType   EventType
	Transition  *StatusTransition
}

// HasLabel проверяет наличие метки (регистронезависимо).
func (e *IssueEvent) HasLabel(name string) bool {
	for _, label := range e.Labels {
		if strings.EqualFold(label, name) {
			return true
		}
	}
	return false
}

// Validate проверяет инварианты события: ключ задачи непустой и стабильный.
func (e *IssueEvent) Validate() error {
	if strings.TrimSpace(e.Key) == "" {
		return ErrEmptyIssueKey
	}
	return nil
}

// Tracker определяет контракт для работы с трекером задач.
type Tracker interface {
	TransitionTo(ctx context.Context, issueKey string, target Status) error
	Comment(ctx context.Context, issueKey, body string) error
	FindPullRequestLink(ctx context.Context, issueKey string) (string, error)
}

// RegisteredWebhook представляет зарегистрированную в трекере подписку
// на события.
type RegisteredWebhook struct {
	ID     string
	URL    string
	Events []string
}

// TrackerAdmin определяет контракт административных операций трекера:
// проверка соединения и управление подписками на вебхуки.
type TrackerAdmin interface {
	Myself(ctx context.Context) (string, error)
	ListWebhooks(ctx context.Context) ([]RegisteredWebhook, error)
	RegisterWebhook(ctx context.Context, callbackURL string, event EventType, jqlFilter string) error
}
