package domain

import "context"

// Пути ingress-эндпоинтов вебхуков. Используются и при маршрутизации
// HTTP-запросов, и при регистрации подписок в трекере.
const (
	WebhookPathIssueCreated = "/webhooks/jira/issue-created"
	WebhookPathIssueUpdated = "/webhooks/jira/issue-updated"
)

// AgentCallbackPath задает эндпоинт, на который агент ревью сообщает
// вердикт.
const AgentCallbackPath = "/agents/review-completed"

// OrchestratorUseCase определяет бизнес-логику маршрутизации событий
// трекера на AI-агентов.
type OrchestratorUseCase interface {
	// Route классифицирует событие без побочных эффектов записи:
	// допускаются только чтения конфигурации, документации и трекера.
	Route(ctx context.Context, event *IssueEvent) (*Decision, error)

	// HandleEvent выполняет полный цикл обработки события: классификация,
	// дедупликация, отправка агенту и переходы статуса. Все фатальные
	// сбои перехватываются на границе и превращаются в EventResult.
	HandleEvent(ctx context.Context, event *IssueEvent) *EventResult

	// ApplyReviewOutcome применяет вердикт агента архитектурного ревью:
	// принятая задача переводится на ручное утверждение, отклоненная
	// возвращается в разработку с комментарием-фидбеком.
	ApplyReviewOutcome(ctx context.Context, issueKey string, outcome ReviewOutcome, feedback, prLink string) error
}

// WebhookManager определяет бизнес-логику управления регистрацией
// вебхуков в трекере.
type WebhookManager interface {
	EnsureRegistered(ctx context.Context, baseURL, jqlFilter string) error
}
