package usecase

import (
	"context"

	"ai-orchestrator/internal/domain"

	"github.com/google/uuid"
)

// ContextCompiler реализует сборку контекста для отправки агенту:
// загружает внешние документы и складывает их вместе с настройками
// проекта в единый бандл.
type ContextCompiler struct {
	docs     domain.DocumentStore
	spaceKey string
}

// NewContextCompiler создает новый экземпляр ContextCompiler.
// spaceKey может быть пустым: тогда поиск по названию идет без
// ограничения пространством wiki.
func NewContextCompiler(docs domain.DocumentStore, spaceKey string) *ContextCompiler {
	return &ContextCompiler{
		docs:     docs,
		spaceKey: spaceKey,
	}
}

// Compile собирает контекст задания для заданной роли. Сбои загрузки
// документов не фатальны: недоступный документ попадает в бандл как
// явный маркер, и отправка продолжается.
func (c *ContextCompiler) Compile(ctx context.Context, role domain.AgentRole, event *domain.IssueEvent, cfg *domain.ProjectConfig, prLink string) *domain.ContextBundle {
	bundle := &domain.ContextBundle{
		Role:           role,
		RoleDefinition: RoleDefinition(role),
		DispatchID:     uuid.New().String(),
		IssueKey:       event.Key,
		Summary:        event.Summary,
		Description:    event.Description,
		Config:         *cfg,
		PRLink:         prLink,
	}

	// 1. ARD привязан к проекту: первичный поиск по названию страницы,
	// запасной вариант берется по прямой ссылке из конфигурации.
	bundle.ARD = c.fetchSection(ctx, "ARD-"+event.ProjectKey, cfg.ARDURL)

	// 2. PRD привязан к конкретной задаче.
	bundle.PRD = c.fetchSection(ctx, "PRD-"+event.Key, cfg.PRDURL)

	return bundle
}

func (c *ContextCompiler) fetchSection(ctx context.Context, title, fallbackURL string) domain.DocumentSection {
	if doc, err := c.docs.FetchByTitle(ctx, c.spaceKey, title); err == nil {
		return domain.DocumentSection{Key: title, Body: doc.Body, Available: true}
	}

	if fallbackURL != "" {
		if doc, err := c.docs.FetchByURL(ctx, fallbackURL); err == nil {
			return domain.DocumentSection{Key: title, Body: doc.Body, Available: true}
		}
	}

	return domain.DocumentSection{Key: title, Available: false}
}
