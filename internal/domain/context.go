package domain

import (
	"context"
	"fmt"
	"strings"
)

// AgentRole представляет роль агента, которому адресуется контекст.
type AgentRole string

const (
	RoleDevelopment        AgentRole = "development"
	RoleArchitectureReview AgentRole = "architecture-review"
)

// DocumentSection представляет результат загрузки внешнего документа
// для контекста. Недоступность документа не прерывает сборку: вместо
// содержимого подставляется явный маркер с ключом поиска.
type DocumentSection struct {
	Key       string
	Body      string
	Available bool
}

// Text возвращает содержимое документа либо маркер недоступности.
func (d DocumentSection) Text() string {
	if !d.Available {
		return fmt.Sprintf("[document unavailable: %s]", d.Key)
	}
	return d.Body
}

// ContextBundle представляет полностью собранный контекст одной
// отправки агенту.
type ContextBundle struct {
	Role           AgentRole
	RoleDefinition string
	DispatchID     string
	IssueKey       string
	Summary        string
	Description    string
	Config         ProjectConfig
	ARD            DocumentSection
	PRD            DocumentSection
	PRLink         string
}

// Render сериализует контекст в текст задания для агента.
// Порядок секций фиксирован и является контрактом: роль, задача,
// репозиторий, правила команды, архитектурные правила, ARD, PRD
// и ссылка на пул-реквест для роли ревью. Пустые необязательные
// секции опускаются целиком.
func (b *ContextBundle) Render() string {
	var sb strings.Builder

	section := func(heading, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		fmt.Fprintf(&sb, "# %s\n\n%s\n\n", heading, strings.TrimSpace(body))
	}

	section("ROLE", b.RoleDefinition)

	task := b.IssueKey
	if b.Summary != "" {
		task += ": " + b.Summary
	}
	if b.Description != "" {
		task += "\n\n" + b.Description
	}
	section("TASK", task)

	section("REPOSITORY", b.Config.RepositoryURL)
	section("TEAM CONTRIBUTION RULES", b.Config.TeamRulesURL)
	section("ARCHITECTURE RULES", b.Config.ArchitectureRulesURL)
	section("ARCHITECTURE RULES CONTENT", b.Config.ArchitectureRulesContent)
	section("ARCHITECTURE REQUIREMENTS (ARD)", b.ARD.Text())
	section("PRODUCT REQUIREMENTS (PRD)", b.PRD.Text())

	if b.Role == RoleArchitectureReview {
		section("PULL REQUEST", b.PRLink)
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// MissingDocuments возвращает ключи разделов, для которых документ
// получить не удалось. Используется для диагностики в логах.
func (b *ContextBundle) MissingDocuments() []string {
	var missing []string
	if !b.ARD.Available {
		missing = append(missing, b.ARD.Key)
	}
	if !b.PRD.Available {
		missing = append(missing, b.PRD.Key)
	}
	return missing
}

// Document представляет страницу внешнего хранилища документации.
type Document struct {
	ID    string
	Title string
	Body  string
	URL   string
}

// DocumentStore определяет контракт доступа к внешнему хранилищу
// документации (ARD, PRD и прочие страницы wiki).
type DocumentStore interface {
	FetchByTitle(ctx context.Context, spaceKey, title string) (*Document, error)
	FetchByURL(ctx context.Context, pageURL string) (*Document, error)
}
