package handler

import (
	"strings"

	"ai-orchestrator/internal/domain"
)

// webhookEvent представляет входной конверт вебхука трекера. Разбираются
// только поля, участвующие в маршрутизации; остальное тело игнорируется.
type webhookEvent struct {
	WebhookEvent string           `json:"webhookEvent"`
	Issue        webhookIssue     `json:"issue"`
	Changelog    webhookChangelog `json:"changelog"`
}

type webhookIssue struct {
	ID     string        `json:"id"`
	Key    string        `json:"key"`
	Fields webhookFields `json:"fields"`
}

type webhookFields struct {
	Summary     string         `json:"summary"`
	Description interface{}    `json:"description"`
	Status      webhookStatus  `json:"status"`
	Labels      []string       `json:"labels"`
	Project     webhookProject `json:"project"`
}

type webhookStatus struct {
	Name string `json:"name"`
}

type webhookProject struct {
	Key string `json:"key"`
}

type webhookChangelog struct {
	Items []webhookChangeItem `json:"items"`
}

type webhookChangeItem struct {
	Field      string `json:"field"`
	FromString string `json:"fromString"`
	ToString   string `json:"toString"`
}

// toIssueEvent нормализует конверт вебхука в доменное событие.
func (e *webhookEvent) toIssueEvent(eventType domain.EventType) *domain.IssueEvent {
	event := &domain.IssueEvent{
		ID:          e.Issue.ID,
		Key:         e.Issue.Key,
		ProjectKey:  e.Issue.Fields.Project.Key,
		Status:      domain.ParseStatus(e.Issue.Fields.Status.Name),
		Labels:      e.Issue.Fields.Labels,
		Summary:     e.Issue.Fields.Summary,
		Description: flattenDescription(e.Issue.Fields.Description),
		EventType:   eventType,
	}

	// 1. Восстанавливаем ключ проекта из ключа задачи, если трекер
	// не прислал блок project.
	if event.ProjectKey == "" {
		if idx := strings.Index(event.Key, "-"); idx > 0 {
			event.ProjectKey = event.Key[:idx]
		}
	}

	// 2. Берем переход статуса из changelog, если он есть. Снапшот
	// статуса в fields авторитетен; changelog дополняет его историей.
	for _, item := range e.Changelog.Items {
		if strings.EqualFold(item.Field, "status") {
			event.Transition = &domain.StatusTransition{
				From: domain.ParseStatus(item.FromString),
				To:   domain.ParseStatus(item.ToString),
			}
			if strings.TrimSpace(string(event.Status)) == "" {
				event.Status = event.Transition.To
			}
			break
		}
	}

	return event
}

// flattenDescription приводит описание задачи к плоскому тексту.
// Трекер присылает описание либо строкой, либо деревом Atlassian
// Document Format; из дерева собираются все текстовые узлы.
func flattenDescription(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]interface{}:
		var sb strings.Builder
		collectText(v, &sb)
		return strings.TrimSpace(sb.String())
	default:
		return ""
	}
}

func collectText(node map[string]interface{}, sb *strings.Builder) {
	if text, ok := node["text"].(string); ok {
		sb.WriteString(text)
	}

	content, ok := node["content"].([]interface{})
	if !ok {
		return
	}
	for _, child := range content {
		childNode, ok := child.(map[string]interface{})
		if !ok {
			continue
		}
		collectText(childNode, sb)
		// абзацы разделяются переводом строки
		if nodeType, _ := childNode["type"].(string); nodeType == "paragraph" {
			sb.WriteString("\n")
		}
	}
}
