package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"ai-orchestrator/internal/config"
	"ai-orchestrator/internal/domain"
)

// Имена событий в проводном формате трекера.
const (
	jiraEventIssueCreated = "jira:issue_created"
	jiraEventIssueUpdated = "jira:issue_updated"
)

// Фрагменты URL, по которым удаленная ссылка опознается как пул-реквест.
var pullRequestMarkers = []string{"/pull/", "/pull-requests/", "/merge_requests/"}

// JiraRepository реализует взаимодействие с трекером через REST API v3.
// Покрывает оба контракта: рабочие операции Tracker и административные
// операции TrackerAdmin.
type JiraRepository struct {
	client *apiClient
}

// NewJiraRepository создает новый экземпляр JiraRepository.
func NewJiraRepository(cfg config.Config) *JiraRepository {
	return &JiraRepository{
		client: newAPIClient(
			cfg.JiraURL,
			cfg.JiraUsername,
			cfg.JiraAPIToken,
			cfg.HTTPTimeout,
			cfg.HTTPMaxRetries,
			cfg.HTTPRetryBase,
		),
	}
}

type jiraTransition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	To   struct {
		Name string `json:"name"`
	} `json:"to"`
}

type jiraTransitionsResponse struct {
	Transitions []jiraTransition `json:"transitions"`
}

// TransitionTo переводит задачу в целевой статус. Идентификатор
// перехода не фиксирован на стороне трекера, поэтому сначала
// запрашивается список доступных переходов.
func (r *JiraRepository) TransitionTo(ctx context.Context, issueKey string, target domain.Status) error {
	// 1. Получаем доступные переходы задачи.
	var available jiraTransitionsResponse
	path := fmt.Sprintf("/rest/api/3/issue/%s/transitions", issueKey)
	if err := r.client.doJSON(ctx, http.MethodGet, path, nil, nil, &available); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return domain.ErrIssueNotFound
		}
		return fmt.Errorf("failed to list transitions: %w", err)
	}

	// 2. Ищем переход в целевой статус по имени колонки.
	var transitionID string
	for _, tr := range available.Transitions {
		if strings.EqualFold(tr.To.Name, string(target)) {
			transitionID = tr.ID
			break
		}
	}
	if transitionID == "" {
		return fmt.Errorf("%w: no transition to %q for %s", domain.ErrTransitionFailed, target, issueKey)
	}

	// 3. Выполняем переход.
	payload := map[string]interface{}{
		"transition": map[string]string{"id": transitionID},
	}
	if err := r.client.doJSON(ctx, http.MethodPost, path, nil, payload, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransitionFailed, err)
	}
	return nil
}

// Comment добавляет комментарий к задаче. Тело передается в формате
// Atlassian Document Format одним параграфом.
func (r *JiraRepository) Comment(ctx context.Context, issueKey, body string) error {
	payload := map[string]interface{}{
		"body": map[string]interface{}{
			"type":    "doc",
			"version": 1,
			"content": []interface{}{
				map[string]interface{}{
					"type": "paragraph",
					"content": []interface{}{
						map[string]string{"type": "text", "text": body},
					},
				},
			},
		},
	}

	path := fmt.Sprintf("/rest/api/3/issue/%s/comment", issueKey)
	if err := r.client.doJSON(ctx, http.MethodPost, path, nil, payload, nil); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return domain.ErrIssueNotFound
		}
		return fmt.Errorf("failed to add comment: %w", err)
	}
	return nil
}

type jiraRemoteLink struct {
	Object struct {
		URL   string `json:"url"`
		Title string `json:"title"`
	} `json:"object"`
}

// FindPullRequestLink ищет среди удаленных ссылок задачи первую,
// похожую на пул-реквест. Отсутствие ссылки не ошибка: возвращается
// пустая строка.
func (r *JiraRepository) FindPullRequestLink(ctx context.Context, issueKey string) (string, error) {
	var links []jiraRemoteLink
	path := fmt.Sprintf("/rest/api/3/issue/%s/remotelink", issueKey)
	if err := r.client.doJSON(ctx, http.MethodGet, path, nil, nil, &links); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return "", domain.ErrIssueNotFound
		}
		return "", fmt.Errorf("failed to list remote links: %w", err)
	}

	for _, link := range links {
		for _, marker := range pullRequestMarkers {
			if strings.Contains(link.Object.URL, marker) {
				return link.Object.URL, nil
			}
		}
	}
	return "", nil
}

type jiraMyself struct {
	DisplayName  string `json:"displayName"`
	EmailAddress string `json:"emailAddress"`
}

// Myself проверяет соединение и возвращает имя учетной записи.
func (r *JiraRepository) Myself(ctx context.Context) (string, error) {
	var me jiraMyself
	if err := r.client.doJSON(ctx, http.MethodGet, "/rest/api/3/myself", nil, nil, &me); err != nil {
		return "", fmt.Errorf("failed to fetch account: %w", err)
	}
	if me.DisplayName != "" {
		return me.DisplayName, nil
	}
	return me.EmailAddress, nil
}

type jiraWebhookEntry struct {
	ID     int64    `json:"id"`
	URL    string   `json:"url"`
	Events []string `json:"events"`
}

type jiraWebhookList struct {
	Values []jiraWebhookEntry `json:"values"`
}

// ListWebhooks возвращает зарегистрированные подписки на события.
func (r *JiraRepository) ListWebhooks(ctx context.Context) ([]domain.RegisteredWebhook, error) {
	var list jiraWebhookList
	if err := r.client.doJSON(ctx, http.MethodGet, "/rest/api/3/webhook", nil, nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}

	hooks := make([]domain.RegisteredWebhook, 0, len(list.Values))
	for _, entry := range list.Values {
		hooks = append(hooks, domain.RegisteredWebhook{
			ID:     strconv.FormatInt(entry.ID, 10),
			URL:    entry.URL,
			Events: entry.Events,
		})
	}
	return hooks, nil
}

// RegisterWebhook регистрирует подписку на одно событие задач по
// указанному callback-адресу.
func (r *JiraRepository) RegisterWebhook(ctx context.Context, callbackURL string, event domain.EventType, jqlFilter string) error {
	wireEvent := jiraEventIssueUpdated
	if event == domain.EventIssueCreated {
		wireEvent = jiraEventIssueCreated
	}

	payload := map[string]interface{}{
		"name":        "AI Orchestrator Webhook",
		"url":         callbackURL,
		"events":      []string{wireEvent},
		"excludeBody": false,
	}
	if jqlFilter != "" {
		payload["jqlFilter"] = jqlFilter
	}

	if err := r.client.doJSON(ctx, http.MethodPost, "/rest/api/3/webhook", nil, payload, nil); err != nil {
		return fmt.Errorf("failed to register webhook: %w", err)
	}
	return nil
}
