package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"ai-orchestrator/internal/config"
	"ai-orchestrator/internal/domain"
)

// Идентификатор страницы в ссылках вида ".../pages/123456/Title"
// либо "...?pageId=123456".
var pageIDPattern = regexp.MustCompile(`/pages/(\d+)`)

// ConfluenceRepository реализует доступ к хранилищу документации
// через Confluence REST API.
type ConfluenceRepository struct {
	client *apiClient
}

// NewConfluenceRepository создает новый экземпляр ConfluenceRepository.
// Базовый адрес указывает на корень wiki, например
// https://your-domain.atlassian.net/wiki.
func NewConfluenceRepository(cfg config.Config) domain.DocumentStore {
	return &ConfluenceRepository{
		client: newAPIClient(
			cfg.ConfluenceURL,
			cfg.ConfluenceUsername,
			cfg.ConfluenceAPIToken,
			cfg.HTTPTimeout,
			cfg.HTTPMaxRetries,
			cfg.HTTPRetryBase,
		),
	}
}

type confluencePage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	Links struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
}

type confluenceSearchResponse struct {
	Results []confluencePage `json:"results"`
}

// FetchByTitle ищет страницу по точному названию. Пустой spaceKey
// не ограничивает поиск одним пространством.
func (r *ConfluenceRepository) FetchByTitle(ctx context.Context, spaceKey, title string) (*domain.Document, error) {
	query := queryValues(
		"title", title,
		"spaceKey", spaceKey,
		"expand", "body.storage",
	)

	var found confluenceSearchResponse
	if err := r.client.doJSON(ctx, http.MethodGet, "/rest/api/content", query, nil, &found); err != nil {
		return nil, fmt.Errorf("failed to search page %q: %w", title, err)
	}
	if len(found.Results) == 0 {
		return nil, domain.ErrDocumentNotFound
	}

	return toDocument(found.Results[0]), nil
}

// FetchByURL загружает страницу по прямой ссылке, извлекая из нее
// идентификатор страницы.
func (r *ConfluenceRepository) FetchByURL(ctx context.Context, pageURL string) (*domain.Document, error) {
	pageID := extractPageID(pageURL)
	if pageID == "" {
		return nil, domain.ErrDocumentNotFound
	}

	var page confluencePage
	path := "/rest/api/content/" + pageID
	query := queryValues("expand", "body.storage")
	if err := r.client.doJSON(ctx, http.MethodGet, path, query, nil, &page); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("failed to fetch page %s: %w", pageID, err)
	}

	return toDocument(page), nil
}

func toDocument(page confluencePage) *domain.Document {
	return &domain.Document{
		ID:    page.ID,
		Title: page.Title,
		Body:  page.Body.Storage.Value,
		URL:   page.Links.WebUI,
	}
}

// extractPageID достает идентификатор страницы из ссылки. Поддержаны
// современный путь /pages/{id} и старый параметр pageId.
func extractPageID(pageURL string) string {
	if match := pageIDPattern.FindStringSubmatch(pageURL); len(match) == 2 {
		return match[1]
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	if id := parsed.Query().Get("pageId"); id != "" && isDigits(id) {
		return id
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	return strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) == -1
}
