package usecase

import (
	"sort"
	"strings"

	"ai-orchestrator/internal/domain"
)

// ConfigResolver реализует разрешение конфигурации проекта по
// нормализованному идентификатору.
type ConfigResolver struct {
	store domain.ConfigStore
}

// NewConfigResolver создает новый экземпляр ConfigResolver.
func NewConfigResolver(store domain.ConfigStore) *ConfigResolver {
	return &ConfigResolver{store: store}
}

// Known проверяет, что идентификатор соответствует настроенному
// проекту: задан хотя бы ключ репозитория.
func (r *ConfigResolver) Known(id domain.ProjectIdentifier) bool {
	if id.IsZero() {
		return false
	}
	value, ok := r.store.Get(id.ConfigKey(domain.KeyProjectRepo))
	return ok && strings.TrimSpace(value) != ""
}

// Resolve собирает полный бандл настроек проекта. Политика «все или
// ничего»: при отсутствии любого обязательного ключа возвращается
// ConfigurationError с полным списком недостающих ключей, а не
// частично заполненный бандл. Пустое значение равносильно отсутствию.
func (r *ConfigResolver) Resolve(id domain.ProjectIdentifier) (*domain.ProjectConfig, error) {
	if id.IsZero() {
		return nil, domain.ErrUnresolvedProject
	}

	// 1. Читаем все обязательные ключи, копим недостающие.
	values := make(map[string]string, len(domain.RequiredProjectKeys()))
	var missing []string
	for _, variable := range domain.RequiredProjectKeys() {
		key := id.ConfigKey(variable)
		value, ok := r.store.Get(key)
		if !ok || strings.TrimSpace(value) == "" {
			missing = append(missing, key)
			continue
		}
		values[variable] = value
	}

	// 2. Любой недостающий ключ валит бандл целиком.
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, &domain.ConfigurationError{Identifier: id, MissingKeys: missing}
	}

	cfg := &domain.ProjectConfig{
		Identifier:           id,
		RepositoryURL:        values[domain.KeyProjectRepo],
		TeamRulesURL:         values[domain.KeyTeamRules],
		ArchitectureRulesURL: values[domain.KeyArchitectureRules],
		PRDURL:               values[domain.KeyPRD],
		ARDURL:               values[domain.KeyARD],
	}

	// 3. Inline-текст архитектурных правил необязателен: отсутствие
	// не ошибка.
	if content, ok := r.store.Get(id.ConfigKey(domain.KeyArchitectureRulesContent)); ok {
		cfg.ArchitectureRulesContent = content
	}

	return cfg, nil
}
