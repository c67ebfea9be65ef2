package usecase

import (
	"regexp"

	"ai-orchestrator/internal/domain"
)

// Токен проекта в заголовке: первая пара квадратных скобок без
// вложенности, например "[pay] Add refund endpoint".
var bracketToken = regexp.MustCompile(`\[([^\[\]]*)\]`)

// ProjectExtractor реализует извлечение идентификатора проекта из
// заголовка и меток задачи.
type ProjectExtractor struct {
	known func(domain.ProjectIdentifier) bool
}

// NewProjectExtractor создает новый экземпляр ProjectExtractor.
// Предикат known отсекает метки, за которыми не стоит настроенный
// проект.
func NewProjectExtractor(known func(domain.ProjectIdentifier) bool) *ProjectExtractor {
	return &ProjectExtractor{known: known}
}

// Extract определяет идентификатор проекта. Отсутствие совпадения
// не ошибка: возвращается нулевой идентификатор, который маршрутизатор
// трактует как законный исход "проект не определен".
func (e *ProjectExtractor) Extract(title string, labels []string) domain.ProjectIdentifier {
	// 1. Сканируем заголовок слева направо, берем первый непустой токен.
	for _, match := range bracketToken.FindAllStringSubmatch(title, -1) {
		id := domain.NewProjectIdentifier(match[1])
		if !id.IsZero() {
			return id
		}
	}

	// 2. Fallback: метка, совпадающая с известным проектом. Нужен,
	// потому что не каждый заголовок следует конвенции со скобками.
	for _, label := range labels {
		id := domain.NewProjectIdentifier(label)
		if id.IsZero() {
			continue
		}
		if e.known != nil && e.known(id) {
			return id
		}
	}

	return domain.ProjectIdentifier{}
}
