package domain

import "strings"

// Имена переменных конфигурации проекта. Полное имя ключа строится
// по соглашению {VARIABLE}_{IDENTIFIER}, например PROJECT_REPO_PAY.
const (
	KeyProjectRepo              = "PROJECT_REPO"
	KeyTeamRules                = "TEAM_CONTRIBUTION_RULES"
	KeyArchitectureRules        = "TEAM_ARCHITECTURE_RULES"
	KeyPRD                      = "PRD_URL"
	KeyARD                      = "ARD_URL"
	KeyArchitectureRulesContent = "TEAM_ARCHITECTURE_RULES_CONTENT"
)

// RequiredProjectKeys возвращает обязательные переменные проекта
// в фиксированном порядке. Порядок используется при формировании
// отчета о недостающих ключах.
func RequiredProjectKeys() []string {
	return []string{
		KeyProjectRepo,
		KeyTeamRules,
		KeyArchitectureRules,
		KeyPRD,
		KeyARD,
	}
}

// ProjectIdentifier представляет тег проекта, извлеченный из заголовка
// задачи. Нулевое значение означает, что идентификатор определить не
// удалось.
type ProjectIdentifier struct {
	raw string
}

// NewProjectIdentifier создает идентификатор проекта из сырого тега.
func NewProjectIdentifier(raw string) ProjectIdentifier {
	return ProjectIdentifier{raw: strings.TrimSpace(raw)}
}

// IsZero проверяет, что идентификатор не был определен.
func (p ProjectIdentifier) IsZero() bool {
	return p.raw == ""
}

// String возвращает исходную форму тега.
func (p ProjectIdentifier) String() string {
	return p.raw
}

// Normalized приводит идентификатор к форме суффикса ключа конфигурации:
// верхний регистр, дефисы заменены подчеркиваниями.
func (p ProjectIdentifier) Normalized() string {
	return strings.ToUpper(strings.ReplaceAll(p.raw, "-", "_"))
}

// ConfigKey собирает полное имя переменной конфигурации проекта.
func (p ProjectIdentifier) ConfigKey(variable string) string {
	return variable + "_" + p.Normalized()
}

// ProjectConfig представляет полный набор настроек одного проекта.
// Бандл собирается целиком либо не собирается вовсе: частично
// заполненные значения наружу не отдаются.
type ProjectConfig struct {
	Identifier               ProjectIdentifier
	RepositoryURL            string
	TeamRulesURL             string
	ArchitectureRulesURL     string
	ArchitectureRulesContent string
	PRDURL                   string
	ARDURL                   string
}

// ConfigStore определяет контракт read-only хранилища переменных
// конфигурации. Снимок делается один раз при старте процесса, поэтому
// повторные чтения одного ключа всегда возвращают одно значение.
type ConfigStore interface {
	Get(key string) (string, bool)
}
