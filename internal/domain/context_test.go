package domain_test

import (
	"strings"
	"testing"

	"ai-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
)

func developmentBundle() *domain.ContextBundle {
	return &domain.ContextBundle{
		Role:           domain.RoleDevelopment,
		RoleDefinition: "You are a development agent.",
		DispatchID:     "d-1",
		IssueKey:       "PAY-42",
		Summary:        "[pay] Add refund endpoint",
		Description:    "Expose POST /refunds.",
		Config: domain.ProjectConfig{
			Identifier:           domain.NewProjectIdentifier("pay"),
			RepositoryURL:        "https://git.example.com/pay/core",
			TeamRulesURL:         "https://wiki.example.com/pay/contributing",
			ArchitectureRulesURL: "https://wiki.example.com/pay/architecture",
			PRDURL:               "https://wiki.example.com/pay/prd",
			ARDURL:               "https://wiki.example.com/pay/ard",
		},
		ARD: domain.DocumentSection{Key: "ARD-PAY", Body: "ARD body", Available: true},
		PRD: domain.DocumentSection{Key: "PRD-PAY", Body: "PRD body", Available: true},
	}
}

func TestContextBundle_Render_SectionOrder(t *testing.T) {
	prompt := developmentBundle().Render()

	repoIdx := strings.Index(prompt, "https://git.example.com/pay/core")
	teamIdx := strings.Index(prompt, "https://wiki.example.com/pay/contributing")
	archIdx := strings.Index(prompt, "https://wiki.example.com/pay/architecture")
	ardIdx := strings.Index(prompt, "ARD body")
	prdIdx := strings.Index(prompt, "PRD body")

	assert.Greater(t, repoIdx, 0)
	assert.Greater(t, teamIdx, repoIdx, "team rules must follow repository URL")
	assert.Greater(t, archIdx, teamIdx, "architecture rules must follow team rules")
	assert.Greater(t, ardIdx, archIdx)
	assert.Greater(t, prdIdx, ardIdx)
}

func TestContextBundle_Render_OmitsEmptySections(t *testing.T) {
	bundle := developmentBundle()
	bundle.Config.ArchitectureRulesContent = ""

	prompt := bundle.Render()

	assert.NotContains(t, prompt, "ARCHITECTURE RULES CONTENT")
	assert.NotContains(t, prompt, "PULL REQUEST", "development prompt must not carry a PR section")
}

func TestContextBundle_Render_InlineArchitectureRules(t *testing.T) {
	bundle := developmentBundle()
	bundle.Config.ArchitectureRulesContent = "Services talk via gRPC only."

	prompt := bundle.Render()

	assert.Contains(t, prompt, "# ARCHITECTURE RULES CONTENT")
	assert.Contains(t, prompt, "Services talk via gRPC only.")
}

func TestContextBundle_Render_ReviewCarriesPRLink(t *testing.T) {
	bundle := developmentBundle()
	bundle.Role = domain.RoleArchitectureReview
	bundle.PRLink = "https://git.example.com/pay/core/pull/7"

	prompt := bundle.Render()

	assert.Contains(t, prompt, "# PULL REQUEST")
	assert.Contains(t, prompt, "https://git.example.com/pay/core/pull/7")
}

func TestDocumentSection_UnavailableMarker(t *testing.T) {
	section := domain.DocumentSection{Key: "ARD-PAY", Available: false}

	assert.Equal(t, "[document unavailable: ARD-PAY]", section.Text())

	bundle := developmentBundle()
	bundle.ARD = section
	prompt := bundle.Render()

	assert.Contains(t, prompt, "[document unavailable: ARD-PAY]",
		"prompt must carry an explicit marker instead of silently dropping the section")
}

func TestContextBundle_Render_TaskCarriesKeyAndSummary(t *testing.T) {
	prompt := developmentBundle().Render()

	assert.Contains(t, prompt, "PAY-42: [pay] Add refund endpoint")
	assert.Contains(t, prompt, "Expose POST /refunds.")
}

func TestContextBundle_MissingDocuments(t *testing.T) {
	bundle := developmentBundle()
	assert.Empty(t, bundle.MissingDocuments())

	bundle.ARD = domain.DocumentSection{Key: "ARD-PAY", Available: false}
	bundle.PRD = domain.DocumentSection{Key: "PRD-PAY", Available: false}

	assert.Equal(t, []string{"ARD-PAY", "PRD-PAY"}, bundle.MissingDocuments())
}
