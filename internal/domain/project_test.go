package domain_test

import (
	"testing"

	"ai-orchestrator/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestProjectIdentifier_Normalized(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "Simple tag",
			raw:      "pay",
			expected: "PAY",
		},
		{
			name:     "Hyphen replaced with underscore",
			raw:      "pay-core",
			expected: "PAY_CORE",
		},
		{
			name:     "Already normalized",
			raw:      "BILLING",
			expected: "BILLING",
		},
		{
			name:     "Mixed case with hyphens",
			raw:      "Ops-Tools-V2",
			expected: "OPS_TOOLS_V2",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id := domain.NewProjectIdentifier(tc.raw)
			assert.Equal(t, tc.expected, id.Normalized())
		})
	}
}

func TestProjectIdentifier_ConfigKey(t *testing.T) {
	id := domain.NewProjectIdentifier("pay-core")

	assert.Equal(t, "PROJECT_REPO_PAY_CORE", id.ConfigKey(domain.KeyProjectRepo))
	assert.Equal(t, "ARD_URL_PAY_CORE", id.ConfigKey(domain.KeyARD))
}

func TestProjectIdentifier_IsZero(t *testing.T) {
	assert.True(t, domain.NewProjectIdentifier("").IsZero())
	assert.True(t, domain.NewProjectIdentifier("   ").IsZero())
	assert.False(t, domain.NewProjectIdentifier("pay").IsZero())
}

func TestRequiredProjectKeys_Order(t *testing.T) {
	expected := []string{
		domain.KeyProjectRepo,
		domain.KeyTeamRules,
		domain.KeyArchitectureRules,
		domain.KeyPRD,
		domain.KeyARD,
	}
	assert.Equal(t, expected, domain.RequiredProjectKeys())
}
