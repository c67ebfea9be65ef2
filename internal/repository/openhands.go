package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"ai-orchestrator/internal/config"
	"ai-orchestrator/internal/domain"
)

// AgentRepository реализует отправку заданий в среду выполнения
// агентов (OpenHands-совместимый API диалогов).
type AgentRepository struct {
	client *apiClient
}

// NewAgentRepository создает новый экземпляр AgentRepository.
func NewAgentRepository(cfg config.Config) domain.AgentDispatcher {
	return &AgentRepository{
		client: newAPIClient(
			cfg.AgentURL,
			"", "",
			cfg.HTTPTimeout,
			cfg.HTTPMaxRetries,
			cfg.HTTPRetryBase,
		),
	}
}

type conversationRequest struct {
	DispatchID     string `json:"dispatch_id"`
	Role           string `json:"role"`
	IssueKey       string `json:"issue_key"`
	InitialUserMsg string `json:"initial_user_msg"`
}

// Assign создает диалог с агентом, передавая скомпилированный контекст
// первым сообщением. Подтверждение приема (2xx) считается успехом;
// за дальнейшей судьбой задания оркестратор не следит.
func (r *AgentRepository) Assign(ctx context.Context, d domain.Dispatch) error {
	if strings.TrimSpace(d.Prompt) == "" {
		return domain.ErrInvalidDispatch
	}

	payload := conversationRequest{
		DispatchID:     d.DispatchID,
		Role:           string(d.Role),
		IssueKey:       d.IssueKey,
		InitialUserMsg: d.Prompt,
	}

	if err := r.client.doJSON(ctx, http.MethodPost, "/api/conversations", nil, payload, nil); err != nil {
		return fmt.Errorf("failed to assign agent: %w", err)
	}
	return nil
}
