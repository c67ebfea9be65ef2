package usecase

import (
	"context"
	"fmt"
	"strings"

	"ai-orchestrator/internal/domain"

	"github.com/sirupsen/logrus"
)

// WebhookUseCase реализует идемпотентную регистрацию подписок на
// события трекера при старте сервиса.
type WebhookUseCase struct {
	admin  domain.TrackerAdmin
	logger *logrus.Logger
}

// NewWebhookUseCase создает новый экземпляр WebhookUseCase.
func NewWebhookUseCase(admin domain.TrackerAdmin, logger *logrus.Logger) domain.WebhookManager {
	return &WebhookUseCase{
		admin:  admin,
		logger: logger,
	}
}

// EnsureRegistered проверяет соединение с трекером и регистрирует
// подписки на создание и обновление задач. Уже существующие подписки
// не дублируются, поэтому перезапуск сервиса безопасен.
func (uc *WebhookUseCase) EnsureRegistered(ctx context.Context, baseURL, jqlFilter string) error {
	// 1. Проверяем соединение и права учетной записи.
	account, err := uc.admin.Myself(ctx)
	if err != nil {
		return fmt.Errorf("tracker connection check: %w", err)
	}
	uc.logger.WithField("account", account).Info("tracker connection verified")

	// 2. Снимаем список уже зарегистрированных подписок.
	existing, err := uc.admin.ListWebhooks(ctx)
	if err != nil {
		return fmt.Errorf("list webhooks: %w", err)
	}
	registered := make(map[string]bool, len(existing))
	for _, wh := range existing {
		registered[wh.URL] = true
	}

	// 3. Регистрируем недостающие: по одной подписке на эндпоинт.
	subscriptions := []struct {
		path  string
		event domain.EventType
	}{
		{domain.WebhookPathIssueCreated, domain.EventIssueCreated},
		{domain.WebhookPathIssueUpdated, domain.EventIssueUpdated},
	}

	base := strings.TrimRight(baseURL, "/")
	for _, sub := range subscriptions {
		callback := base + sub.path
		if registered[callback] {
			uc.logger.WithField("url", callback).Info("webhook already registered")
			continue
		}
		if err := uc.admin.RegisterWebhook(ctx, callback, sub.event, jqlFilter); err != nil {
			return fmt.Errorf("register webhook %s: %w", callback, err)
		}
		uc.logger.WithField("url", callback).Info("webhook registered")
	}

	return nil
}
