package handler_test

import (
	"context"
	"io"

	"ai-orchestrator/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

// OrchestratorMock подменяет бизнес-логику маршрутизации событий.
type OrchestratorMock struct {
	mock.Mock
}

func (m *OrchestratorMock) Route(ctx context.Context, event *domain.IssueEvent) (*domain.Decision, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Decision), args.Error(1)
}

func (m *OrchestratorMock) HandleEvent(ctx context.Context, event *domain.IssueEvent) *domain.EventResult {
	args := m.Called(ctx, event)
	return args.Get(0).(*domain.EventResult)
}

func (m *OrchestratorMock) ApplyReviewOutcome(ctx context.Context, issueKey string, outcome domain.ReviewOutcome, feedback, prLink string) error {
	args := m.Called(ctx, issueKey, outcome, feedback, prLink)
	return args.Error(0)
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
