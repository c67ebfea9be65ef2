package usecase_test

import (
	"context"
	"io"

	"ai-orchestrator/internal/domain"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

// mapStore подменяет источник конфигурации детерминированной картой.
type mapStore map[string]string

func (m mapStore) Get(key string) (string, bool) {
	value, ok := m[key]
	return value, ok
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type DocumentStoreMock struct {
	mock.Mock
}

func (m *DocumentStoreMock) FetchByTitle(ctx context.Context, spaceKey, title string) (*domain.Document, error) {
	args := m.Called(ctx, spaceKey, title)
	if doc := args.Get(0); doc != nil {
		return doc.(*domain.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *DocumentStoreMock) FetchByURL(ctx context.Context, pageURL string) (*domain.Document, error) {
	args := m.Called(ctx, pageURL)
	if doc := args.Get(0); doc != nil {
		return doc.(*domain.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

type DispatcherMock struct {
	mock.Mock
}

func (m *DispatcherMock) Assign(ctx context.Context, d domain.Dispatch) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

type TrackerMock struct {
	mock.Mock
}

func (m *TrackerMock) TransitionTo(ctx context.Context, issueKey string, target domain.Status) error {
	args := m.Called(ctx, issueKey, target)
	return args.Error(0)
}

func (m *TrackerMock) Comment(ctx context.Context, issueKey, body string) error {
	args := m.Called(ctx, issueKey, body)
	return args.Error(0)
}

func (m *TrackerMock) FindPullRequestLink(ctx context.Context, issueKey string) (string, error) {
	args := m.Called(ctx, issueKey)
	return args.String(0), args.Error(1)
}

type TrackerAdminMock struct {
	mock.Mock
}

func (m *TrackerAdminMock) Myself(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *TrackerAdminMock) ListWebhooks(ctx context.Context) ([]domain.RegisteredWebhook, error) {
	args := m.Called(ctx)
	if hooks := args.Get(0); hooks != nil {
		return hooks.([]domain.RegisteredWebhook), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackerAdminMock) RegisterWebhook(ctx context.Context, callbackURL string, event domain.EventType, jqlFilter string) error {
	args := m.Called(ctx, callbackURL, event, jqlFilter)
	return args.Error(0)
}

type JournalMock struct {
	mock.Mock
}

func (m *JournalMock) AlreadyDispatched(ctx context.Context, issueKey string, target domain.Status) (bool, error) {
	args := m.Called(ctx, issueKey, target)
	return args.Bool(0), args.Error(1)
}

func (m *JournalMock) RecordDispatch(ctx context.Context, rec domain.DispatchRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *JournalMock) ClearDispatches(ctx context.Context, issueKey string) error {
	args := m.Called(ctx, issueKey)
	return args.Error(0)
}

func (m *JournalMock) HasDispatched(ctx context.Context, issueKey string) (bool, error) {
	args := m.Called(ctx, issueKey)
	return args.Bool(0), args.Error(1)
}

func (m *JournalMock) RecordRejection(ctx context.Context, issueKey string) (int, error) {
	args := m.Called(ctx, issueKey)
	return args.Int(0), args.Error(1)
}

func (m *JournalMock) ClearRejections(ctx context.Context, issueKey string) error {
	args := m.Called(ctx, issueKey)
	return args.Error(0)
}
