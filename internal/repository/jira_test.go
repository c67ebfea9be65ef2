package repository_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-orchestrator/internal/config"
	"ai-orchestrator/internal/domain"
	"ai-orchestrator/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jiraTestConfig(serverURL string) config.Config {
	return config.Config{
		JiraURL:        serverURL,
		JiraUsername:   "bot@example.com",
		JiraAPIToken:   "secret-token",
		HTTPTimeout:    2 * time.Second,
		HTTPMaxRetries: 2,
		HTTPRetryBase:  time.Millisecond,
	}
}

func TestJiraRepository_TransitionTo(t *testing.T) {
	var posted map[string]map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, token, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "bot@example.com", username)
		assert.Equal(t, "secret-token", token)
		assert.Equal(t, "/rest/api/3/issue/PAY-1/transitions", r.URL.Path)

		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"transitions":[
				{"id":"11","name":"Start","to":{"name":"In Progress"}},
				{"id":"31","name":"Submit","to":{"name":"To approve"}}
			]}`))
		case http.MethodPost:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	err := repo.TransitionTo(context.Background(), "PAY-1", domain.StatusToApprove)

	require.NoError(t, err)
	assert.Equal(t, "31", posted["transition"]["id"])
}

func TestJiraRepository_TransitionToMatchesCaseInsensitively(t *testing.T) {
	var posted map[string]map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"transitions":[{"id":"21","name":"Begin","to":{"name":"IN PROGRESS"}}]}`))
			return
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&posted))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	err := repo.TransitionTo(context.Background(), "PAY-1", domain.StatusInProgress)

	require.NoError(t, err)
	assert.Equal(t, "21", posted["transition"]["id"])
}

func TestJiraRepository_TransitionToWithoutMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"transitions":[{"id":"11","name":"Start","to":{"name":"In Progress"}}]}`))
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	err := repo.TransitionTo(context.Background(), "PAY-1", domain.StatusDone)

	assert.ErrorIs(t, err, domain.ErrTransitionFailed)
}

func TestJiraRepository_TransitionToUnknownIssue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	err := repo.TransitionTo(context.Background(), "PAY-404", domain.StatusDone)

	assert.ErrorIs(t, err, domain.ErrIssueNotFound)
}

func TestJiraRepository_Comment(t *testing.T) {
	var payload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/3/issue/PAY-1/comment", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"10001"}`))
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	err := repo.Comment(context.Background(), "PAY-1", "dispatch blocked")

	require.NoError(t, err)

	// Комментарий уходит одним параграфом в формате ADF.
	body, ok := payload["body"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "doc", body["type"])
	assert.Equal(t, float64(1), body["version"])

	paragraph := body["content"].([]interface{})[0].(map[string]interface{})
	text := paragraph["content"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "dispatch blocked", text["text"])
}

func TestJiraRepository_FindPullRequestLink(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/issue/PAY-1/remotelink", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"object":{"url":"https://wiki.example.com/pages/42","title":"Design"}},
			{"object":{"url":"https://github.com/acme/pay/pull/7","title":"PR #7"}}
		]`))
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	link, err := repo.FindPullRequestLink(context.Background(), "PAY-1")

	require.NoError(t, err)
	assert.Equal(t, "https://github.com/acme/pay/pull/7", link)
}

func TestJiraRepository_FindPullRequestLinkAbsent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"object":{"url":"https://wiki.example.com/pages/42","title":"Design"}}]`))
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	link, err := repo.FindPullRequestLink(context.Background(), "PAY-1")

	require.NoError(t, err)
	assert.Empty(t, link)
}

func TestJiraRepository_Myself(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/myself", r.URL.Path)
		_, _ = w.Write([]byte(`{"displayName":"AI Orchestrator","emailAddress":"bot@example.com"}`))
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	name, err := repo.Myself(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "AI Orchestrator", name)
}

func TestJiraRepository_ListWebhooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/api/3/webhook", r.URL.Path)
		_, _ = w.Write([]byte(`{"values":[
			{"id":1001,"url":"https://orchestrator.example.com/webhooks/jira/issue-created","events":["jira:issue_created"]}
		]}`))
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	hooks, err := repo.ListWebhooks(context.Background())

	require.NoError(t, err)
	require.Len(t, hooks, 1)
	assert.Equal(t, "1001", hooks[0].ID)
	assert.Equal(t, "https://orchestrator.example.com/webhooks/jira/issue-created", hooks[0].URL)
	assert.Equal(t, []string{"jira:issue_created"}, hooks[0].Events)
}

func TestJiraRepository_RegisterWebhook(t *testing.T) {
	var payload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/api/3/webhook", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	err := repo.RegisterWebhook(
		context.Background(),
		"https://orchestrator.example.com/webhooks/jira/issue-updated",
		domain.EventIssueUpdated,
		"labels = ai",
	)

	require.NoError(t, err)
	assert.Equal(t, "AI Orchestrator Webhook", payload["name"])
	assert.Equal(t, "https://orchestrator.example.com/webhooks/jira/issue-updated", payload["url"])
	assert.Equal(t, []interface{}{"jira:issue_updated"}, payload["events"])
	assert.Equal(t, false, payload["excludeBody"])
	assert.Equal(t, "labels = ai", payload["jqlFilter"])
}

func TestJiraRepository_RetriesServerErrors(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"displayName":"AI Orchestrator"}`))
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	name, err := repo.Myself(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "AI Orchestrator", name)
	assert.Equal(t, 2, attempts)
}

func TestJiraRepository_NoRetryOnAuthFailure(t *testing.T) {
	attempts := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	repo := repository.NewJiraRepository(jiraTestConfig(server.URL))

	_, err := repo.Myself(context.Background())

	// Клиентские статусы финальны: повторы только для 429 и 5xx.
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}
