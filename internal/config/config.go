package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	LogLevel   string

	JiraURL      string
	JiraUsername string
	JiraAPIToken string

	ConfluenceURL      string
	ConfluenceUsername string
	ConfluenceAPIToken string
	ConfluenceSpaceKey string

	AgentURL string

	WebhookBaseURL   string
	WebhookEnabled   bool
	WebhookJQLFilter string

	HTTPTimeout    time.Duration
	HTTPMaxRetries int
	HTTPRetryBase  time.Duration

	MaxReviewCycles int

	DatabaseURL string
}

func LoadConfig() (Config, error) {

	err := godotenv.Load()

	return Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		JiraURL:      getEnv("JIRA_URL", ""),
		JiraUsername: getEnv("JIRA_USERNAME", ""),
		JiraAPIToken: getEnv("JIRA_API_TOKEN", ""),

		ConfluenceURL:      getEnv("CONFLUENCE_URL", ""),
		ConfluenceUsername: getEnv("CONFLUENCE_USERNAME", ""),
		ConfluenceAPIToken: getEnv("CONFLUENCE_API_TOKEN", ""),
		ConfluenceSpaceKey: getEnv("CONFLUENCE_SPACE_KEY", ""),

		AgentURL: getEnv("AGENT_URL", ""),

		WebhookBaseURL:   getEnv("WEBHOOK_BASE_URL", "http://localhost:8080"),
		WebhookEnabled:   getEnvBool("WEBHOOK_ENABLED", true),
		WebhookJQLFilter: getEnv("WEBHOOK_JQL_FILTER", ""),

		HTTPTimeout:    time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 10)) * time.Second,
		HTTPMaxRetries: getEnvInt("HTTP_MAX_RETRIES", 3),
		HTTPRetryBase:  time.Duration(getEnvInt("HTTP_RETRY_BASE_MS", 200)) * time.Millisecond,

		MaxReviewCycles: getEnvInt("MAX_REVIEW_CYCLES", 0),

		DatabaseURL: getEnv("DATABASE_URL", ""),
	}, err
}

// Validate проверяет, что заданы переменные, без которых сервис
// не сможет обращаться к внешним системам.
func (c Config) Validate() error {
	required := map[string]string{
		"JIRA_URL":             c.JiraURL,
		"JIRA_USERNAME":        c.JiraUsername,
		"JIRA_API_TOKEN":       c.JiraAPIToken,
		"CONFLUENCE_URL":       c.ConfluenceURL,
		"CONFLUENCE_USERNAME":  c.ConfluenceUsername,
		"CONFLUENCE_API_TOKEN": c.ConfluenceAPIToken,
		"AGENT_URL":            c.AgentURL,
	}

	var missing []string
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
