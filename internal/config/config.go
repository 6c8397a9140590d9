package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Logger       LoggerConfig
	Assignment   AssignmentConfig
	Notification NotificationConfig
}

// AppConfig controls identification of the running instance.
type AppConfig struct {
	Name    string
	Env     string
	Version string
}

// LoggerConfig configures logging behavior. Encoding is "json" or
// "console".
type LoggerConfig struct {
	Level    string
	Encoding string
}

// AssignmentConfig selects the agent-selection strategy.
type AssignmentConfig struct {
	Policy domain.AssignmentPolicyKind
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	policy, err := domain.ParseAssignmentPolicyKind(getEnv("DESK_ASSIGNMENT_POLICY", string(domain.PolicyLeastWorkload)))
	if err != nil {
		return nil, fmt.Errorf("invalid DESK_ASSIGNMENT_POLICY: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "support-desk"),
			Env:     getEnv("APP_ENV", "development"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			Encoding: getEnv("LOG_ENCODING", "json"),
		},
		Assignment: AssignmentConfig{
			Policy: policy,
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", "noreply@example.com"),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
