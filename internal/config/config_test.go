package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Workflow.OverdueThresholdDays)
	assert.Equal(t, 100, cfg.Workflow.EventBufferSize)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Empty(t, cfg.Notification.WebhookURL)
	assert.Equal(t, 5, cfg.Notification.TimeoutSeconds)
}

func TestLoad_MissingPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestLoad_WorkflowOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("WORKFLOW_OVERDUE_THRESHOLD_DAYS", "7")
	t.Setenv("WORKFLOW_EVENT_BUFFER_SIZE", "500")
	t.Setenv("NOTIFICATION_WEBHOOK_URL", "https://hooks.example.com/msdq")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, 7, cfg.Workflow.OverdueThresholdDays)
	assert.Equal(t, 500, cfg.Workflow.EventBufferSize)
	assert.Equal(t, "https://hooks.example.com/msdq", cfg.Notification.WebhookURL)
}

func TestLoad_RejectsNonPositiveThreshold(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("WORKFLOW_OVERDUE_THRESHOLD_DAYS", "0")

	_, err := Load()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "WORKFLOW_OVERDUE_THRESHOLD_DAYS")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		Username: "msdq",
		Password: "p@ss/word",
		Name:     "msdq_db",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5433")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters in the password must be escaped.
	assert.NotContains(t, dsn, "p@ss/word")
}
