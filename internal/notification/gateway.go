package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/OpenMSDQ/msdq/internal/events"
)

// WebhookGateway posts each event as JSON to a configured endpoint. Delivery
// is best-effort: callers log failures, the workflow mutation has already
// committed.
type WebhookGateway struct {
	url    string
	client *http.Client
}

func NewWebhookGateway(url string, timeout time.Duration) *WebhookGateway {
	return &WebhookGateway{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (g *WebhookGateway) Name() string {
	return "webhook"
}

func (g *WebhookGateway) Deliver(ctx context.Context, event events.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// LogGateway writes events to the structured log. Used when no webhook is
// configured so notifications remain observable in development.
type LogGateway struct{}

func NewLogGateway() *LogGateway {
	return &LogGateway{}
}

func (g *LogGateway) Name() string {
	return "log"
}

func (g *LogGateway) Deliver(_ context.Context, event events.Event) error {
	slog.Info("notification",
		"type", event.Type,
		"workflowID", event.WorkflowID,
		"actor", event.Actor,
		"fromState", event.FromState,
		"toState", event.ToState,
		"team", event.Team,
	)
	return nil
}
