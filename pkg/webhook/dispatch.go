package webhook

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ccollicutt/backuplog/pkg/config"
	"github.com/ccollicutt/backuplog/pkg/output"
)

// ShouldFire reports whether a webhook with the given trigger fires for a
// report. An empty trigger behaves like on_issues.
func ShouldFire(trigger config.WebhookTrigger, hasIssues bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasIssues
	}
}

// Dispatcher delivers a report to every configured webhook.
type Dispatcher struct {
	client *Client
	logger zerolog.Logger
}

// NewDispatcher creates a dispatcher that logs each delivery.
func NewDispatcher(client *Client, logger zerolog.Logger) *Dispatcher {
	if client == nil {
		client = NewClient()
	}
	return &Dispatcher{client: client, logger: logger}
}

// Dispatch sends the report to each webhook whose trigger matches and
// returns the number of failed deliveries. Failures never abort the run.
func (d *Dispatcher) Dispatch(ctx context.Context, hooks []config.WebhookConfig, report *output.Report) int {
	failed := 0
	for _, wh := range hooks {
		if !ShouldFire(wh.Trigger, report.HasIssues()) {
			continue
		}

		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		resp := d.client.Send(ctx, report, SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		if resp.Success() {
			d.logger.Info().
				Str("webhook", name).
				Int("status", resp.StatusCode).
				Dur("duration", resp.Duration).
				Msg("webhook sent")
			continue
		}

		failed++
		d.logger.Error().
			Err(resp.Error).
			Str("webhook", name).
			Int("status", resp.StatusCode).
			Msg("webhook failed")
	}
	return failed
}
