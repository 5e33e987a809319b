// Package webhook posts backup analysis reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ccollicutt/backuplog/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// maxResponseBody caps how much of the endpoint's reply is kept.
const maxResponseBody = 1024 * 1024

// Event names carried in the payload.
const (
	EventBackupOK     = "backup.ok"
	EventBackupIssues = "backup.issues"
)

// RunIDHeader carries the report's run identifier.
const RunIDHeader = "X-Backuplog-Run-ID"

// Payload is the JSON body posted to a webhook.
type Payload struct {
	Event        string         `json:"event"`
	RunID        string         `json:"run_id"`
	AnalysisDate string         `json:"analysis_date"`
	HasIssues    bool           `json:"has_issues"`
	Report       *output.Report `json:"report"`
}

// NewPayload wraps a report for delivery.
func NewPayload(report *output.Report) *Payload {
	event := EventBackupOK
	if report.HasIssues() {
		event = EventBackupIssues
	}
	return &Payload{
		Event:        event,
		RunID:        report.RunID,
		AnalysisDate: report.Metadata.AnalysisDate.Format(time.DateOnly),
		HasIssues:    report.HasIssues(),
		Report:       report,
	}
}

// Client sends analysis reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new webhook client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
	}
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a webhook request.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts an analysis report to a webhook endpoint.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}
	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	payload, err := json.Marshal(NewPayload(report))
	if err != nil {
		return fail(fmt.Errorf("failed to marshal report: %w", err))
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(payload))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "backuplog-webhook")
	req.Header.Set(RunIDHeader, report.RunID)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return fail(fmt.Errorf("failed to read response: %w", err))
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}
