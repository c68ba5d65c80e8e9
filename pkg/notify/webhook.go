package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultWebhookTimeout bounds one status update call.
const DefaultWebhookTimeout = 10 * time.Second

// WebhookNotifier publishes events as PUT requests against the project
// status endpoint of an external tracking service. Markdown progress maps
// to the "sub_status" body key, HTML progress to "agent_status".
type WebhookNotifier struct {
	BaseURL string
	Client  *http.Client
	Logger  *slog.Logger
}

func NewWebhookNotifier(baseURL string, logger *slog.Logger) *WebhookNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookNotifier{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: DefaultWebhookTimeout},
		Logger:  logger,
	}
}

// Publish sends one status update. Failures are logged and swallowed.
func (n *WebhookNotifier) Publish(ctx context.Context, ev Event) {
	body, ok := statusBody(ev)
	if !ok {
		n.Logger.Warn("unknown notification kind dropped", "kind", ev.Kind)
		return
	}

	payload, err := json.Marshal(body)
	if err != nil {
		n.Logger.Error("failed to encode status update", "error", err)
		return
	}

	url := fmt.Sprintf("%s/project-status-update/%s/", n.BaseURL, ev.ProjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		n.Logger.Error("failed to build status update request", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		n.Logger.Error("status update failed", "project_id", ev.ProjectID, "url", url, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		n.Logger.Error("status update rejected", "project_id", ev.ProjectID,
			"url", url, "status", resp.StatusCode)
		return
	}
	n.Logger.Info("status update sent", "project_id", ev.ProjectID, "kind", ev.Kind)
}

func statusBody(ev Event) (map[string]string, bool) {
	switch ev.Kind {
	case KindReportUpdated:
		return map[string]string{"sub_status": ev.ReportType + " updated"}, true
	case KindHTMLUpdated:
		return map[string]string{"agent_status": ev.ReportType + " updated"}, true
	case KindCompleted:
		return map[string]string{"sub_status": "Completed"}, true
	case KindHTMLCompleted:
		return map[string]string{"agent_status": "Completed"}, true
	}
	return nil, false
}
