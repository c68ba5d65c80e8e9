package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookPublishSendsStatusUpdate(t *testing.T) {
	tests := []struct {
		name      string
		event     Event
		wantKey   string
		wantValue string
	}{
		{
			"report update uses sub_status",
			Event{ProjectID: "p1", Kind: KindReportUpdated, ReportType: "target_org_research"},
			"sub_status", "target_org_research updated",
		},
		{
			"html update uses agent_status",
			Event{ProjectID: "p1", Kind: KindHTMLUpdated, ReportType: "market_context"},
			"agent_status", "market_context updated",
		},
		{
			"completion",
			Event{ProjectID: "p1", Kind: KindCompleted},
			"sub_status", "Completed",
		},
		{
			"html completion",
			Event{ProjectID: "p1", Kind: KindHTMLCompleted},
			"agent_status", "Completed",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotMethod, gotPath, gotContentType string
			var gotBody map[string]string

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotMethod = r.Method
				gotPath = r.URL.Path
				gotContentType = r.Header.Get("Content-Type")
				raw, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(raw, &gotBody)
				w.WriteHeader(http.StatusOK)
			}))
			defer srv.Close()

			n := NewWebhookNotifier(srv.URL+"/", nil)
			n.Publish(context.Background(), tt.event)

			if gotMethod != http.MethodPut {
				t.Errorf("method = %s, want PUT", gotMethod)
			}
			if gotPath != "/project-status-update/p1/" {
				t.Errorf("path = %s", gotPath)
			}
			if gotContentType != "application/json" {
				t.Errorf("content type = %s", gotContentType)
			}
			if gotBody[tt.wantKey] != tt.wantValue {
				t.Errorf("body = %v, want %s=%s", gotBody, tt.wantKey, tt.wantValue)
			}
		})
	}
}

func TestWebhookPublishSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, nil)
	// Rejected update and unreachable endpoint both return normally.
	n.Publish(context.Background(), Event{ProjectID: "p1", Kind: KindCompleted})

	srv.Close()
	n.Publish(context.Background(), Event{ProjectID: "p1", Kind: KindCompleted})
}

func TestWebhookPublishDropsUnknownKind(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, nil)
	n.Publish(context.Background(), Event{ProjectID: "p1", Kind: "mystery"})

	if called {
		t.Error("unknown kind must not hit the endpoint")
	}
}
