// Package notify publishes report pipeline progress events. Publishing is
// fire and forget: a subscriber failure is logged and never propagated to
// the pipeline.
package notify

import "context"

// Kind distinguishes the progress announcements a pipeline makes.
type Kind string

const (
	// KindReportUpdated announces a markdown report field upsert.
	KindReportUpdated Kind = "report_updated"
	// KindHTMLUpdated announces an HTML report field upsert.
	KindHTMLUpdated Kind = "html_updated"
	// KindCompleted announces the end of the markdown pipeline.
	KindCompleted Kind = "completed"
	// KindHTMLCompleted announces the end of HTML generation.
	KindHTMLCompleted Kind = "html_completed"
)

// Event announces pipeline progress for one project.
type Event struct {
	ProjectID  string
	Kind       Kind
	ReportType string
}

// Publisher receives pipeline progress events.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
