package pipeline

import (
	"context"

	"github.com/salesintel/market-stream/pkg/grounding"
)

// TextCapability is an LLM used for planning, grading and composition.
type TextCapability interface {
	Generate(ctx context.Context, system, user string) (string, error)
	// GenerateJSON requests JSON-mode output and retries until the
	// validator accepts the content or attempts are exhausted.
	GenerateJSON(ctx context.Context, system, user string, validate func(string) error) (string, error)
}

// SearchCapability is an LLM with web search grounding. It returns the
// generated text together with the grounding events that back it.
type SearchCapability interface {
	GenerateGrounded(ctx context.Context, prompt string) (string, []grounding.Event, error)
}

// CitationRenderer turns inline citation tags into numbered references.
type CitationRenderer interface {
	Render(report string, sources map[string]grounding.Source) string
}

// HTMLRenderer produces the final HTML document from the cited report.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, report string, sources map[string]grounding.Source) (string, error)
}
