// Package render produces the final HTML document from a cited markdown
// report by filling a fixed template.
package render

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/salesintel/market-stream/pkg/grounding"
)

var placeholder = regexp.MustCompile(`\[\[([A-Z][A-Z0-9_]*)\]\]`)

// TextGenerator is the LLM used to fill the template.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

type Renderer struct {
	LLM    TextGenerator
	Logger *slog.Logger
}

func NewRenderer(llm TextGenerator, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{LLM: llm, Logger: logger}
}

// RenderHTML asks the LLM to fill the fixed template from the cited report,
// then sweeps any surviving placeholder into a missing sentinel so literal
// placeholder text never reaches the end user.
func (r *Renderer) RenderHTML(ctx context.Context, report string, sources map[string]grounding.Source) (string, error) {
	sourcesJSON, err := json.Marshal(sources)
	if err != nil {
		return "", fmt.Errorf("failed to serialize sources: %w", err)
	}

	input := fmt.Sprintf("Report (cited markdown):\n%s\n\nCitation sources:\n%s", report, sourcesJSON)
	html, err := r.LLM.Generate(ctx, composerInstructions, input)
	if err != nil {
		return "", fmt.Errorf("html generation failed: %w", err)
	}

	swept, unresolved := SweepPlaceholders(html)
	if unresolved > 0 {
		r.Logger.Warn("unresolved template placeholders marked missing", "count", unresolved)
	}
	return swept, nil
}

// SweepPlaceholders replaces every unresolved [[NAME]] placeholder with a
// [[MISSING_NAME]] sentinel and reports how many were replaced. Sentinels
// already marked missing pass through unchanged.
func SweepPlaceholders(html string) (string, int) {
	unresolved := 0
	out := placeholder.ReplaceAllStringFunc(html, func(tag string) string {
		name := placeholder.FindStringSubmatch(tag)[1]
		if strings.HasPrefix(name, "MISSING_") {
			return tag
		}
		unresolved++
		return "[[MISSING_" + name + "]]"
	})
	return out, unresolved
}
