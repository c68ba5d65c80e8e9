package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/salesintel/market-stream/pkg/grounding"
)

func TestSweepPlaceholders(t *testing.T) {
	tests := []struct {
		name           string
		in             string
		want           string
		wantUnresolved int
	}{
		{
			"unresolved placeholder marked missing",
			`<div>[[REVENUE]]</div>`,
			`<div>[[MISSING_REVENUE]]</div>`,
			1,
		},
		{
			"existing missing sentinel untouched",
			`<div>[[MISSING_REVENUE]]</div>`,
			`<div>[[MISSING_REVENUE]]</div>`,
			0,
		},
		{
			"filled content untouched",
			`<div>$12M ARR</div>`,
			`<div>$12M ARR</div>`,
			0,
		},
		{
			"multiple placeholders",
			`[[ORG_NAME]] founded [[FOUNDED_YEAR]]`,
			`[[MISSING_ORG_NAME]] founded [[MISSING_FOUNDED_YEAR]]`,
			2,
		},
		{
			"lowercase brackets are not placeholders",
			`array[[i]]`,
			`array[[i]]`,
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, unresolved := SweepPlaceholders(tt.in)
			if got != tt.want {
				t.Errorf("swept = %q, want %q", got, tt.want)
			}
			if unresolved != tt.wantUnresolved {
				t.Errorf("unresolved = %d, want %d", unresolved, tt.wantUnresolved)
			}
		})
	}
}

type fakeLLM struct {
	output string
	err    error
	system string
}

func (f *fakeLLM) Generate(ctx context.Context, system, user string) (string, error) {
	f.system = system
	return f.output, f.err
}

func TestRenderHTMLSweepsLeftovers(t *testing.T) {
	llm := &fakeLLM{output: `<html><body><h1>Acme</h1><p>[[MARKET_TRENDS]]</p></body></html>`}
	r := NewRenderer(llm, nil)

	got, err := r.RenderHTML(context.Background(), "# Report", map[string]grounding.Source{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "[[MISSING_MARKET_TRENDS]]") {
		t.Errorf("leftover placeholder not swept:\n%s", got)
	}
	if !strings.Contains(llm.system, "[[ORG_NAME]]") {
		t.Error("template not included in generation prompt")
	}
}

func TestRenderHTMLPropagatesGenerationError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("model overloaded")}
	r := NewRenderer(llm, nil)

	if _, err := r.RenderHTML(context.Background(), "# Report", nil); err == nil {
		t.Fatal("expected error")
	}
}
