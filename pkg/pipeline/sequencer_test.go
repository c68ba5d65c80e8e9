package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/salesintel/market-stream/pkg/grounding"
)

type fakeText struct {
	verdicts     []string
	verdictCalls int
	textCalls    int
}

func (f *fakeText) Generate(ctx context.Context, system, user string) (string, error) {
	f.textCalls++
	if strings.Contains(system, "Citation rules") {
		return `Acme is growing<cite source="src-1" />.`, nil
	}
	return "# Outline\n- Section A\n- Section B", nil
}

func (f *fakeText) GenerateJSON(ctx context.Context, system, user string, validate func(string) error) (string, error) {
	if f.verdictCalls >= len(f.verdicts) {
		return "", errors.New("no verdict scripted")
	}
	content := f.verdicts[f.verdictCalls]
	f.verdictCalls++
	if err := validate(content); err != nil {
		return "", err
	}
	return content, nil
}

type fakeSearch struct {
	calls   int
	queries []string
}

func (f *fakeSearch) GenerateGrounded(ctx context.Context, prompt string) (string, []grounding.Event, error) {
	f.calls++
	f.queries = append(f.queries, prompt)
	events := []grounding.Event{{
		Chunks: []grounding.Chunk{{
			URI:    "https://example.com/acme",
			Title:  "Acme Overview",
			Domain: "example.com",
		}},
	}}
	return "finding: acme ships widgets", events, nil
}

type fakeCitations struct{ calls int }

func (f *fakeCitations) Render(report string, sources map[string]grounding.Source) string {
	f.calls++
	return report + "\n\n## References\n"
}

func newTestSequencer(text *fakeText, search SearchCapability, citations *fakeCitations, cfg Config) *Sequencer {
	return NewSequencer(text, search, citations, nil, cfg, nil)
}

func TestRunEscalatesOnFirstPass(t *testing.T) {
	text := &fakeText{verdicts: []string{`{"grade": "pass", "comment": "good"}`}}
	search := &fakeSearch{}
	citations := &fakeCitations{}
	seq := newTestSequencer(text, search, citations, Config{MaxIterations: 2, SoftCap: 2})

	state := NewState("p1", VariantTargetOrg, "Acme Corp", nil)
	if err := seq.Run(context.Background(), state); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Plan and research each issue one grounded call; no gap fill on pass.
	if search.calls != 2 {
		t.Errorf("grounded calls = %d, want 2", search.calls)
	}
	if text.verdictCalls != 1 {
		t.Errorf("evaluator calls = %d, want 1", text.verdictCalls)
	}
	if !strings.Contains(state.FinalReport, "## References") {
		t.Errorf("final report missing references:\n%s", state.FinalReport)
	}
	if state.Ledger.Len() != 1 {
		t.Errorf("ledger sources = %d, want 1", state.Ledger.Len())
	}
}

func TestRunGapFillExecutesEveryQuery(t *testing.T) {
	insufficient := `{"grade": "insufficient", "comment": "thin", "follow_up_queries": [
		{"query": "\"Acme Corp\" CEO name"}, {"query": "\"Acme Corp\" incumbent CRM vendor"}
	]}`
	text := &fakeText{verdicts: []string{insufficient, insufficient}}
	search := &fakeSearch{}
	citations := &fakeCitations{}
	seq := newTestSequencer(text, search, citations, Config{MaxIterations: 2, SoftCap: 2})

	state := NewState("p1", VariantProspect, "Acme Corp", nil)
	if err := seq.Run(context.Background(), state); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Plan + research + two follow-up queries. Pass 2 hits the breaker
	// before another gap fill can run.
	if search.calls != 4 {
		t.Errorf("grounded calls = %d, want 4", search.calls)
	}
	if text.verdictCalls != 2 {
		t.Errorf("evaluator calls = %d, want 2", text.verdictCalls)
	}
	if state.Iteration != 2 {
		t.Errorf("iteration = %d, want 2", state.Iteration)
	}
	if state.GapFindings == "" {
		t.Error("gap findings were not merged")
	}
	if state.Findings == "" {
		t.Error("gap fill must not discard primary findings")
	}
}

func TestRunSurvivesBrokenGrader(t *testing.T) {
	// Grader emits prose instead of the verdict schema on every attempt.
	text := &fakeText{verdicts: []string{`looks good to me!`}}
	search := &fakeSearch{}
	citations := &fakeCitations{}
	seq := newTestSequencer(text, search, citations, Config{MaxIterations: 3, SoftCap: 3})

	state := NewState("p1", VariantTargetOrg, "Acme Corp", nil)
	if err := seq.Run(context.Background(), state); err != nil {
		t.Fatalf("broken grader aborted the pipeline: %v", err)
	}

	if state.Verdict != nil {
		t.Error("unparsable verdict should have been discarded")
	}
	if state.FinalReport == "" {
		t.Error("pipeline must still emit a report")
	}
	if search.calls != 2 {
		t.Errorf("grounded calls = %d, want 2 (no gap fill)", search.calls)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	text := &fakeText{verdicts: []string{`{"grade": "pass", "comment": "ok"}`}}
	seq := newTestSequencer(text, &fakeSearch{}, &fakeCitations{}, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	state := NewState("p1", VariantTargetOrg, "Acme Corp", nil)
	err := seq.Run(ctx, state)
	if err == nil {
		t.Fatal("cancelled run must return an error")
	}
	if state.FinalReport != "" {
		t.Error("cancelled run should not have composed a report")
	}
}

func TestRunFollowUpFailureDoesNotAbort(t *testing.T) {
	insufficient := `{"grade": "fail", "comment": "gaps", "follow_up_queries": [{"query": "q1"}, {"query": "q2"}]}`
	text := &fakeText{verdicts: []string{insufficient, `{"grade": "pass", "comment": "ok"}`}}
	search := &failingSearch{failOn: 3} // first gap-fill query fails
	citations := &fakeCitations{}
	seq := newTestSequencer(text, search, citations, Config{MaxIterations: 3, SoftCap: 3})

	state := NewState("p1", VariantTargetOrg, "Acme Corp", nil)
	if err := seq.Run(context.Background(), state); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// Both gap-fill queries were attempted even though the first failed.
	if search.calls != 4 {
		t.Errorf("grounded calls = %d, want 4", search.calls)
	}
	if state.GapFindings == "" {
		t.Error("surviving query should have contributed findings")
	}
}

type failingSearch struct {
	calls  int
	failOn int
}

func (f *failingSearch) GenerateGrounded(ctx context.Context, prompt string) (string, []grounding.Event, error) {
	f.calls++
	if f.calls == f.failOn {
		return "", nil, errors.New("search backend unavailable")
	}
	return "finding", nil, nil
}
