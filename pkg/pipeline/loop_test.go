package pipeline

import (
	"testing"
)

func TestDecideCircuitBreaker(t *testing.T) {
	c := NewController(2, 2, nil)
	state := NewState("p1", VariantProspect, "Acme", nil)
	state.Verdict = &Verdict{
		Grade:           GradeInsufficient,
		FollowUpQueries: []FollowUpQuery{{Query: "q"}},
	}

	// Pass 1: worst grade, below the cap, so refine.
	out := c.Decide(state)
	if out.Escalate {
		t.Fatal("pass 1 should refine")
	}
	if state.Iteration != 1 {
		t.Fatalf("iteration = %d, want 1", state.Iteration)
	}

	// Pass 2: grade never improved, breaker forces escalation anyway.
	out = c.Decide(state)
	if !out.Escalate {
		t.Fatal("pass 2 must force escalation")
	}
	if state.Iteration != 2 {
		t.Fatalf("iteration = %d, want 2", state.Iteration)
	}
}

func TestDecideEscalatesOnPass(t *testing.T) {
	c := NewController(5, 5, nil)
	state := NewState("p1", VariantTargetOrg, "Acme", nil)
	state.Verdict = &Verdict{Grade: GradePass}

	out := c.Decide(state)
	if !out.Escalate {
		t.Error("pass grade must escalate")
	}
	if len(out.Queries) != 0 {
		t.Errorf("escalation carried queries: %+v", out.Queries)
	}
}

func TestDecideFailOpenOnMissingVerdict(t *testing.T) {
	c := NewController(5, 5, nil)
	state := NewState("p1", VariantTargetOrg, "Acme", nil)
	state.Verdict = nil

	out := c.Decide(state)
	if !out.Escalate {
		t.Error("missing verdict must escalate, never refine")
	}
}

func TestDecideSoftCapOnIntermediateGrade(t *testing.T) {
	c := NewController(5, 2, nil)
	state := NewState("p1", VariantProspect, "Acme", nil)
	state.Verdict = &Verdict{
		Grade:           GradeNeedsImprovement,
		FollowUpQueries: []FollowUpQuery{{Query: "q"}},
	}

	out := c.Decide(state)
	if out.Escalate {
		t.Fatal("iteration 1 should refine")
	}
	if len(out.Queries) != 1 {
		t.Fatalf("refine should carry queries, got %d", len(out.Queries))
	}

	// Iteration 2 hits the soft cap; current research is good enough.
	out = c.Decide(state)
	if !out.Escalate {
		t.Error("soft cap must stop refinement of intermediate grades")
	}
}

func TestDecideRecoversFromPanic(t *testing.T) {
	c := NewController(5, 5, nil)

	// A nil state panics on the counter increment; the controller must
	// recover and terminate the loop.
	out := c.Decide(nil)
	if !out.Escalate {
		t.Error("panic during decision must resolve to escalate")
	}
}

func TestDecideTerminatesForAnyVerdictSequence(t *testing.T) {
	grades := []Grade{GradeFail, GradeInsufficient, GradeNeedsImprovement, GradeFail, GradeInsufficient}
	c := NewController(3, 3, nil)
	state := NewState("p1", VariantTargetOrg, "Acme", nil)

	passes := 0
	for _, g := range grades {
		state.Verdict = &Verdict{Grade: g, FollowUpQueries: []FollowUpQuery{{Query: "q"}}}
		passes++
		if c.Decide(state).Escalate {
			break
		}
	}
	if passes > 3 {
		t.Errorf("loop ran %d passes, breaker allows at most 3", passes)
	}
}
