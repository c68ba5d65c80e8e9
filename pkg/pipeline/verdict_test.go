package pipeline

import (
	"strings"
	"testing"
)

func TestParseVerdict(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Grade
		wantErr bool
	}{
		{"pass", `{"grade": "pass", "comment": "solid"}`, GradePass, false},
		{"fail with queries", `{"grade": "fail", "comment": "gaps", "follow_up_queries": [{"query": "\"Acme\" revenue 2025", "phase": "foundation"}]}`, GradeFail, false},
		{"tiered", `{"grade": "sales_ready", "tier": 2, "comment": "ok"}`, GradeSalesReady, false},
		{"insufficient", `{"grade": "insufficient", "comment": "no names"}`, GradeInsufficient, false},
		{"unknown grade", `{"grade": "excellent", "comment": "?"}`, "", true},
		{"empty grade", `{"comment": "missing"}`, "", true},
		{"not json", `the research looks fine to me`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVerdict(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", v)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if v.Grade != tt.want {
				t.Errorf("grade = %q, want %q", v.Grade, tt.want)
			}
		})
	}
}

func TestParseVerdictCapsFollowUpQueries(t *testing.T) {
	raw := `{"grade": "fail", "comment": "gaps", "follow_up_queries": [
		{"query": "q1"}, {"query": "q2"}, {"query": "q3"}, {"query": "q4"}, {"query": "q5"}, {"query": "q6"}
	]}`
	v, err := ParseVerdict(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.FollowUpQueries) != MaxFollowUpQueries {
		t.Errorf("queries = %d, want %d", len(v.FollowUpQueries), MaxFollowUpQueries)
	}
}

func TestParseVerdictDropsQueriesOnSatisfyingGrade(t *testing.T) {
	raw := `{"grade": "pass", "comment": "ok", "follow_up_queries": [{"query": "leftover"}]}`
	v, err := ParseVerdict(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(v.FollowUpQueries) != 0 {
		t.Errorf("satisfying grade kept queries: %+v", v.FollowUpQueries)
	}
}

func TestVerdictDecision(t *testing.T) {
	queries := []FollowUpQuery{{Query: "q"}}
	tests := []struct {
		name         string
		grade        Grade
		iteration    int
		softCap      int
		wantEscalate bool
		wantQueries  bool
	}{
		{"pass escalates", GradePass, 1, 2, true, false},
		{"comprehensive escalates", GradeComprehensive, 1, 2, true, false},
		{"sales_ready escalates", GradeSalesReady, 1, 2, true, false},
		{"fail refines", GradeFail, 1, 2, false, true},
		{"insufficient refines", GradeInsufficient, 1, 2, false, true},
		{"needs_improvement refines below soft cap", GradeNeedsImprovement, 1, 2, false, true},
		{"needs_improvement escalates at soft cap", GradeNeedsImprovement, 2, 2, true, false},
		{"worst grade still refines at soft cap", GradeInsufficient, 2, 2, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Verdict{Grade: tt.grade, FollowUpQueries: queries}
			escalate, got := v.Decision(tt.iteration, tt.softCap)
			if escalate != tt.wantEscalate {
				t.Errorf("escalate = %v, want %v", escalate, tt.wantEscalate)
			}
			if (len(got) > 0) != tt.wantQueries {
				t.Errorf("queries = %v, wantQueries = %v", got, tt.wantQueries)
			}
		})
	}
}

func TestParseVerdictErrorMentionsGrade(t *testing.T) {
	_, err := ParseVerdict(`{"grade": "maybe", "comment": "?"}`)
	if err == nil || !strings.Contains(err.Error(), "maybe") {
		t.Errorf("error should name the bad grade, got %v", err)
	}
}
