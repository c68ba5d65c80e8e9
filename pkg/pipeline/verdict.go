package pipeline

import (
	"encoding/json"
	"fmt"
)

// Grade is the quality verdict issued by the research evaluator. Target
// organization research grades on a binary scale, prospect research on a
// graduated one; both scales share this enum.
type Grade string

const (
	GradePass             Grade = "pass"
	GradeFail             Grade = "fail"
	GradeComprehensive    Grade = "comprehensive"
	GradeSalesReady       Grade = "sales_ready"
	GradeNeedsImprovement Grade = "needs_improvement"
	GradeInsufficient     Grade = "insufficient"
)

// MaxFollowUpQueries bounds the refine payload of a single verdict.
const MaxFollowUpQueries = 4

// FollowUpQuery is one targeted search the gap-fill researcher must execute.
type FollowUpQuery struct {
	Query        string `json:"query"`
	Phase        string `json:"phase,omitempty"`
	TargetEntity string `json:"target_entity,omitempty"`
}

// Verdict is the structured output of one evaluation pass.
type Verdict struct {
	Grade           Grade           `json:"grade"`
	Tier            int             `json:"tier,omitempty"`
	Comment         string          `json:"comment,omitempty"`
	MissingElements []string        `json:"missing_elements,omitempty"`
	FollowUpQueries []FollowUpQuery `json:"follow_up_queries,omitempty"`
}

// ParseVerdict decodes and validates grader output. An unknown grade is a
// hard error, never coerced to pass or fail. Follow-up queries are capped
// and dropped entirely on a satisfying grade.
func ParseVerdict(raw string) (*Verdict, error) {
	var v Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("verdict parse error: %w", err)
	}
	switch v.Grade {
	case GradePass, GradeFail, GradeComprehensive, GradeSalesReady,
		GradeNeedsImprovement, GradeInsufficient:
	default:
		return nil, fmt.Errorf("unknown verdict grade %q", v.Grade)
	}
	if len(v.FollowUpQueries) > MaxFollowUpQueries {
		v.FollowUpQueries = v.FollowUpQueries[:MaxFollowUpQueries]
	}
	if v.satisfied() {
		v.FollowUpQueries = nil
	}
	return &v, nil
}

func (v *Verdict) satisfied() bool {
	switch v.Grade {
	case GradePass, GradeComprehensive, GradeSalesReady:
		return true
	}
	return false
}

// Decision normalizes the grade into a single escalate-or-refine choice.
// Intermediate grades stop refining once the soft cap is reached; the worst
// grades always request refinement and leave termination to the circuit
// breaker.
func (v *Verdict) Decision(iteration, softCap int) (escalate bool, queries []FollowUpQuery) {
	switch v.Grade {
	case GradePass, GradeComprehensive, GradeSalesReady:
		return true, nil
	case GradeNeedsImprovement:
		if iteration >= softCap {
			return true, nil
		}
		return false, v.FollowUpQueries
	case GradeFail, GradeInsufficient:
		return false, v.FollowUpQueries
	}
	// Unknown grades never survive parsing; escalate if one appears anyway.
	return true, nil
}
