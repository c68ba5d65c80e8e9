package pipeline

import (
	"github.com/salesintel/market-stream/pkg/grounding"
)

// Variant selects which report pipeline runs and which report field the
// result is stored under.
type Variant string

const (
	VariantTargetOrg Variant = "target_org_research"
	VariantProspect  Variant = "prospect_research"
)

// State carries one pipeline run. Each stage reads and writes named fields
// only; a run owns its state and ledger exclusively, so no locking is
// needed.
type State struct {
	ProjectID    string
	ReportType   Variant
	Organization string

	Plan        string
	Sections    string
	Findings    string
	GapFindings string

	Verdict   *Verdict
	Iteration int

	FinalReport string
	FinalHTML   string

	Ledger *grounding.Ledger
}

func NewState(projectID string, reportType Variant, organization string, ledger *grounding.Ledger) *State {
	if ledger == nil {
		ledger = grounding.NewLedger(grounding.Config{}, nil)
	}
	return &State{
		ProjectID:    projectID,
		ReportType:   reportType,
		Organization: organization,
		Ledger:       ledger,
	}
}

// CombinedFindings merges the primary research with gap-fill additions.
// Gap-fill output is always additive; earlier findings are never discarded.
func (s *State) CombinedFindings() string {
	if s.GapFindings == "" {
		return s.Findings
	}
	return s.Findings + "\n\n## Gap-Fill Findings\n\n" + s.GapFindings
}

// Cleanup drops intermediate stage outputs at the end of a run, keeping
// only the final report, the final HTML and the source ledger.
func (s *State) Cleanup() {
	s.Plan = ""
	s.Sections = ""
	s.Findings = ""
	s.GapFindings = ""
	s.Verdict = nil
}
