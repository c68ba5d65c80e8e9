package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
)

func (s *Sequencer) planPhase(ctx context.Context, state *State, prompts promptSet) error {
	s.Logger.Info("starting planning phase", "organization", state.Organization)

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	prompt := fmt.Sprintf("%s\n\nOrganization: %q", prompts.planner, state.Organization)
	plan, events, err := s.Search.GenerateGrounded(callCtx, prompt)
	if err != nil {
		return err
	}
	state.Plan = plan
	state.Ledger.Ingest(events)
	return nil
}

func (s *Sequencer) sectionPhase(ctx context.Context, state *State, prompts promptSet) error {
	s.Logger.Info("starting section planning phase")

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	input := fmt.Sprintf("Organization: %q\n\nResearch plan:\n%s", state.Organization, state.Plan)
	sections, err := s.Text.Generate(callCtx, prompts.sections, input)
	if err != nil {
		return err
	}
	state.Sections = sections
	return nil
}

func (s *Sequencer) researchPhase(ctx context.Context, state *State, prompts promptSet) error {
	s.Logger.Info("starting research phase")

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	prompt := fmt.Sprintf("%s\n\nOrganization: %q\n\nResearch plan:\n%s",
		prompts.research, state.Organization, state.Plan)
	findings, events, err := s.Search.GenerateGrounded(callCtx, prompt)
	if err != nil {
		return err
	}
	state.Findings = findings
	state.Ledger.Ingest(events)
	s.Logger.Info("research complete", "sources", state.Ledger.Len())
	return nil
}

func (s *Sequencer) evaluatePhase(ctx context.Context, state *State, prompts promptSet) error {
	s.Logger.Info("starting evaluation phase", "iteration", state.Iteration)

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	input := fmt.Sprintf("Organization: %q\n\nReport structure:\n%s\n\nResearch findings:\n%s",
		state.Organization, state.Sections, state.CombinedFindings())

	var verdict *Verdict
	_, err := s.Text.GenerateJSON(callCtx,
		prompts.evaluator+"\n\n# Response Format:\n\n"+prompts.schema,
		input,
		func(content string) error {
			v, err := ParseVerdict(content)
			if err != nil {
				return err
			}
			verdict = v
			return nil
		})
	if err != nil {
		return err
	}

	state.Verdict = verdict
	s.Logger.Info("evaluation complete", "grade", verdict.Grade,
		"follow_up_queries", len(verdict.FollowUpQueries))
	return nil
}

// gapFillPhase executes every follow-up query from the verdict and merges
// the new findings additively. A failed query contributes no new data this
// pass but never aborts the remaining queries.
func (s *Sequencer) gapFillPhase(ctx context.Context, state *State, prompts promptSet, queries []FollowUpQuery) {
	s.Logger.Info("starting gap-fill phase", "queries", len(queries))

	for _, q := range queries {
		if ctx.Err() != nil {
			return
		}

		prompt := fmt.Sprintf("%s\n\nOrganization: %q\nSearch query: %s", prompts.gapFill, state.Organization, q.Query)
		if q.TargetEntity != "" {
			prompt += fmt.Sprintf("\nTarget entity: %s", q.TargetEntity)
		}

		callCtx, cancel := s.callContext(ctx)
		findings, events, err := s.Search.GenerateGrounded(callCtx, prompt)
		cancel()
		if err != nil {
			s.Logger.Error("follow-up search failed", "query", q.Query, "error", err)
			continue
		}

		if state.GapFindings != "" {
			state.GapFindings += "\n\n"
		}
		state.GapFindings += findings
		state.Ledger.Ingest(events)
	}
}

func (s *Sequencer) composePhase(ctx context.Context, state *State, prompts promptSet) error {
	s.Logger.Info("starting composition phase", "sources", state.Ledger.Len())

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	sourcesJSON, err := json.Marshal(state.Ledger.Sources())
	if err != nil {
		return fmt.Errorf("failed to serialize sources: %w", err)
	}

	input := fmt.Sprintf("Organization: %q\n\nReport structure:\n%s\n\nResearch findings:\n%s\n\nCitation sources:\n%s",
		state.Organization, state.Sections, state.CombinedFindings(), sourcesJSON)
	report, err := s.Text.Generate(callCtx, prompts.composer, input)
	if err != nil {
		return err
	}
	state.FinalReport = report
	return nil
}
