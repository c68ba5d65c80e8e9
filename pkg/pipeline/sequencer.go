package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultCallTimeout bounds every external LLM or search call made by the
// sequencer.
const DefaultCallTimeout = 120 * time.Second

// Config tunes one sequencer. Zero values fall back to package defaults.
type Config struct {
	MaxIterations int
	SoftCap       int
	CallTimeout   time.Duration
}

// Sequencer runs the stages of one report pipeline strictly in order:
// plan, outline, research, quality loop, compose, rewrite citations,
// render HTML. A stage completes, including its ledger ingestion side
// effects, before the next starts.
type Sequencer struct {
	Text      TextCapability
	Search    SearchCapability
	Citations CitationRenderer
	HTML      HTMLRenderer
	Loop      *Controller
	Config    Config
	Logger    *slog.Logger

	// OnStateUpdate is invoked with a snapshot after every stage.
	OnStateUpdate func(state State)
}

func NewSequencer(text TextCapability, search SearchCapability, citations CitationRenderer, html HTMLRenderer, cfg Config, logger *slog.Logger) *Sequencer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	return &Sequencer{
		Text:      text,
		Search:    search,
		Citations: citations,
		HTML:      html,
		Loop:      NewController(cfg.MaxIterations, cfg.SoftCap, logger),
		Config:    cfg,
		Logger:    logger,
	}
}

// Run executes the full pipeline on state. Cancellation aborts the current
// stage and skips the rest, leaving state partially filled; the caller's
// persistence must tolerate that. The final report is always composed from
// whatever research exists once the loop escalates.
func (s *Sequencer) Run(ctx context.Context, state *State) error {
	prompts := promptsFor(state.ReportType)
	s.Logger.Info("starting pipeline", "project_id", state.ProjectID,
		"report_type", state.ReportType, "organization", state.Organization)

	if err := s.planPhase(ctx, state, prompts); err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}
	s.notify(state)

	if err := s.sectionPhase(ctx, state, prompts); err != nil {
		return fmt.Errorf("section planning failed: %w", err)
	}
	s.notify(state)

	if err := s.researchPhase(ctx, state, prompts); err != nil {
		return fmt.Errorf("research failed: %w", err)
	}
	s.notify(state)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := s.evaluatePhase(ctx, state, prompts); err != nil {
			// A broken grader must not trap the loop; the controller
			// escalates on a missing verdict.
			s.Logger.Warn("evaluation failed, verdict discarded", "error", err)
			state.Verdict = nil
		}

		outcome := s.Loop.Decide(state)
		s.notify(state)
		if outcome.Escalate {
			break
		}

		s.gapFillPhase(ctx, state, prompts, outcome.Queries)
		s.notify(state)
	}

	if err := s.composePhase(ctx, state, prompts); err != nil {
		return fmt.Errorf("composition failed: %w", err)
	}

	state.FinalReport = s.Citations.Render(state.FinalReport, state.Ledger.Sources())
	s.notify(state)

	if s.HTML != nil {
		callCtx, cancel := s.callContext(ctx)
		html, err := s.HTML.RenderHTML(callCtx, state.FinalReport, state.Ledger.Sources())
		cancel()
		if err != nil {
			return fmt.Errorf("html rendering failed: %w", err)
		}
		state.FinalHTML = html
		s.notify(state)
	}

	s.Logger.Info("pipeline complete", "project_id", state.ProjectID,
		"sources", state.Ledger.Len(), "iterations", state.Iteration)
	return nil
}

func (s *Sequencer) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.Config.CallTimeout)
}

func (s *Sequencer) notify(state *State) {
	if s.OnStateUpdate != nil {
		s.OnStateUpdate(*state)
	}
}
