package pipeline

import "log/slog"

const (
	// DefaultMaxIterations is the quality loop circuit breaker.
	DefaultMaxIterations = 2
	// DefaultSoftCap stops refinement of intermediate grades early.
	DefaultSoftCap = 2
)

// Controller owns the escalate-or-refine decision of the quality loop,
// including the iteration circuit breaker.
type Controller struct {
	MaxIterations int
	SoftCap       int
	Logger        *slog.Logger
}

func NewController(maxIterations, softCap int, logger *slog.Logger) *Controller {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	if softCap <= 0 {
		softCap = DefaultSoftCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{MaxIterations: maxIterations, SoftCap: softCap, Logger: logger}
}

// Outcome is the result of one loop pass decision.
type Outcome struct {
	Escalate bool
	Queries  []FollowUpQuery
}

// Decide runs one pass of the loop state machine. The iteration counter is
// incremented before the grade is inspected, and the circuit breaker takes
// priority over any verdict. A missing verdict escalates rather than loops,
// and panics during state inspection are recovered and treated as escalate
// so the pipeline always terminates.
func (c *Controller) Decide(state *State) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger.Error("loop decision panicked, escalating", "panic", r)
			out = Outcome{Escalate: true}
		}
	}()

	state.Iteration++

	if state.Iteration >= c.MaxIterations {
		c.Logger.Warn("maximum iterations reached, forcing escalation",
			"iteration", state.Iteration, "max_iterations", c.MaxIterations)
		return Outcome{Escalate: true}
	}

	if state.Verdict == nil {
		c.Logger.Warn("no usable verdict, escalating", "iteration", state.Iteration)
		return Outcome{Escalate: true}
	}

	escalate, queries := state.Verdict.Decision(state.Iteration, c.SoftCap)
	if escalate {
		c.Logger.Info("escalating", "grade", state.Verdict.Grade, "iteration", state.Iteration)
		return Outcome{Escalate: true}
	}
	c.Logger.Info("continuing loop", "grade", state.Verdict.Grade,
		"iteration", state.Iteration, "follow_up_queries", len(queries))
	return Outcome{Escalate: false, Queries: queries}
}
