package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/salesintel/market-stream/pkg/archive"
	"github.com/salesintel/market-stream/pkg/citations"
	"github.com/salesintel/market-stream/pkg/clients"
	"github.com/salesintel/market-stream/pkg/config"
	"github.com/salesintel/market-stream/pkg/database"
	"github.com/salesintel/market-stream/pkg/embeddings"
	"github.com/salesintel/market-stream/pkg/grounding"
	"github.com/salesintel/market-stream/pkg/notify"
	"github.com/salesintel/market-stream/pkg/pipeline"
	"github.com/salesintel/market-stream/pkg/render"
	"github.com/salesintel/market-stream/pkg/reports"
)

type Service struct {
	DB       *database.PostgresDB
	Cfg      *config.Config
	Reports  *reports.Store
	Archiver *archive.Archiver
	Notifier notify.Publisher
}

func NewService(ctx context.Context, db *database.PostgresDB, cfg *config.Config) (*Service, error) {
	embedder, err := embeddings.NewGoogleEmbedder(ctx, cfg.EmbeddingModel, cfg.GoogleApiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	var notifier notify.Publisher = notify.NopPublisher{}
	if cfg.WebhookBaseURL != "" {
		notifier = notify.NewWebhookNotifier(cfg.WebhookBaseURL, slog.Default())
	}

	return &Service{
		DB:       db,
		Cfg:      cfg,
		Reports:  reports.NewStore(db, slog.Default()),
		Archiver: archive.NewArchiver(db, embedder, cfg.ChunkSize, cfg.ChunkOverlap, slog.Default()),
		Notifier: notifier,
	}, nil
}

// Run is one background report generation for a project.
type Run struct {
	ID           uuid.UUID       `json:"id"`
	ProjectID    string          `json:"project_id"`
	Organization string          `json:"organization"`
	ReportType   string          `json:"report_type"`
	Status       string          `json:"status"`
	Error        *string         `json:"error,omitempty"`
	Sources      json.RawMessage `json:"sources,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type StartRunRequest struct {
	Organization string `json:"organization"`
	ReportType   string `json:"report_type"`
}

func (s *Service) CreateProject(ctx context.Context, projectID string) (bool, error) {
	return s.Reports.CreateBlankProject(ctx, projectID)
}

func (s *Service) GetProject(ctx context.Context, projectID string) (*reports.Project, error) {
	return s.Reports.GetProject(ctx, projectID)
}

// StartRun validates the request, records a pending run and launches the
// pipeline in the background. The project document is created on first use.
func (s *Service) StartRun(ctx context.Context, projectID string, req StartRunRequest) (*Run, error) {
	if req.Organization == "" {
		return nil, fmt.Errorf("organization must not be empty")
	}
	if !reports.AllowedField(req.ReportType) {
		return nil, fmt.Errorf("unknown report type %q, valid types: %v", req.ReportType, reports.Fields())
	}

	if _, err := s.Reports.CreateBlankProject(ctx, projectID); err != nil {
		return nil, fmt.Errorf("failed to ensure project: %w", err)
	}

	query := `
		INSERT INTO report_runs (project_id, organization, report_type, status)
		VALUES ($1, $2, $3, 'pending')
		RETURNING id, project_id, organization, report_type, status, created_at, updated_at
	`

	run := &Run{}
	err := s.DB.Pool.QueryRow(ctx, query, projectID, req.Organization, req.ReportType).Scan(
		&run.ID, &run.ProjectID, &run.Organization, &run.ReportType, &run.Status, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	go s.runWorker(*run)

	return run, nil
}

func (s *Service) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	query := `
		SELECT id, project_id, organization, report_type, status, error, sources, created_at, updated_at
		FROM report_runs
		WHERE id = $1
	`
	run := &Run{}
	err := s.DB.Pool.QueryRow(ctx, query, id).Scan(
		&run.ID, &run.ProjectID, &run.Organization, &run.ReportType, &run.Status,
		&run.Error, &run.Sources, &run.CreatedAt, &run.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

func (s *Service) ListRuns(ctx context.Context, projectID string) ([]Run, error) {
	query := `
		SELECT id, project_id, organization, report_type, status, error, sources, created_at, updated_at
		FROM report_runs
		WHERE project_id = $1
		ORDER BY created_at DESC
		LIMIT 50
	`
	rows, err := s.DB.Pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.ProjectID, &run.Organization, &run.ReportType, &run.Status,
			&run.Error, &run.Sources, &run.CreatedAt, &run.UpdatedAt); err != nil {
			continue
		}
		runs = append(runs, run)
	}
	return runs, nil
}

type LogEntry struct {
	ID        int             `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Level     string          `json:"level"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata"`
}

func (s *Service) GetRunLogs(ctx context.Context, runID uuid.UUID) ([]LogEntry, error) {
	query := `
		SELECT id, timestamp, level, message, metadata
		FROM run_logs
		WHERE run_id = $1
		ORDER BY id ASC
	`
	rows, err := s.DB.Pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs: %w", err)
	}
	defer rows.Close()

	var logs []LogEntry
	for rows.Next() {
		var l LogEntry
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.Level, &l.Message, &l.Metadata); err != nil {
			continue
		}
		logs = append(logs, l)
	}
	return logs, nil
}

// variantFor maps a stored report field to the pipeline variant that
// produces it. Prospect research has its own prompts and grading tiers;
// every other report type uses the target organization pipeline.
func variantFor(reportType string) pipeline.Variant {
	if reportType == string(pipeline.VariantProspect) {
		return pipeline.VariantProspect
	}
	return pipeline.VariantTargetOrg
}

func (s *Service) runWorker(run Run) {
	ctx := context.Background()

	_, _ = s.DB.Pool.Exec(ctx, "UPDATE report_runs SET status = 'running', updated_at = NOW() WHERE id = $1", run.ID)

	dbLogger := slog.New(NewDBLogHandler(s.DB, run.ID))

	seq, ledger, err := s.buildSequencer(ctx, run.ID, dbLogger)
	if err != nil {
		s.failRun(ctx, run.ID, fmt.Sprintf("Failed to init pipeline: %v", err))
		return
	}

	state := pipeline.NewState(run.ProjectID, variantFor(run.ReportType), run.Organization, ledger)

	if err := seq.Run(ctx, state); err != nil {
		s.failRun(ctx, run.ID, fmt.Sprintf("Report generation failed: %v", err))
		return
	}

	// Archive research before the state is cleaned; archiving failures keep
	// the run alive since the report itself is intact.
	if err := s.Archiver.StoreFindings(ctx, run.ProjectID, run.ReportType, state.CombinedFindings()); err != nil {
		dbLogger.Error("Failed to archive findings", "error", err)
	}

	if err := s.Reports.UpdateReport(ctx, run.ProjectID, run.ReportType, state.FinalReport, state.FinalHTML); err != nil {
		s.failRun(ctx, run.ID, fmt.Sprintf("Failed to persist report: %v", err))
		return
	}

	s.Notifier.Publish(ctx, notify.Event{ProjectID: run.ProjectID, Kind: notify.KindReportUpdated, ReportType: run.ReportType})
	s.Notifier.Publish(ctx, notify.Event{ProjectID: run.ProjectID, Kind: notify.KindHTMLUpdated, ReportType: run.ReportType})
	s.Notifier.Publish(ctx, notify.Event{ProjectID: run.ProjectID, Kind: notify.KindCompleted, ReportType: run.ReportType})
	s.Notifier.Publish(ctx, notify.Event{ProjectID: run.ProjectID, Kind: notify.KindHTMLCompleted, ReportType: run.ReportType})

	state.Cleanup()

	sourcesJSON, err := json.Marshal(state.Ledger.Sources())
	if err != nil {
		dbLogger.Error("Failed to marshal sources", "error", err)
		sourcesJSON = []byte("{}")
	}

	_, err = s.DB.Pool.Exec(ctx,
		"UPDATE report_runs SET status = 'completed', sources = $2, updated_at = NOW() WHERE id = $1",
		run.ID, sourcesJSON)
	if err != nil {
		dbLogger.Error("Failed to mark run completed", "error", err)
	}
}

// buildSequencer wires the LLM clients and the source ledger for one run.
// Every component logs through the run's database logger.
func (s *Service) buildSequencer(ctx context.Context, runID uuid.UUID, dbLogger *slog.Logger) (*pipeline.Sequencer, *grounding.Ledger, error) {
	llm, err := clients.GoogleAi(clients.ModelType(s.Cfg.ReasoningModel))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create text model: %w", err)
	}
	text := clients.NewTextClient(llm, dbLogger)

	search, err := clients.NewSearchClient(ctx, s.Cfg.SearchModel, s.Cfg.GoogleApiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search client: %w", err)
	}

	ledger := grounding.NewLedger(grounding.Config{
		MaxSources:         s.Cfg.MaxSources,
		MaxClaimsPerSource: s.Cfg.MaxClaimsPerSource,
	}, dbLogger)

	rewriter := citations.NewRewriter(s.Cfg.MaxReferences, dbLogger)
	renderer := render.NewRenderer(text, dbLogger)

	seq := pipeline.NewSequencer(text, search, rewriter, renderer, pipeline.Config{
		MaxIterations: s.Cfg.MaxIterations,
		SoftCap:       s.Cfg.SoftCap,
	}, dbLogger)

	// Persist the growing source ledger after each stage so a crashed run
	// still leaves its sources inspectable.
	seq.OnStateUpdate = func(state pipeline.State) {
		sourcesJSON, err := json.Marshal(state.Ledger.Sources())
		if err != nil {
			dbLogger.Error("Failed to marshal sources", "error", err)
			return
		}
		_, err = s.DB.Pool.Exec(context.Background(),
			"UPDATE report_runs SET sources = $2, updated_at = NOW() WHERE id = $1",
			runID, sourcesJSON)
		if err != nil {
			dbLogger.Error("Failed to save sources to DB", "error", err)
		}
	}

	return seq, ledger, nil
}

func (s *Service) failRun(ctx context.Context, runID uuid.UUID, reason string) {
	dbLogger := slog.New(NewDBLogHandler(s.DB, runID))
	dbLogger.Error(reason)

	_, _ = s.DB.Pool.Exec(ctx,
		"UPDATE report_runs SET status = 'failed', error = $2, updated_at = NOW() WHERE id = $1",
		runID, reason)
}
