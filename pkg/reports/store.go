// Package reports persists project report documents. Each project holds
// one row with a fixed set of report fields; every field carries both a
// markdown and an HTML value.
package reports

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/salesintel/market-stream/pkg/database"
)

// ErrProjectNotFound is returned when a project id has no document.
var ErrProjectNotFound = errors.New("project not found")

// reportFields is the fixed allow-list of report document fields. The
// matching HTML column is derived internally; callers never name it.
var reportFields = map[string]bool{
	"client_org_research": true,
	"market_context":      true,
	"prospect_research":   true,
	"market_segment":      true,
	"target_org_research": true,
}

// AllowedField reports whether field is part of the report document schema.
func AllowedField(field string) bool {
	return reportFields[field]
}

// Fields returns the allow-listed report field names.
func Fields() []string {
	return []string{
		"client_org_research",
		"market_context",
		"prospect_research",
		"market_segment",
		"target_org_research",
	}
}

// Project is one report document.
type Project struct {
	ID        string            `json:"id"`
	Reports   map[string]string `json:"reports"`
	HTML      map[string]string `json:"reports_html"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type Store struct {
	DB     *database.PostgresDB
	Logger *slog.Logger
}

func NewStore(db *database.PostgresDB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{DB: db, Logger: logger}
}

// CreateBlankProject inserts the empty report document for a project id.
// Creating an already existing project is not an error; it reports whether
// a new document was created.
func (s *Store) CreateBlankProject(ctx context.Context, projectID string) (bool, error) {
	if projectID == "" {
		return false, fmt.Errorf("project id must not be empty")
	}

	tag, err := s.DB.Pool.Exec(ctx,
		`INSERT INTO projects (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, projectID)
	if err != nil {
		return false, fmt.Errorf("failed to create project %s: %w", projectID, err)
	}

	created := tag.RowsAffected() > 0
	if created {
		s.Logger.Info("created blank project document", "project_id", projectID)
	} else {
		s.Logger.Info("project document already exists", "project_id", projectID)
	}
	return created, nil
}

// UpdateReport upserts the markdown and HTML values of one report field.
// An unknown field is a hard validation error; silent report loss is worse
// than a failed call.
func (s *Store) UpdateReport(ctx context.Context, projectID, field, text, html string) error {
	if !AllowedField(field) {
		return fmt.Errorf("unknown report field %q", field)
	}
	if projectID == "" {
		return fmt.Errorf("project id must not be empty")
	}

	// field is allow-listed above, never caller-controlled SQL.
	query := fmt.Sprintf(`
		INSERT INTO projects (id, %s, %s_html, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (id) DO UPDATE
		SET %s = EXCLUDED.%s, %s_html = EXCLUDED.%s_html, updated_at = NOW()
	`, field, field, field, field, field, field)

	if _, err := s.DB.Pool.Exec(ctx, query, projectID, text, html); err != nil {
		return fmt.Errorf("failed to update %s for project %s: %w", field, projectID, err)
	}

	s.Logger.Info("report field updated", "project_id", projectID, "field", field,
		"text_len", len(text), "html_len", len(html))
	return nil
}

// GetProject loads the full report document for a project id.
func (s *Store) GetProject(ctx context.Context, projectID string) (*Project, error) {
	query := `
		SELECT id,
			client_org_research, client_org_research_html,
			market_context, market_context_html,
			prospect_research, prospect_research_html,
			market_segment, market_segment_html,
			target_org_research, target_org_research_html,
			created_at, updated_at
		FROM projects WHERE id = $1
	`

	p := &Project{
		Reports: make(map[string]string, len(reportFields)),
		HTML:    make(map[string]string, len(reportFields)),
	}
	var clientOrg, clientOrgHTML, marketCtx, marketCtxHTML string
	var prospect, prospectHTML, segment, segmentHTML, targetOrg, targetOrgHTML string

	err := s.DB.Pool.QueryRow(ctx, query, projectID).Scan(
		&p.ID,
		&clientOrg, &clientOrgHTML,
		&marketCtx, &marketCtxHTML,
		&prospect, &prospectHTML,
		&segment, &segmentHTML,
		&targetOrg, &targetOrgHTML,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project %s: %w", projectID, err)
	}

	p.Reports["client_org_research"] = clientOrg
	p.Reports["market_context"] = marketCtx
	p.Reports["prospect_research"] = prospect
	p.Reports["market_segment"] = segment
	p.Reports["target_org_research"] = targetOrg
	p.HTML["client_org_research"] = clientOrgHTML
	p.HTML["market_context"] = marketCtxHTML
	p.HTML["prospect_research"] = prospectHTML
	p.HTML["market_segment"] = segmentHTML
	p.HTML["target_org_research"] = targetOrgHTML
	return p, nil
}
