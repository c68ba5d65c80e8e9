package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"

	"github.com/salesintel/market-stream/pkg/archive"
	"github.com/salesintel/market-stream/pkg/database"
	"github.com/salesintel/market-stream/pkg/embeddings"
	"github.com/salesintel/market-stream/pkg/reports"
	"github.com/salesintel/market-stream/pkg/vectorstore"
)

// ResearchToolset exposes one project's archived findings and stored
// reports to the chat agent.
type ResearchToolset struct {
	DB        *database.PostgresDB
	Embedder  *embeddings.GoogleEmbedder
	Reports   *reports.Store
	ProjectID string
}

func NewResearchToolset(db *database.PostgresDB, embedder *embeddings.GoogleEmbedder, store *reports.Store, projectID string) *ResearchToolset {
	return &ResearchToolset{
		DB:        db,
		Embedder:  embedder,
		Reports:   store,
		ProjectID: projectID,
	}
}

func (t *ResearchToolset) Name() string {
	return "research_tools"
}

func (t *ResearchToolset) Tools(ctx agent.ReadonlyContext) ([]tool.Tool, error) {
	searchTool, err := functiontool.New[SearchFindingsArgs, SearchFindingsResp](
		functiontool.Config{
			Name:        "search_findings",
			Description: "Search the project's archived research findings using semantic search.",
		},
		t.searchFindingsTool,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search tool: %w", err)
	}

	byReportTool, err := functiontool.New[FindingsByReportArgs, FindingsByReportResp](
		functiontool.Config{
			Name:        "findings_by_report",
			Description: "Return all archived findings produced by one report type, e.g. target_org_research.",
		},
		t.findingsByReportTool,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create findings_by_report tool: %w", err)
	}

	byFilterTool, err := functiontool.New[FindingsByFilterArgs, FindingsByFilterResp](
		functiontool.Config{
			Name:        "findings_by_filter",
			Description: "Find archived findings using complex logical filters on metadata ($and, $or, $not).",
		},
		t.findingsByFilterTool,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create findings_by_filter tool: %w", err)
	}

	reportTool, err := functiontool.New[GetReportArgs, GetReportResp](
		functiontool.Config{
			Name:        "get_report",
			Description: "Fetch the final stored report for one report field of this project.",
		},
		t.getReportTool,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create get_report tool: %w", err)
	}

	return []tool.Tool{searchTool, byReportTool, byFilterTool, reportTool}, nil
}

// --- Tool Implementations ---

type SearchFindingsArgs struct {
	Query string `json:"query" description:"The search query"`
	TopK  int    `json:"topK,omitempty" description:"Number of results to return (default 5)"`
}

type SearchFindingsResp struct {
	Results string `json:"results"`
}

func (t *ResearchToolset) searchFindingsTool(ctx tool.Context, args SearchFindingsArgs) (SearchFindingsResp, error) {
	return t.SearchFindings(ctx, args)
}

func (t *ResearchToolset) SearchFindings(ctx context.Context, args SearchFindingsArgs) (SearchFindingsResp, error) {
	if args.TopK == 0 {
		args.TopK = 5
	}
	collection := archive.CollectionName(t.ProjectID)

	slog.Info("Search findings", "project_id", t.ProjectID, "query", args.Query, "topK", args.TopK)

	queryEmbedding, err := t.Embedder.EmbedText(ctx, args.Query)
	if err != nil {
		return SearchFindingsResp{}, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	store, err := vectorstore.NewPGVectorStore(t.DB.Pool, collection)
	if err != nil {
		return SearchFindingsResp{}, fmt.Errorf("invalid collection name: %w", err)
	}

	results, err := store.SimilaritySearch(ctx, queryEmbedding, args.TopK, "")
	if err != nil {
		return SearchFindingsResp{}, fmt.Errorf("failed to search: %w", err)
	}

	var formatted []string
	for _, result := range results {
		reportType := "unknown"
		if s, ok := result.Document.Metadata["source"].(string); ok {
			reportType = s
		}
		formatted = append(formatted,
			fmt.Sprintf("[Report]: %s\n[Content]: %s", reportType, result.Document.Content))
	}

	return SearchFindingsResp{Results: strings.Join(formatted, "\n\n")}, nil
}

type FindingsByReportArgs struct {
	ReportType string `json:"reportType" description:"The report type whose findings to return"`
}

type FindingsByReportResp struct {
	Content string `json:"content"`
}

func (t *ResearchToolset) findingsByReportTool(ctx tool.Context, args FindingsByReportArgs) (FindingsByReportResp, error) {
	return t.FindingsByReport(ctx, args)
}

func (t *ResearchToolset) FindingsByReport(ctx context.Context, args FindingsByReportArgs) (FindingsByReportResp, error) {
	collection := archive.CollectionName(t.ProjectID)

	store, err := vectorstore.NewPGVectorStore(t.DB.Pool, collection)
	if err != nil {
		return FindingsByReportResp{}, fmt.Errorf("invalid collection name: %w", err)
	}

	results, err := store.GetContentBySource(ctx, args.ReportType)
	if err != nil {
		return FindingsByReportResp{}, fmt.Errorf("failed to find content: %w", err)
	}

	var formatted []string
	for _, result := range results {
		formatted = append(formatted, result.Content)
	}
	return FindingsByReportResp{Content: strings.Join(formatted, "\n\n")}, nil
}

type FindingsByFilterArgs struct {
	Filter map[string]interface{} `json:"filter" description:"JSON filter object with logical operators ($and, $or, $not)"`
}

type FindingsByFilterResp struct {
	Content string `json:"content"`
}

func (t *ResearchToolset) findingsByFilterTool(ctx tool.Context, args FindingsByFilterArgs) (FindingsByFilterResp, error) {
	return t.FindingsByFilter(ctx, args)
}

func (t *ResearchToolset) FindingsByFilter(ctx context.Context, args FindingsByFilterArgs) (FindingsByFilterResp, error) {
	collection := archive.CollectionName(t.ProjectID)

	store, err := vectorstore.NewPGVectorStore(t.DB.Pool, collection)
	if err != nil {
		return FindingsByFilterResp{}, fmt.Errorf("invalid collection name: %w", err)
	}

	results, err := store.GetContentByMetadata(ctx, args.Filter)
	if err != nil {
		return FindingsByFilterResp{}, fmt.Errorf("failed to find content: %w", err)
	}

	var formatted []string
	for _, result := range results {
		formatted = append(formatted, result.Content)
	}
	return FindingsByFilterResp{Content: strings.Join(formatted, "\n\n")}, nil
}

type GetReportArgs struct {
	Field string `json:"field" description:"Report field name, one of: client_org_research, market_context, prospect_research, market_segment, target_org_research"`
}

type GetReportResp struct {
	Report string `json:"report"`
}

func (t *ResearchToolset) getReportTool(ctx tool.Context, args GetReportArgs) (GetReportResp, error) {
	return t.GetReport(ctx, args)
}

func (t *ResearchToolset) GetReport(ctx context.Context, args GetReportArgs) (GetReportResp, error) {
	if !reports.AllowedField(args.Field) {
		return GetReportResp{}, fmt.Errorf("unknown report field %q", args.Field)
	}

	project, err := t.Reports.GetProject(ctx, t.ProjectID)
	if err != nil {
		return GetReportResp{}, fmt.Errorf("failed to load project: %w", err)
	}

	report := project.Reports[args.Field]
	if report == "" {
		report = "No report stored for this field yet."
	}
	return GetReportResp{Report: report}, nil
}
