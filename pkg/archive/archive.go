// Package archive persists research findings in a per-project vector
// collection so they stay queryable after a pipeline run ends.
package archive

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/salesintel/market-stream/pkg/database"
	"github.com/salesintel/market-stream/pkg/embeddings"
	"github.com/salesintel/market-stream/pkg/splitter"
	"github.com/salesintel/market-stream/pkg/vectorstore"
)

type Archiver struct {
	DB           *database.PostgresDB
	Embedder     *embeddings.GoogleEmbedder
	ChunkSize    int
	ChunkOverlap int
	Logger       *slog.Logger
}

func NewArchiver(db *database.PostgresDB, embedder *embeddings.GoogleEmbedder, chunkSize, chunkOverlap int, logger *slog.Logger) *Archiver {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap <= 0 {
		chunkOverlap = 200
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{
		DB:           db,
		Embedder:     embedder,
		ChunkSize:    chunkSize,
		ChunkOverlap: chunkOverlap,
		Logger:       logger,
	}
}

// CollectionName derives a valid vector table name from a project id.
// Project ids may carry characters Postgres identifiers cannot.
func CollectionName(projectID string) string {
	var b strings.Builder
	b.WriteString("findings_")
	for _, r := range strings.ToLower(projectID) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	name := b.String()
	if len(name) > 63 {
		name = name[:63]
	}
	return name
}

// StoreFindings chunks, embeds and persists one run's research findings
// under the project's collection. Empty findings are a no-op.
func (a *Archiver) StoreFindings(ctx context.Context, projectID, reportType, findings string) error {
	if strings.TrimSpace(findings) == "" {
		return nil
	}

	collection := CollectionName(projectID)

	if err := a.DB.EnsureVectorExtension(ctx); err != nil {
		return fmt.Errorf("failed to ensure vector extension: %w", err)
	}
	if err := a.DB.CreateEmbeddingsTable(ctx, collection, embeddings.Dimension); err != nil {
		return fmt.Errorf("failed to create findings collection: %w", err)
	}

	ts := splitter.NewRecursiveCharacterTextSplitter(a.ChunkSize, a.ChunkOverlap)
	chunks, err := ts.SplitText(findings)
	if err != nil {
		return fmt.Errorf("failed to split findings: %w", err)
	}
	if len(chunks) == 0 {
		return nil
	}

	vectors, err := a.Embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return fmt.Errorf("failed to embed findings: %w", err)
	}

	documents := make([]vectorstore.Document, len(chunks))
	for i, chunk := range chunks {
		documents[i] = vectorstore.Document{
			Content: chunk,
			Metadata: map[string]interface{}{
				"project_id": projectID,
				"source":     reportType,
			},
			Embedding: vectors[i],
		}
	}

	store, err := vectorstore.NewPGVectorStore(a.DB.Pool, collection)
	if err != nil {
		return fmt.Errorf("invalid collection name: %w", err)
	}
	if err := store.AddDocuments(ctx, documents); err != nil {
		return fmt.Errorf("failed to store findings: %w", err)
	}

	a.Logger.Info("archived research findings", "project_id", projectID,
		"report_type", reportType, "chunks", len(chunks))
	return nil
}
