package database

import (
	"context"
	"fmt"
)

func (db *PostgresDB) InitSchema(ctx context.Context) error {
	// 1. Projects Table: one document per project with the fixed report fields
	projectsQuery := `
		CREATE TABLE IF NOT EXISTS projects (
			id TEXT PRIMARY KEY,
			client_org_research TEXT NOT NULL DEFAULT '',
			client_org_research_html TEXT NOT NULL DEFAULT '',
			market_context TEXT NOT NULL DEFAULT '',
			market_context_html TEXT NOT NULL DEFAULT '',
			prospect_research TEXT NOT NULL DEFAULT '',
			prospect_research_html TEXT NOT NULL DEFAULT '',
			market_segment TEXT NOT NULL DEFAULT '',
			market_segment_html TEXT NOT NULL DEFAULT '',
			target_org_research TEXT NOT NULL DEFAULT '',
			target_org_research_html TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, projectsQuery); err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}

	// 2. Report Runs Table
	runsQuery := `
		CREATE TABLE IF NOT EXISTS report_runs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			organization TEXT NOT NULL,
			report_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			error TEXT,
			sources JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, runsQuery); err != nil {
		return fmt.Errorf("failed to create report_runs table: %w", err)
	}

	// 3. Run Logs Table
	logsQuery := `
		CREATE TABLE IF NOT EXISTS run_logs (
			id SERIAL PRIMARY KEY,
			run_id UUID NOT NULL REFERENCES report_runs(id) ON DELETE CASCADE,
			timestamp TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			level TEXT NOT NULL,
			message TEXT NOT NULL,
			metadata JSONB
		);
	`
	if _, err := db.Pool.Exec(ctx, logsQuery); err != nil {
		return fmt.Errorf("failed to create run_logs table: %w", err)
	}

	// 4. Conversations Table: project-scoped chat threads
	conversationsQuery := `
		CREATE TABLE IF NOT EXISTS conversations (
			id UUID PRIMARY KEY,
			project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			title TEXT NOT NULL DEFAULT 'New Conversation',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, conversationsQuery); err != nil {
		return fmt.Errorf("failed to create conversations table: %w", err)
	}

	// 5. Messages Table
	messagesQuery := `
		CREATE TABLE IF NOT EXISTS messages (
			id UUID PRIMARY KEY,
			conversation_id UUID NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`
	if _, err := db.Pool.Exec(ctx, messagesQuery); err != nil {
		return fmt.Errorf("failed to create messages table: %w", err)
	}

	// Indexes for faster querying
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_run_logs_run_id ON run_logs(run_id)"); err != nil {
		return fmt.Errorf("failed to create index on run_logs: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_report_runs_project_id ON report_runs(project_id)"); err != nil {
		return fmt.Errorf("failed to create index on report_runs: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_report_runs_created_at ON report_runs(created_at DESC)"); err != nil {
		return fmt.Errorf("failed to create index on report_runs: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_conversations_project_id ON conversations(project_id)"); err != nil {
		return fmt.Errorf("failed to create index on conversations: %w", err)
	}
	if _, err := db.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id)"); err != nil {
		return fmt.Errorf("failed to create index on messages: %w", err)
	}

	return nil
}
