package sink

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

// Record is one row the sink persists. Each concrete record owns its
// own INSERT, mirroring the teacher's per-store Create methods in
// internal/storage/cockroach.go (one store per table, no generic ORM
// layer).
type Record interface {
	insert(ctx context.Context, db *sql.DB) error
}

// EventRecord mirrors a pkg/models.Event as persisted by the sink.
type EventRecord struct {
	ID        string
	AgentID   string
	SessionID string
	Type      string
	Payload   json.RawMessage
	CreatedAt time.Time
}

func (r EventRecord) insert(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO events (id, agent_id, session_id, type, payload, created_at) VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.AgentID, r.SessionID, r.Type, r.Payload, r.CreatedAt)
	return err
}

// ArtifactRecord is one attachment/output artifact reference.
type ArtifactRecord struct {
	ID        string
	AgentID   string
	SessionID string
	Name      string
	MimeType  string
	SizeBytes int64
	CreatedAt time.Time
}

func (r ArtifactRecord) insert(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO artifacts (id, agent_id, session_id, name, mime_type, size_bytes, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.AgentID, r.SessionID, r.Name, r.MimeType, r.SizeBytes, r.CreatedAt)
	return err
}

// MemoryBulletinRecord is one agent memory note.
type MemoryBulletinRecord struct {
	ID        string
	AgentID   string
	Title     string
	Body      string
	CreatedAt time.Time
}

func (r MemoryBulletinRecord) insert(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO memory_bulletins (id, agent_id, title, body, created_at) VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.AgentID, r.Title, r.Body, r.CreatedAt)
	return err
}

// TokenUsageRecord is one provider call's token accounting.
type TokenUsageRecord struct {
	ID               string
	AgentID          string
	SessionID        string
	Model            string
	PromptTokens     int64
	CompletionTokens int64
	CreatedAt        time.Time
}

func (r TokenUsageRecord) insert(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO token_usage (id, agent_id, session_id, model, prompt_tokens, completion_tokens, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.AgentID, r.SessionID, r.Model, r.PromptTokens, r.CompletionTokens, r.CreatedAt)
	return err
}

// DashboardProjectRecord is one dashboard project row.
type DashboardProjectRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

func (r DashboardProjectRecord) insert(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO dashboard_projects (id, name, created_at) VALUES ($1,$2,$3) ON CONFLICT (id) DO NOTHING`,
		r.ID, r.Name, r.CreatedAt)
	return err
}

// DashboardProjectChannelRecord links a dashboard project to a channel.
type DashboardProjectChannelRecord struct {
	ID        string
	ProjectID string
	ChannelID string
	CreatedAt time.Time
}

func (r DashboardProjectChannelRecord) insert(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO dashboard_project_channels (id, project_id, channel_id, created_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.ProjectID, r.ChannelID, r.CreatedAt)
	return err
}

// DashboardProjectTaskRecord is one dashboard project task.
type DashboardProjectTaskRecord struct {
	ID        string
	ProjectID string
	Title     string
	Done      bool
	CreatedAt time.Time
}

func (r DashboardProjectTaskRecord) insert(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO dashboard_project_tasks (id, project_id, title, done, created_at) VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (id) DO NOTHING`,
		r.ID, r.ProjectID, r.Title, r.Done, r.CreatedAt)
	return err
}
