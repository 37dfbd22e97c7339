package toolkit

import (
	"context"

	"github.com/nexusforge/agentcore/pkg/models"
)

// SessionBackend is the contract the sessions.* and messages.send tools
// dispatch through. The Session Orchestrator implements it structurally;
// declaring it here (rather than in the orchestrator package) lets the
// tools/sessions package depend on it without importing the
// orchestrator. The orchestrator in turn does not import the tools
// package; it reaches the dispatcher through its own ToolDispatcher
// interface.
type SessionBackend interface {
	CreateSession(ctx context.Context, agentID, title, parentSessionID string) (models.Summary, error)
	ListSessions(ctx context.Context, agentID string) ([]models.Summary, error)
	SessionHistory(ctx context.Context, agentID, sessionID string) (models.Summary, []models.Event, error)
	SessionStatus(ctx context.Context, agentID, sessionID string) (models.RunStatusPayload, int, error)
	PostMessage(ctx context.Context, agentID, sessionID, content, userID string) error
}
