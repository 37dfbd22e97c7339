package orchestrator

import (
	"context"

	"github.com/nexusforge/agentcore/internal/toolkit"
	"github.com/nexusforge/agentcore/pkg/models"
)

// ListSessions implements toolkit.SessionBackend for sessions.list.
func (o *Orchestrator) ListSessions(ctx context.Context, agentID string) ([]models.Summary, error) {
	return o.eventlog.List(agentID)
}

// SessionHistory implements toolkit.SessionBackend for sessions.history.
func (o *Orchestrator) SessionHistory(ctx context.Context, agentID, sessionID string) (models.Summary, []models.Event, error) {
	return o.eventlog.Load(agentID, sessionID)
}

// SessionStatus implements toolkit.SessionBackend for sessions.status:
// derives stage from the latest runStatus event (default idle) and
// counts the session's live managed processes.
func (o *Orchestrator) SessionStatus(ctx context.Context, agentID, sessionID string) (models.RunStatusPayload, int, error) {
	_, events, err := o.eventlog.Load(agentID, sessionID)
	if err != nil {
		return models.RunStatusPayload{}, 0, err
	}
	status := models.RunStatusPayload{Stage: models.StageIdle}
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == models.EventRunStatus && events[i].RunStatus != nil {
			status = *events[i].RunStatus
			break
		}
	}

	active := 0
	if o.processes != nil {
		for _, p := range o.processes.List(sessionID) {
			if p.Running {
				active++
			}
		}
	}
	return status, active, nil
}

// PostMessage (toolkit.SessionBackend variant) wraps the full
// PostMessage run, exposed to the sessions.send / messages.send tools
// which only care whether the post succeeded.
func (o *Orchestrator) postMessageBackend(ctx context.Context, agentID, sessionID, content, userID string) error {
	_, err := o.PostMessage(ctx, agentID, sessionID, PostMessageRequest{UserID: userID, Content: content})
	return err
}

// sessionBackendAdapter satisfies toolkit.SessionBackend by delegating
// to the Orchestrator, translating its richer CreateSession/PostMessage
// signatures into the tool family's simpler ones.
type sessionBackendAdapter struct {
	o *Orchestrator
}

// NewSessionBackend returns the toolkit.SessionBackend the sessions.*
// and messages.send tools dispatch through.
func NewSessionBackend(o *Orchestrator) toolkit.SessionBackend {
	return sessionBackendAdapter{o: o}
}

func (a sessionBackendAdapter) CreateSession(ctx context.Context, agentID, title, parentSessionID string) (models.Summary, error) {
	return a.o.CreateSession(ctx, agentID, CreateSessionRequest{Title: title, ParentSessionID: parentSessionID})
}

func (a sessionBackendAdapter) ListSessions(ctx context.Context, agentID string) ([]models.Summary, error) {
	return a.o.ListSessions(ctx, agentID)
}

func (a sessionBackendAdapter) SessionHistory(ctx context.Context, agentID, sessionID string) (models.Summary, []models.Event, error) {
	return a.o.SessionHistory(ctx, agentID, sessionID)
}

func (a sessionBackendAdapter) SessionStatus(ctx context.Context, agentID, sessionID string) (models.RunStatusPayload, int, error) {
	return a.o.SessionStatus(ctx, agentID, sessionID)
}

func (a sessionBackendAdapter) PostMessage(ctx context.Context, agentID, sessionID, content, userID string) error {
	return a.o.postMessageBackend(ctx, agentID, sessionID, content, userID)
}

var _ toolkit.SessionBackend = sessionBackendAdapter{}
