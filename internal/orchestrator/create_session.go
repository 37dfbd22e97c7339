package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nexusforge/agentcore/pkg/models"
)

// CreateSessionRequest is the request shape for CreateSession.
type CreateSessionRequest struct {
	Title           string
	ParentSessionID string
}

// CreateSession implements spec §4.F createSession: write the
// sessionCreated event, then run bootstrap; a bootstrap failure
// deletes the just-created session and reports storageFailure. A
// fresh session id has no existing lane to race with, so this runs
// outside the per-session actor queue.
func (o *Orchestrator) CreateSession(ctx context.Context, agentID string, req CreateSessionRequest) (models.Summary, error) {
	if !o.catalog.Exists(agentID) {
		return models.Summary{}, models.New(models.KindAgentNotFound, "agent not found: "+agentID)
	}

	// spec §3: default id format is "session-<random128>".
	random128 := strings.ReplaceAll(uuid.NewString(), "-", "")
	sessionID := "session-" + random128
	// Design note #4 (self-parenting): a freshly generated id can never
	// equal req.ParentSessionID unless the caller supplies that exact id
	// explicitly, which is rejected rather than silently accepted.
	if req.ParentSessionID == sessionID {
		return models.Summary{}, models.New(models.KindInvalidPayload, "a session cannot be its own parent")
	}

	title := req.Title
	if title == "" {
		// spec §3: default title is "Session <first8>" when none is supplied.
		title = fmt.Sprintf("Session %s", random128[:8])
	}

	created := models.Event{
		ID: uuid.NewString(), AgentID: agentID, SessionID: sessionID, CreatedAt: now(),
		Type: models.EventSessionCreated,
		SessionCreated: &models.SessionCreatedPayload{
			Title: title, ParentSessionID: req.ParentSessionID,
		},
	}
	if _, err := o.eventlog.Create(agentID, sessionID, []models.Event{created}); err != nil {
		return models.Summary{}, err
	}

	if err := o.ensureSessionContextLoaded(ctx, agentID, sessionID, []models.Event{created}); err != nil {
		_ = o.eventlog.Delete(agentID, sessionID)
		return models.Summary{}, models.Wrap(models.KindStorageFailure, err, "bootstrap session context")
	}

	finalSummary, _, err := o.eventlog.Load(agentID, sessionID)
	if err != nil {
		return models.Summary{}, err
	}
	return finalSummary, nil
}
