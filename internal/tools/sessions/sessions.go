// Package sessions implements the sessions.{spawn,list,history,status,send}
// and messages.send tool family, dispatched through a
// toolkit.SessionBackend so this package never imports the orchestrator
// that implements it.
package sessions

import (
	"context"
	"encoding/json"

	"github.com/nexusforge/agentcore/internal/toolkit"
	"github.com/nexusforge/agentcore/pkg/models"
)

func backendErrorCode(err error) string {
	if kind, ok := models.KindOf(err); ok {
		return string(kind)
	}
	return "session_write_failed"
}

// SpawnTool implements sessions.spawn.
type SpawnTool struct {
	backend toolkit.SessionBackend
}

func NewSpawnTool(backend toolkit.SessionBackend) *SpawnTool { return &SpawnTool{backend: backend} }

func (t *SpawnTool) Name() string { return "sessions.spawn" }

type spawnParams struct {
	Title           string `json:"title"`
	ParentSessionID string `json:"parentSessionId"`
}

func (t *SpawnTool) Execute(ctx context.Context, ectx toolkit.ExecContext, arguments json.RawMessage) *toolkit.Result {
	var params spawnParams
	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &params); err != nil {
			return toolkit.ErrorResult(t.Name(), "invalid_arguments", "malformed arguments", false)
		}
	}
	summary, err := t.backend.CreateSession(ctx, ectx.AgentID, params.Title, params.ParentSessionID)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), backendErrorCode(err), err.Error(), false)
	}
	return toolkit.DataResult(t.Name(), summary)
}

// ListTool implements sessions.list.
type ListTool struct {
	backend toolkit.SessionBackend
}

func NewListTool(backend toolkit.SessionBackend) *ListTool { return &ListTool{backend: backend} }

func (t *ListTool) Name() string { return "sessions.list" }

func (t *ListTool) Execute(ctx context.Context, ectx toolkit.ExecContext, _ json.RawMessage) *toolkit.Result {
	summaries, err := t.backend.ListSessions(ctx, ectx.AgentID)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), backendErrorCode(err), err.Error(), true)
	}
	return toolkit.DataResult(t.Name(), summaries)
}

// HistoryTool implements sessions.history.
type HistoryTool struct {
	backend toolkit.SessionBackend
}

func NewHistoryTool(backend toolkit.SessionBackend) *HistoryTool {
	return &HistoryTool{backend: backend}
}

func (t *HistoryTool) Name() string { return "sessions.history" }

type historyParams struct {
	SessionID string `json:"sessionId"`
}

type historyData struct {
	Summary models.Summary `json:"summary"`
	Events  []models.Event `json:"events"`
}

func (t *HistoryTool) Execute(ctx context.Context, ectx toolkit.ExecContext, arguments json.RawMessage) *toolkit.Result {
	var params historyParams
	if err := json.Unmarshal(arguments, &params); err != nil || params.SessionID == "" {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "sessionId is required", false)
	}
	summary, events, err := t.backend.SessionHistory(ctx, ectx.AgentID, params.SessionID)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), backendErrorCode(err), err.Error(), false)
	}
	return toolkit.DataResult(t.Name(), historyData{Summary: summary, Events: events})
}

// StatusTool implements sessions.status.
type StatusTool struct {
	backend toolkit.SessionBackend
}

func NewStatusTool(backend toolkit.SessionBackend) *StatusTool {
	return &StatusTool{backend: backend}
}

func (t *StatusTool) Name() string { return "sessions.status" }

type statusData struct {
	Stage          models.RunStage `json:"stage"`
	ActiveProcesses int            `json:"activeProcesses"`
}

func (t *StatusTool) Execute(ctx context.Context, ectx toolkit.ExecContext, arguments json.RawMessage) *toolkit.Result {
	var params historyParams
	if err := json.Unmarshal(arguments, &params); err != nil || params.SessionID == "" {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "sessionId is required", false)
	}
	status, activeProcesses, err := t.backend.SessionStatus(ctx, ectx.AgentID, params.SessionID)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), backendErrorCode(err), err.Error(), false)
	}
	return toolkit.DataResult(t.Name(), statusData{Stage: status.Stage, ActiveProcesses: activeProcesses})
}

// SendTool implements both sessions.send and messages.send: same
// contract, two catalog entries per spec §4.E, constructed with the
// tool id it should report as.
type SendTool struct {
	name    string
	backend toolkit.SessionBackend
}

func NewSendTool(name string, backend toolkit.SessionBackend) *SendTool {
	return &SendTool{name: name, backend: backend}
}

func (t *SendTool) Name() string { return t.name }

type sendParams struct {
	SessionID string `json:"sessionId"`
	Content   string `json:"content"`
	UserID    string `json:"userId"`
}

func (t *SendTool) Execute(ctx context.Context, ectx toolkit.ExecContext, arguments json.RawMessage) *toolkit.Result {
	var params sendParams
	if err := json.Unmarshal(arguments, &params); err != nil || params.Content == "" {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "content is required", false)
	}
	sessionID := params.SessionID
	if sessionID == "" {
		sessionID = ectx.SessionID
	}
	if sessionID == ectx.SessionID {
		// This tool call is itself running inside the single-writer
		// actor lane for ectx.SessionID (see internal/orchestrator's
		// onTool callback): PostMessage against that same session would
		// re-enter actor.Submit on the lane the in-flight run already
		// occupies and block forever, since that run can't finish
		// appending its own events until this call returns. Reject
		// rather than deadlock; send to a different session instead.
		return toolkit.ErrorResult(t.Name(), string(models.KindSessionBusy), "cannot post to the invoking session's own in-flight run; target a different sessionId", false)
	}
	if err := t.backend.PostMessage(ctx, ectx.AgentID, sessionID, params.Content, params.UserID); err != nil {
		return toolkit.ErrorResult(t.Name(), backendErrorCode(err), err.Error(), false)
	}
	return toolkit.DataResult(t.Name(), map[string]string{"sessionId": sessionID})
}
