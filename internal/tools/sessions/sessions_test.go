package sessions

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/internal/toolkit"
	"github.com/nexusforge/agentcore/pkg/models"
)

type fakeBackend struct {
	summary models.Summary
	events  []models.Event
	stage   models.RunStage
	posted  []string
	failErr error
}

func (f *fakeBackend) CreateSession(_ context.Context, _, title, _ string) (models.Summary, error) {
	if f.failErr != nil {
		return models.Summary{}, f.failErr
	}
	f.summary.Title = title
	return f.summary, nil
}

func (f *fakeBackend) ListSessions(_ context.Context, _ string) ([]models.Summary, error) {
	return []models.Summary{f.summary}, f.failErr
}

func (f *fakeBackend) SessionHistory(_ context.Context, _, _ string) (models.Summary, []models.Event, error) {
	return f.summary, f.events, f.failErr
}

func (f *fakeBackend) SessionStatus(_ context.Context, _, _ string) (models.RunStatusPayload, int, error) {
	return models.RunStatusPayload{Stage: f.stage}, 1, f.failErr
}

func (f *fakeBackend) PostMessage(_ context.Context, _, sessionID, content, _ string) error {
	f.posted = append(f.posted, sessionID+":"+content)
	return f.failErr
}

var _ toolkit.SessionBackend = (*fakeBackend)(nil)

func TestSpawnListHistoryStatusSend(t *testing.T) {
	backend := &fakeBackend{summary: models.Summary{ID: "s1"}, stage: models.StageResponding}
	ectx := toolkit.ExecContext{AgentID: "a1", SessionID: "s1"}

	spawnArgs, _ := json.Marshal(spawnParams{Title: "hi"})
	res := NewSpawnTool(backend).Execute(context.Background(), ectx, spawnArgs)
	require.True(t, res.OK)

	res = NewListTool(backend).Execute(context.Background(), ectx, nil)
	require.True(t, res.OK)

	histArgs, _ := json.Marshal(historyParams{SessionID: "s1"})
	res = NewHistoryTool(backend).Execute(context.Background(), ectx, histArgs)
	require.True(t, res.OK)

	res = NewStatusTool(backend).Execute(context.Background(), ectx, histArgs)
	require.True(t, res.OK)
	var status statusData
	require.NoError(t, json.Unmarshal(res.Data, &status))
	require.Equal(t, models.StageResponding, status.Stage)

	sendArgs, _ := json.Marshal(sendParams{SessionID: "s2", Content: "hello"})
	res = NewSendTool("sessions.send", backend).Execute(context.Background(), ectx, sendArgs)
	require.True(t, res.OK)
	require.Equal(t, []string{"s2:hello"}, backend.posted)
}

// TestSendDefaultsToCallerSessionRejected verifies the guard against
// re-entrant same-session posts: a tool call always runs inside the
// invoking session's own actor lane, so a send that defaults (or
// explicitly targets) that same session would re-enter the lane it is
// already blocking and deadlock. The send tool rejects it instead.
func TestSendDefaultsToCallerSessionRejected(t *testing.T) {
	backend := &fakeBackend{}
	ectx := toolkit.ExecContext{AgentID: "a1", SessionID: "caller-session"}
	sendArgs, _ := json.Marshal(sendParams{Content: "x"})
	res := NewSendTool("messages.send", backend).Execute(context.Background(), ectx, sendArgs)
	require.False(t, res.OK)
	require.Equal(t, string(models.KindSessionBusy), res.Error.Code)
	require.Empty(t, backend.posted)
}

func TestSendExplicitSameSessionRejected(t *testing.T) {
	backend := &fakeBackend{}
	ectx := toolkit.ExecContext{AgentID: "a1", SessionID: "caller-session"}
	sendArgs, _ := json.Marshal(sendParams{SessionID: "caller-session", Content: "x"})
	res := NewSendTool("sessions.send", backend).Execute(context.Background(), ectx, sendArgs)
	require.False(t, res.OK)
	require.Equal(t, string(models.KindSessionBusy), res.Error.Code)
	require.Empty(t, backend.posted)
}

func TestSendToDifferentSessionSucceeds(t *testing.T) {
	backend := &fakeBackend{}
	ectx := toolkit.ExecContext{AgentID: "a1", SessionID: "caller-session"}
	sendArgs, _ := json.Marshal(sendParams{SessionID: "other-session", Content: "x"})
	res := NewSendTool("messages.send", backend).Execute(context.Background(), ectx, sendArgs)
	require.True(t, res.OK)
	require.Equal(t, []string{"other-session:x"}, backend.posted)
}
