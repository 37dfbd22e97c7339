package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/internal/agentcatalog"
	"github.com/nexusforge/agentcore/internal/process"
	"github.com/nexusforge/agentcore/internal/toolkit"
	"github.com/nexusforge/agentcore/internal/toolspolicy"
	"github.com/nexusforge/agentcore/pkg/models"
)

type stubBackend struct{}

func (stubBackend) CreateSession(context.Context, string, string, string) (models.Summary, error) {
	return models.Summary{ID: "s1"}, nil
}
func (stubBackend) ListSessions(context.Context, string) ([]models.Summary, error) {
	return nil, nil
}
func (stubBackend) SessionHistory(context.Context, string, string) (models.Summary, []models.Event, error) {
	return models.Summary{}, nil, nil
}
func (stubBackend) SessionStatus(context.Context, string, string) (models.RunStatusPayload, int, error) {
	return models.RunStatusPayload{}, 0, nil
}
func (stubBackend) PostMessage(context.Context, string, string, string, string) error { return nil }

func newTestDispatcher(t *testing.T) (*Dispatcher, string) {
	root := t.TempDir()
	policyStore := toolspolicy.NewFileStore(root)
	catalog := agentcatalog.NewFileStore(root)
	_, err := catalog.Create(models.CreateAgentRequest{ID: "a1", DisplayName: "A", Role: "R"})
	require.NoError(t, err)

	d := NewDispatcher(Deps{
		ToolsPolicy:     policyStore,
		WorkspaceRoot:   root,
		ProcessRegistry: process.NewRegistry(),
		AgentCatalog:    catalog,
		SessionBackend:  stubBackend{},
	})
	return d, root
}

func TestDispatchUnknownToolIsInvalid(t *testing.T) {
	d, _ := newTestDispatcher(t)
	res := d.Dispatch(context.Background(), "a1", "s1", "not.a.tool", nil)
	require.False(t, res.OK)
	require.Equal(t, "invalid_tool", res.Error.Code)
}

func TestDispatchDeniedToolReportsForbidden(t *testing.T) {
	root := t.TempDir()
	store := toolspolicy.NewFileStore(root)
	catalog := agentcatalog.NewFileStore(root)
	_, err := catalog.Create(models.CreateAgentRequest{ID: "a1", DisplayName: "A", Role: "R"})
	require.NoError(t, err)
	policy, err := store.Load("a1")
	require.NoError(t, err)
	policy.Tools["agents.list"] = models.ToolSpec{Allow: false}
	require.NoError(t, store.Save("a1", policy))

	d := NewDispatcher(Deps{
		ToolsPolicy:     store,
		WorkspaceRoot:   root,
		ProcessRegistry: process.NewRegistry(),
		AgentCatalog:    catalog,
		SessionBackend:  stubBackend{},
	})

	res := d.Dispatch(context.Background(), "a1", "s1", "agents.list", nil)
	require.False(t, res.OK)
	require.Equal(t, "tool_forbidden", res.Error.Code)
	require.False(t, res.Error.Retryable)
}

func TestDispatchExecutesAllowedTool(t *testing.T) {
	d, _ := newTestDispatcher(t)
	args, _ := json.Marshal(map[string]string{"path": "notes.txt", "content": "hi"})
	res := d.Dispatch(context.Background(), "a1", "s1", "files.write", args)
	require.True(t, res.OK)
	require.GreaterOrEqual(t, res.DurationMs, int64(0))
}

var _ toolkit.SessionBackend = stubBackend{}
