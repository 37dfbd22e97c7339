package agents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/internal/agentcatalog"
	"github.com/nexusforge/agentcore/internal/toolkit"
	"github.com/nexusforge/agentcore/pkg/models"
)

func TestListReturnsCreatedAgents(t *testing.T) {
	root := t.TempDir()
	catalog := agentcatalog.NewFileStore(root)
	_, err := catalog.Create(models.CreateAgentRequest{ID: "a1", DisplayName: "A", Role: "R"})
	require.NoError(t, err)

	tool := NewListTool(catalog)
	res := tool.Execute(context.Background(), toolkit.ExecContext{}, nil)
	require.True(t, res.OK)
}
