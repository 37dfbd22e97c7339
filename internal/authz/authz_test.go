package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/internal/toolspolicy"
	"github.com/nexusforge/agentcore/pkg/models"
)

func TestDecideDefaultAllowUnlessOverridden(t *testing.T) {
	root := t.TempDir()
	store := toolspolicy.NewFileStore(root)
	policy, err := store.Load("a1")
	require.NoError(t, err)
	policy.Tools["runtime.exec"] = models.ToolSpec{Allow: false}
	require.NoError(t, store.Save("a1", policy))

	decision, err := Decide(store, "a1", "files.read")
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = Decide(store, "a1", "runtime.exec")
	require.NoError(t, err)
	require.False(t, decision.Allowed)
}

func TestDecideRejectsUnknownTool(t *testing.T) {
	root := t.TempDir()
	store := toolspolicy.NewFileStore(root)
	decision, err := Decide(store, "a1", "not.a.real.tool")
	require.NoError(t, err)
	require.False(t, decision.Allowed)
}

func TestForbiddenErrorIsNonRetryable(t *testing.T) {
	err := Forbidden("runtime.exec")
	require.Equal(t, models.KindToolForbidden, err.Kind)
	require.False(t, err.Retryable)
}
