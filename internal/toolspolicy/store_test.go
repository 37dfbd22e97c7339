package toolspolicy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/pkg/models"
)

func TestLoadMissingFileWritesDefault(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)

	policy, err := store.Load("a1")
	require.NoError(t, err)
	require.Equal(t, models.PolicyAllow, policy.DefaultPolicy)
	require.Equal(t, 1, policy.Version)

	_, statErr := os.Stat(filepath.Join(root, "a1", "tools", "tools.json"))
	require.NoError(t, statErr)
}

func TestValidateRejectsBadPolicy(t *testing.T) {
	bad := models.DefaultToolsPolicy()
	bad.Version = 2
	require.Error(t, Validate(bad))

	bad = models.DefaultToolsPolicy()
	bad.Guardrails.MaxReadBytes = 0
	require.Error(t, Validate(bad))

	bad = models.DefaultToolsPolicy()
	bad.Tools = map[string]models.ToolSpec{"not.a.real.tool": {Allow: true}}
	require.Error(t, Validate(bad))
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())
	policy := models.DefaultToolsPolicy()
	policy.DefaultPolicy = models.PolicyDeny
	policy.Tools["files.read"] = models.ToolSpec{Allow: true}

	require.NoError(t, store.Save("a1", policy))
	loaded, err := store.Load("a1")
	require.NoError(t, err)
	require.Equal(t, models.PolicyDeny, loaded.DefaultPolicy)
	require.True(t, loaded.Tools["files.read"].Allow)
}
