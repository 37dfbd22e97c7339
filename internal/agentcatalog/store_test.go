package agentcatalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/pkg/models"
)

func TestCreateThenListScenario(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)

	summary, err := store.Create(models.CreateAgentRequest{ID: "a1", DisplayName: "A", Role: "R"})
	require.NoError(t, err)
	require.Equal(t, "a1", summary.ID)

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "a1", list[0].ID)
	require.Equal(t, "A", list[0].DisplayName)
	require.Equal(t, "R", list[0].Role)

	dir := filepath.Join(root, "a1")
	for _, f := range []string{"agent.json", "config.json", "User.md", "Agents.md", "Soul.md", "Identity.md"} {
		_, statErr := os.Stat(filepath.Join(dir, f))
		require.NoErrorf(t, statErr, "expected %s to exist", f)
	}
	entries, err := os.ReadDir(filepath.Join(dir, "sessions"))
	require.NoError(t, err)
	require.Empty(t, entries)

	var policy models.ToolsPolicy
	data, err := os.ReadFile(filepath.Join(dir, "tools", "tools.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &policy))
	require.Equal(t, models.PolicyAllow, policy.DefaultPolicy)
}

func TestCreateRejectsDuplicateAndInvalidID(t *testing.T) {
	store := NewFileStore(t.TempDir())
	_, err := store.Create(models.CreateAgentRequest{ID: "a1", DisplayName: "A", Role: "R"})
	require.NoError(t, err)

	_, err = store.Create(models.CreateAgentRequest{ID: "a1", DisplayName: "A", Role: "R"})
	require.Error(t, err)
	kind, _ := models.KindOf(err)
	require.Equal(t, models.KindAlreadyExists, kind)

	_, err = store.Create(models.CreateAgentRequest{ID: "bad id!", DisplayName: "A", Role: "R"})
	kind, _ = models.KindOf(err)
	require.Equal(t, models.KindInvalidAgentID, kind)
}

func TestLoadDocBundleUsesDefaultsAndIdentityFallback(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)
	_, err := store.Create(models.CreateAgentRequest{ID: "a1", DisplayName: "A", Role: "R"})
	require.NoError(t, err)

	// Simulate legacy Identity.id with no Identity.md.
	dir := filepath.Join(root, "a1")
	require.NoError(t, os.Remove(filepath.Join(dir, "Identity.md")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Identity.id"), []byte("legacy-id-content"), 0o644))

	bundle, err := store.LoadDocBundle("a1")
	require.NoError(t, err)
	require.Contains(t, bundle.IdentityDoc, "legacy-id-content")
	require.Contains(t, bundle.UserDoc, "User")
}

func TestCreateFailsWhenAgentPathIsAFile(t *testing.T) {
	root := t.TempDir()
	store := NewFileStore(root)
	// Pre-create a plain file at the agent's own path: Exists() reports
	// false (not a directory), so Create goes on, but MkdirAll(dir)
	// fails because the path already exists as a file.
	require.NoError(t, os.WriteFile(filepath.Join(root, "a1"), []byte("x"), 0o644))

	_, err := store.Create(models.CreateAgentRequest{ID: "a1", DisplayName: "A", Role: "R"})
	require.Error(t, err)
}
