package files

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/internal/toolkit"
	"github.com/nexusforge/agentcore/pkg/models"
)

func ectxFor(root string) toolkit.ExecContext {
	return toolkit.ExecContext{WorkspaceRoot: root, Guardrails: models.DefaultGuardrails()}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	root := t.TempDir()
	w := NewWriteTool()
	args, _ := json.Marshal(writeParams{Path: "notes/a.txt", Content: "hello"})
	res := w.Execute(context.Background(), ectxFor(root), args)
	require.True(t, res.OK)

	r := NewReadTool()
	rargs, _ := json.Marshal(readParams{Path: "notes/a.txt"})
	res = r.Execute(context.Background(), ectxFor(root), rargs)
	require.True(t, res.OK)
	var data readData
	require.NoError(t, json.Unmarshal(res.Data, &data))
	require.Equal(t, "hello", data.Content)
}

func TestPathEscapeScenario(t *testing.T) {
	root := t.TempDir()
	guardrails := models.DefaultGuardrails()
	guardrails.AllowedWriteRoots = []string{}
	ectx := toolkit.ExecContext{WorkspaceRoot: root, Guardrails: guardrails}

	w := NewWriteTool()
	args, _ := json.Marshal(writeParams{Path: "/etc/passwd", Content: "x"})
	res := w.Execute(context.Background(), ectx, args)
	require.False(t, res.OK)
	require.Equal(t, "path_not_allowed", res.Error.Code)
	require.False(t, res.Error.Retryable)

	_, err := os.Stat("/etc/passwd")
	if err == nil {
		data, _ := os.ReadFile("/etc/passwd")
		require.NotEqual(t, "x", string(data))
	}
}

func TestEditFirstOccurrenceOnly(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("foo foo foo"), 0o644))

	e := NewEditTool()
	args, _ := json.Marshal(editParams{Path: "f.txt", Search: "foo", Replace: "bar", All: false})
	res := e.Execute(context.Background(), ectxFor(root), args)
	require.True(t, res.OK)
	var data editData
	require.NoError(t, json.Unmarshal(res.Data, &data))
	require.Equal(t, 1, data.Replacements)

	content, _ := os.ReadFile(path)
	require.Equal(t, "bar foo foo", string(content))
}

func TestEditSearchNotFound(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	e := NewEditTool()
	args, _ := json.Marshal(editParams{Path: "f.txt", Search: "missing", Replace: "x"})
	res := e.Execute(context.Background(), ectxFor(root), args)
	require.False(t, res.OK)
	require.Equal(t, "search_not_found", res.Error.Code)
}
