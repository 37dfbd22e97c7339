package files

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nexusforge/agentcore/internal/toolkit"
)

// WriteTool implements files.write.
type WriteTool struct{}

func NewWriteTool() *WriteTool { return &WriteTool{} }

func (t *WriteTool) Name() string { return "files.write" }

type writeParams struct {
	Path       string `json:"path"`
	Content    string `json:"content"`
	AllowEmpty bool   `json:"allowEmpty"`
}

type writeData struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

func (t *WriteTool) Execute(_ context.Context, ectx toolkit.ExecContext, arguments json.RawMessage) *toolkit.Result {
	var params writeParams
	if err := json.Unmarshal(arguments, &params); err != nil || params.Path == "" {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "path is required", false)
	}
	if params.Content == "" && !params.AllowEmpty {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "content is empty; pass allowEmpty to write an empty file", false)
	}
	if int64(len(params.Content)) > ectx.Guardrails.MaxWriteBytes {
		return toolkit.ErrorResult(t.Name(), "content_too_large", "content exceeds maxWriteBytes limit", false)
	}

	resolver := toolkit.NewResolver(ectx.WorkspaceRoot, ectx.Guardrails.AllowedWriteRoots)
	resolved, err := resolver.Resolve(params.Path)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), "path_not_allowed", err.Error(), false)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return toolkit.ErrorResult(t.Name(), "write_failed", err.Error(), false)
	}

	tmp := resolved + ".tmp-" + randomSuffix()
	if err := os.WriteFile(tmp, []byte(params.Content), 0o644); err != nil {
		return toolkit.ErrorResult(t.Name(), "write_failed", err.Error(), false)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return toolkit.ErrorResult(t.Name(), "write_failed", err.Error(), false)
	}

	return toolkit.DataResult(t.Name(), writeData{Path: params.Path, Size: int64(len(params.Content))})
}

func randomSuffix() string {
	// A process-unique tiebreaker is enough: two writers racing the same
	// path only need distinct temp names, not global uniqueness.
	return strconv.Itoa(os.Getpid()) + "-" + strconv.FormatInt(time.Now().UnixNano(), 36)
}
