// Package files implements the files.{read,write,edit} tool family,
// grounded in the teacher's internal/tools/files package.
package files

import (
	"context"
	"encoding/json"
	"os"
	"unicode/utf8"

	"github.com/nexusforge/agentcore/internal/toolkit"
)

// ReadTool implements files.read.
type ReadTool struct{}

func NewReadTool() *ReadTool { return &ReadTool{} }

func (t *ReadTool) Name() string { return "files.read" }

type readParams struct {
	Path     string `json:"path"`
	MaxBytes int64  `json:"maxBytes"`
}

type readData struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int64  `json:"size"`
}

func (t *ReadTool) Execute(_ context.Context, ectx toolkit.ExecContext, arguments json.RawMessage) *toolkit.Result {
	var params readParams
	if err := json.Unmarshal(arguments, &params); err != nil || params.Path == "" {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "path is required", false)
	}

	extraRoots := append(append([]string{}, ectx.Guardrails.AllowedWriteRoots...), ectx.Guardrails.AllowedExecRoots...)
	resolver := toolkit.NewResolver(ectx.WorkspaceRoot, extraRoots)
	resolved, err := resolver.Resolve(params.Path)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), "path_not_allowed", err.Error(), false)
	}

	maxBytes := ectx.Guardrails.MaxReadBytes
	if params.MaxBytes > 0 && params.MaxBytes < maxBytes {
		maxBytes = params.MaxBytes
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), "read_failed", err.Error(), false)
	}
	if info.Size() > maxBytes {
		return toolkit.ErrorResult(t.Name(), "file_too_large", "file exceeds maxBytes limit", false)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), "read_failed", err.Error(), false)
	}
	if !utf8.Valid(data) {
		return toolkit.ErrorResult(t.Name(), "binary_not_supported", "file is not valid UTF-8", false)
	}

	return toolkit.DataResult(t.Name(), readData{Path: params.Path, Content: string(data), Size: info.Size()})
}
