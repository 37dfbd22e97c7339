package files

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/nexusforge/agentcore/internal/toolkit"
)

// EditTool implements files.edit: an in-place substring replace. The
// unified-diff preview in the result is informational only; it does
// not change the substring-replace semantics or failure modes.
type EditTool struct{}

func NewEditTool() *EditTool { return &EditTool{} }

func (t *EditTool) Name() string { return "files.edit" }

type editParams struct {
	Path    string `json:"path"`
	Search  string `json:"search"`
	Replace string `json:"replace"`
	All     bool   `json:"all"`
}

type editData struct {
	Path         string `json:"path"`
	Replacements int    `json:"replacements"`
	Diff         string `json:"diff"`
}

func (t *EditTool) Execute(_ context.Context, ectx toolkit.ExecContext, arguments json.RawMessage) *toolkit.Result {
	var params editParams
	if err := json.Unmarshal(arguments, &params); err != nil || params.Path == "" || params.Search == "" {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "path and search are required", false)
	}

	resolver := toolkit.NewResolver(ectx.WorkspaceRoot, ectx.Guardrails.AllowedWriteRoots)
	resolved, err := resolver.Resolve(params.Path)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), "path_not_allowed", err.Error(), false)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), "edit_failed", err.Error(), false)
	}
	original := string(data)

	var updated string
	var count int
	if params.All {
		count = strings.Count(original, params.Search)
		updated = strings.ReplaceAll(original, params.Search, params.Replace)
	} else {
		idx := strings.Index(original, params.Search)
		if idx >= 0 {
			count = 1
			updated = original[:idx] + params.Replace + original[idx+len(params.Search):]
		} else {
			updated = original
		}
	}
	if count == 0 {
		return toolkit.ErrorResult(t.Name(), "search_not_found", "search text not found", false)
	}
	if int64(len(updated)) > ectx.Guardrails.MaxWriteBytes {
		return toolkit.ErrorResult(t.Name(), "content_too_large", "edited content exceeds maxWriteBytes limit", false)
	}

	tmp := resolved + ".tmp-" + randomSuffix()
	if err := os.WriteFile(tmp, []byte(updated), 0o644); err != nil {
		return toolkit.ErrorResult(t.Name(), "edit_failed", err.Error(), false)
	}
	if err := os.Rename(tmp, resolved); err != nil {
		_ = os.Remove(tmp)
		return toolkit.ErrorResult(t.Name(), "edit_failed", err.Error(), false)
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, updated, false)
	diff := dmp.DiffPrettyText(diffs)

	return toolkit.DataResult(t.Name(), editData{Path: params.Path, Replacements: count, Diff: diff})
}
