// Package agents implements the agents.list tool, a thin read-only
// view over the Agent Catalog Store.
package agents

import (
	"context"
	"encoding/json"

	"github.com/nexusforge/agentcore/internal/agentcatalog"
	"github.com/nexusforge/agentcore/internal/toolkit"
	"github.com/nexusforge/agentcore/pkg/models"
)

// ListTool implements agents.list.
type ListTool struct {
	catalog agentcatalog.Store
}

func NewListTool(catalog agentcatalog.Store) *ListTool {
	return &ListTool{catalog: catalog}
}

func (t *ListTool) Name() string { return "agents.list" }

func (t *ListTool) Execute(_ context.Context, _ toolkit.ExecContext, _ json.RawMessage) *toolkit.Result {
	summaries, err := t.catalog.List()
	if err != nil {
		code := "storageFailure"
		if kind, ok := models.KindOf(err); ok {
			code = string(kind)
		}
		return toolkit.ErrorResult(t.Name(), code, err.Error(), true)
	}
	return toolkit.DataResult(t.Name(), summaries)
}
