// Package adapters implements the optional integration tool family
// (web.search, web.fetch, memory.get, memory.search, cron). None of
// these have a configured backend in this deployment; each reports
// not_configured rather than silently no-op succeeding, so a caller
// can distinguish "no results" from "not wired up".
package adapters

import (
	"context"
	"encoding/json"

	"github.com/nexusforge/agentcore/internal/toolkit"
)

// StubTool is a named tool that always reports not_configured. Each
// adapter family member is a distinct StubTool instance rather than
// one catch-all, so the dispatch table and its tests exercise each
// tool id explicitly.
type StubTool struct {
	name string
}

func NewStubTool(name string) *StubTool { return &StubTool{name: name} }

func (t *StubTool) Name() string { return t.name }

func (t *StubTool) Execute(_ context.Context, _ toolkit.ExecContext, _ json.RawMessage) *toolkit.Result {
	return toolkit.ErrorResult(t.name, "not_configured", t.name+" has no configured backend in this deployment", false)
}

// All returns one stub instance for every adapter tool id in the
// closed tool catalog.
func All() []toolkit.Tool {
	names := []string{"web.search", "web.fetch", "memory.get", "memory.search", "cron"}
	tools := make([]toolkit.Tool, 0, len(names))
	for _, name := range names {
		tools = append(tools, NewStubTool(name))
	}
	return tools
}
