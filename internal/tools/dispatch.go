// Package tools wires the per-family tool packages (files, runtime,
// sessions, agents, adapters) into one dispatch table, gating every
// call through the Authorization Service and a per-agent tool-call
// rate limiter before invoking the tool.
package tools

import (
	"context"
	"encoding/json"
	"sync"

	"golang.org/x/time/rate"

	"github.com/nexusforge/agentcore/internal/agentcatalog"
	"github.com/nexusforge/agentcore/internal/authz"
	"github.com/nexusforge/agentcore/internal/process"
	"github.com/nexusforge/agentcore/internal/toolkit"
	"github.com/nexusforge/agentcore/internal/toolspolicy"
	"github.com/nexusforge/agentcore/internal/tools/adapters"
	agentstool "github.com/nexusforge/agentcore/internal/tools/agents"
	"github.com/nexusforge/agentcore/internal/tools/files"
	"github.com/nexusforge/agentcore/internal/tools/runtime"
	sessionstool "github.com/nexusforge/agentcore/internal/tools/sessions"
)

// Dispatcher is the Tool Executor: the one entry point a Session
// Orchestrator run calls to execute a named tool with arguments.
type Dispatcher struct {
	policy        toolspolicy.Store
	workspaceRoot string
	registry      map[string]toolkit.Tool

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// Deps bundles every collaborator the dispatch table wires a tool
// family to.
type Deps struct {
	ToolsPolicy     toolspolicy.Store
	WorkspaceRoot   string
	ProcessRegistry *process.Registry
	AgentCatalog    agentcatalog.Store
	SessionBackend  toolkit.SessionBackend
}

// NewDispatcher builds the dispatch table with one entry per tool id
// in the closed catalog (models.KnownTools).
func NewDispatcher(deps Deps) *Dispatcher {
	registry := map[string]toolkit.Tool{}

	register := func(tool toolkit.Tool) { registry[tool.Name()] = tool }

	register(files.NewReadTool())
	register(files.NewWriteTool())
	register(files.NewEditTool())
	register(runtime.NewExecTool())
	register(runtime.NewProcessTool(deps.ProcessRegistry))
	register(sessionstool.NewSpawnTool(deps.SessionBackend))
	register(sessionstool.NewListTool(deps.SessionBackend))
	register(sessionstool.NewHistoryTool(deps.SessionBackend))
	register(sessionstool.NewStatusTool(deps.SessionBackend))
	register(sessionstool.NewSendTool("sessions.send", deps.SessionBackend))
	register(sessionstool.NewSendTool("messages.send", deps.SessionBackend))
	register(agentstool.NewListTool(deps.AgentCatalog))
	for _, adapter := range adapters.All() {
		register(adapter)
	}

	return &Dispatcher{
		policy:        deps.ToolsPolicy,
		workspaceRoot: deps.WorkspaceRoot,
		registry:      registry,
		limiters:      make(map[string]*rate.Limiter),
	}
}

// Dispatch authorizes and executes a named tool call. It always
// returns a non-nil Result; failures are reported in Result.Error
// rather than as a Go error, matching spec §7's "a tool failure is
// never a Go panic" discipline.
func (d *Dispatcher) Dispatch(ctx context.Context, agentID, sessionID, toolID string, arguments json.RawMessage) *toolkit.Result {
	tool, known := d.registry[toolID]
	if !known {
		return toolkit.ErrorResult(toolID, "invalid_tool", "unknown tool: "+toolID, false)
	}

	decision, err := authz.Decide(d.policy, agentID, toolID)
	if err != nil {
		return toolkit.ErrorResult(toolID, "storageFailure", err.Error(), true)
	}
	if !decision.Allowed {
		forbidden := authz.Forbidden(toolID)
		return toolkit.ErrorResult(toolID, string(forbidden.Kind), forbidden.Message, forbidden.Retryable)
	}

	if !d.limiterFor(agentID, decision.Guardrails.MaxToolCallsPerMinute).Allow() {
		return toolkit.ErrorResult(toolID, "rate_limited", "tool call rate limit exceeded for agent", true)
	}

	ectx := toolkit.ExecContext{AgentID: agentID, SessionID: sessionID, WorkspaceRoot: d.workspaceRoot, Guardrails: decision.Guardrails}
	return toolkit.Invoke(tool, ctx, ectx, arguments)
}

func (d *Dispatcher) limiterFor(agentID string, perMinute int) *rate.Limiter {
	d.mu.Lock()
	defer d.mu.Unlock()
	limiter, ok := d.limiters[agentID]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
		d.limiters[agentID] = limiter
	}
	return limiter
}
