package runtime

import (
	"context"
	"encoding/json"

	"github.com/nexusforge/agentcore/internal/process"
	"github.com/nexusforge/agentcore/internal/toolkit"
	"github.com/nexusforge/agentcore/pkg/models"
)

// ProcessTool implements runtime.process: start/status/stop/list
// actions over a shared process.Registry, one registry per server
// instance shared across every session.
type ProcessTool struct {
	registry *process.Registry
}

func NewProcessTool(registry *process.Registry) *ProcessTool {
	return &ProcessTool{registry: registry}
}

func (t *ProcessTool) Name() string { return "runtime.process" }

type processParams struct {
	Action    string   `json:"action"`
	Command   string   `json:"command"`
	Arguments []string `json:"arguments"`
	Cwd       string   `json:"cwd"`
	ProcessID string   `json:"processId"`
}

func (t *ProcessTool) Execute(ctx context.Context, ectx toolkit.ExecContext, arguments json.RawMessage) *toolkit.Result {
	var params processParams
	if err := json.Unmarshal(arguments, &params); err != nil {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "malformed arguments", false)
	}

	switch params.Action {
	case "start":
		return t.start(ctx, ectx, params)
	case "status":
		return t.status(ectx, params)
	case "stop":
		return t.stop(ctx, ectx, params)
	case "list":
		return t.list(ectx)
	default:
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "action must be one of start, status, stop, list", false)
	}
}

func (t *ProcessTool) start(ctx context.Context, ectx toolkit.ExecContext, params processParams) *toolkit.Result {
	if params.Command == "" {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "command is required", false)
	}
	if matchesDeniedPrefix(params.Command, params.Arguments, ectx.Guardrails.DeniedCommandPrefixes) {
		return toolkit.ErrorResult(t.Name(), "command_blocked", "command matches a denied prefix", false)
	}

	cwd := ectx.WorkspaceRoot
	if params.Cwd != "" {
		resolver := toolkit.NewResolver(ectx.WorkspaceRoot, ectx.Guardrails.AllowedExecRoots)
		resolved, err := resolver.Resolve(params.Cwd)
		if err != nil {
			return toolkit.ErrorResult(t.Name(), "cwd_not_allowed", err.Error(), false)
		}
		cwd = resolved
	}

	proc, err := t.registry.Start(ctx, ectx.SessionID, params.Command, params.Arguments, cwd, ectx.Guardrails.MaxProcessesPerSession)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), toolErrorCode(err), err.Error(), false)
	}
	return toolkit.DataResult(t.Name(), proc)
}

func (t *ProcessTool) status(ectx toolkit.ExecContext, params processParams) *toolkit.Result {
	if params.ProcessID == "" {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "processId is required", false)
	}
	proc, err := t.registry.Status(ectx.SessionID, params.ProcessID)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), toolErrorCode(err), err.Error(), false)
	}
	return toolkit.DataResult(t.Name(), proc)
}

func (t *ProcessTool) stop(ctx context.Context, ectx toolkit.ExecContext, params processParams) *toolkit.Result {
	if params.ProcessID == "" {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "processId is required", false)
	}
	proc, err := t.registry.Stop(ctx, ectx.SessionID, params.ProcessID)
	if err != nil {
		return toolkit.ErrorResult(t.Name(), toolErrorCode(err), err.Error(), false)
	}
	return toolkit.DataResult(t.Name(), proc)
}

func (t *ProcessTool) list(ectx toolkit.ExecContext) *toolkit.Result {
	return toolkit.DataResult(t.Name(), t.registry.List(ectx.SessionID))
}

func toolErrorCode(err error) string {
	if kind, ok := models.KindOf(err); ok {
		return string(kind)
	}
	return "exec_failed"
}
