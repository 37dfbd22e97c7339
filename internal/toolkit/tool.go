// Package toolkit holds the shared tool contract (ExecContext, Result,
// Tool, Resolver) that the Tool Executor's dispatch table and every
// per-family tool package (files, runtime, sessions, agents, adapters)
// depend on without depending on each other.
package toolkit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nexusforge/agentcore/pkg/models"
)

// ExecContext carries per-call context a tool needs: the caller, the
// resolved guardrails in effect, and the workspace root every path
// tool resolves against.
type ExecContext struct {
	AgentID       string
	SessionID     string
	WorkspaceRoot string
	Guardrails    models.Guardrails
}

// Result is the uniform return shape every tool produces.
type Result struct {
	Tool       string                  `json:"tool"`
	OK         bool                    `json:"ok"`
	Data       json.RawMessage         `json:"data,omitempty"`
	Error      *models.ToolResultError `json:"error,omitempty"`
	DurationMs int64                   `json:"durationMs"`
}

// Tool is the interface every dispatch-table entry implements.
type Tool interface {
	Name() string
	Execute(ctx context.Context, ectx ExecContext, arguments json.RawMessage) *Result
}

// ErrorResult builds a failed Result without touching DurationMs,
// which Dispatch fills in once Execute returns. Mirrors the teacher's
// toolError helper in internal/tools/files.
func ErrorResult(tool, code, message string, retryable bool) *Result {
	return &Result{Tool: tool, OK: false, Error: &models.ToolResultError{Code: code, Message: message, Retryable: retryable}}
}

// DataResult builds a successful Result by marshaling data to JSON.
func DataResult(tool string, data any) *Result {
	raw, err := json.Marshal(data)
	if err != nil {
		return ErrorResult(tool, "internal_error", err.Error(), false)
	}
	return &Result{Tool: tool, OK: true, Data: raw}
}

// timed wraps a tool's Execute call, stamping wall-clock DurationMs as
// the executor observes it, never as reported by the tool itself.
func timed(fn func() *Result) *Result {
	start := time.Now()
	res := fn()
	if res != nil {
		res.DurationMs = time.Since(start).Milliseconds()
	}
	return res
}

// Invoke runs a tool's Execute under timed, so every call site in the
// dispatch table reports DurationMs consistently without each tool
// having to stamp it itself.
func Invoke(tool Tool, ctx context.Context, ectx ExecContext, arguments json.RawMessage) *Result {
	return timed(func() *Result {
		return tool.Execute(ctx, ectx, arguments)
	})
}
