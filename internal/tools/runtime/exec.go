// Package runtime implements the runtime.{exec,process} tool family.
package runtime

import (
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/nexusforge/agentcore/internal/toolkit"
)

// ExecTool implements runtime.exec: foreground subprocess execution
// racing against a timeout. Timeout racing is realized with
// context.WithTimeout driving exec.CommandContext, never a polling
// loop.
type ExecTool struct{}

func NewExecTool() *ExecTool { return &ExecTool{} }

func (t *ExecTool) Name() string { return "runtime.exec" }

type execParams struct {
	Command   string   `json:"command"`
	Arguments []string `json:"arguments"`
	TimeoutMs int64    `json:"timeoutMs"`
	Cwd       string   `json:"cwd"`
}

type execData struct {
	ExitCode int    `json:"exitCode"`
	TimedOut bool   `json:"timedOut"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

func (t *ExecTool) Execute(ctx context.Context, ectx toolkit.ExecContext, arguments json.RawMessage) *toolkit.Result {
	var params execParams
	if err := json.Unmarshal(arguments, &params); err != nil || params.Command == "" {
		return toolkit.ErrorResult(t.Name(), "invalid_arguments", "command is required", false)
	}

	if blocked := matchesDeniedPrefix(params.Command, params.Arguments, ectx.Guardrails.DeniedCommandPrefixes); blocked {
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

	timeoutMs := ectx.Guardrails.ExecTimeoutMs
	if params.TimeoutMs > 0 {
		timeoutMs = params.TimeoutMs
	}
	runCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(runCtx, params.Command, params.Arguments...)
	cmd.Dir = cwd
	stdout := newLimitedBuffer(ectx.Guardrails.MaxExecOutputBytes)
	stderr := newLimitedBuffer(ectx.Guardrails.MaxExecOutputBytes)
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	runErr := cmd.Run()
	timedOut := runCtx.Err() == context.DeadlineExceeded

	return toolkit.DataResult(t.Name(), execData{
		ExitCode: exitCode(runErr, cmd),
		TimedOut: timedOut,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	})
}

func exitCode(runErr error, cmd *exec.Cmd) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	return -1
}

func matchesDeniedPrefix(command string, args []string, denied []string) bool {
	basename := filepath.Base(command)
	full := command
	if len(args) > 0 {
		full = command + " " + strings.Join(args, " ")
	}
	for _, prefix := range denied {
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(basename, prefix) || strings.HasPrefix(full, prefix) || strings.HasPrefix(command, prefix) {
			return true
		}
	}
	return false
}
