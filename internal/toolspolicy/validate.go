package toolspolicy

import "github.com/nexusforge/agentcore/pkg/models"

// Validate enforces the tools.json invariants: version 1, every
// guardrail integer strictly positive, and every tool key drawn from
// the known tool catalog. Violations fail as KindInvalidPayload.
func Validate(policy models.ToolsPolicy) error {
	if policy.Version != 1 {
		return models.New(models.KindInvalidPayload, "tools policy version must be 1")
	}
	if policy.DefaultPolicy != models.PolicyAllow && policy.DefaultPolicy != models.PolicyDeny {
		return models.New(models.KindInvalidPayload, "defaultPolicy must be allow or deny")
	}
	for tool := range policy.Tools {
		if !models.KnownTools[tool] {
			return models.Newf(models.KindInvalidPayload, "unknown tool in policy: %s", tool)
		}
	}
	g := policy.Guardrails
	positives := []struct {
		name  string
		value int64
	}{
		{"maxReadBytes", g.MaxReadBytes},
		{"maxWriteBytes", g.MaxWriteBytes},
		{"execTimeoutMs", g.ExecTimeoutMs},
		{"maxExecOutputBytes", g.MaxExecOutputBytes},
		{"maxProcessesPerSession", int64(g.MaxProcessesPerSession)},
		{"maxToolCallsPerMinute", int64(g.MaxToolCallsPerMinute)},
		{"webTimeoutMs", g.WebTimeoutMs},
		{"webMaxBytes", g.WebMaxBytes},
	}
	for _, p := range positives {
		if p.value <= 0 {
			return models.Newf(models.KindInvalidPayload, "guardrail %s must be > 0", p.name)
		}
	}
	return nil
}
