package models

// PolicyDecision is the allow/deny value carried by a tools policy.
type PolicyDecision string

const (
	PolicyAllow PolicyDecision = "allow"
	PolicyDeny  PolicyDecision = "deny"
)

// ToolSpec is a per-tool policy override.
type ToolSpec struct {
	Allow bool `json:"allow"`
}

// Guardrails are the named numeric and list limits the tool executor
// enforces before doing work. Every integer field must be strictly
// positive in a valid policy.
type Guardrails struct {
	MaxReadBytes           int64    `json:"maxReadBytes"`
	MaxWriteBytes          int64    `json:"maxWriteBytes"`
	ExecTimeoutMs          int64    `json:"execTimeoutMs"`
	MaxExecOutputBytes     int64    `json:"maxExecOutputBytes"`
	MaxProcessesPerSession int      `json:"maxProcessesPerSession"`
	MaxToolCallsPerMinute  int      `json:"maxToolCallsPerMinute"`
	WebTimeoutMs           int64    `json:"webTimeoutMs"`
	WebMaxBytes            int64    `json:"webMaxBytes"`
	DeniedCommandPrefixes  []string `json:"deniedCommandPrefixes"`
	AllowedWriteRoots      []string `json:"allowedWriteRoots"`
	AllowedExecRoots       []string `json:"allowedExecRoots"`
}

// DefaultGuardrails returns the guardrail defaults a fresh tools policy
// is written with.
func DefaultGuardrails() Guardrails {
	return Guardrails{
		MaxReadBytes:           1 << 20,
		MaxWriteBytes:          1 << 20,
		ExecTimeoutMs:          30_000,
		MaxExecOutputBytes:     256 * 1024,
		MaxProcessesPerSession: 4,
		MaxToolCallsPerMinute:  60,
		WebTimeoutMs:           15_000,
		WebMaxBytes:            1 << 20,
		DeniedCommandPrefixes:  []string{"rm -rf /", "mkfs", "dd if=", ":(){ :|:& };:"},
		AllowedWriteRoots:      []string{},
		AllowedExecRoots:       []string{},
	}
}

// ToolsPolicy is the per-agent `tools/tools.json` document.
type ToolsPolicy struct {
	Version       int                 `json:"version"`
	DefaultPolicy PolicyDecision      `json:"defaultPolicy"`
	Tools         map[string]ToolSpec `json:"tools"`
	Guardrails    Guardrails          `json:"guardrails"`
}

// DefaultToolsPolicy is what the Tools Policy Store returns and writes
// when no policy file exists yet for an agent.
func DefaultToolsPolicy() ToolsPolicy {
	return ToolsPolicy{
		Version:       1,
		DefaultPolicy: PolicyAllow,
		Tools:         map[string]ToolSpec{},
		Guardrails:    DefaultGuardrails(),
	}
}

// KnownTools is the closed catalog the policy validator checks tool ids
// against.
var KnownTools = map[string]bool{
	"files.read":        true,
	"files.edit":        true,
	"files.write":       true,
	"runtime.exec":      true,
	"runtime.process":   true,
	"sessions.spawn":    true,
	"sessions.list":     true,
	"sessions.history":  true,
	"sessions.status":   true,
	"sessions.send":     true,
	"messages.send":     true,
	"agents.list":       true,
	"web.search":        true,
	"web.fetch":         true,
	"memory.get":        true,
	"memory.search":     true,
	"cron":              true,
}
