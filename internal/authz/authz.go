// Package authz implements the Authorization Service: a thin decision
// function over internal/toolspolicy, in the teacher's internal/policy
// idiom of small pure lookup-driven decision functions.
package authz

import (
	"github.com/nexusforge/agentcore/internal/toolspolicy"
	"github.com/nexusforge/agentcore/pkg/models"
)

// Decision is the outcome of a tool-call authorization check.
type Decision struct {
	Allowed    bool
	Guardrails models.Guardrails
}

// Decide resolves whether toolID is permitted for agentID under its
// current tools policy. An unknown tool id is always denied,
// regardless of defaultPolicy, since it cannot appear in a valid
// policy's Tools map (see toolspolicy.Validate).
func Decide(store toolspolicy.Store, agentID, toolID string) (Decision, error) {
	if !models.KnownTools[toolID] {
		return Decision{Allowed: false}, nil
	}

	policy, err := store.Load(agentID)
	if err != nil {
		return Decision{}, err
	}

	allowed := policy.DefaultPolicy == models.PolicyAllow
	if spec, ok := policy.Tools[toolID]; ok {
		allowed = spec.Allow
	}

	return Decision{Allowed: allowed, Guardrails: policy.Guardrails}, nil
}

// Forbidden builds the standard tool_forbidden error a caller returns
// when Decide reports Allowed == false.
func Forbidden(toolID string) *models.Error {
	return models.New(models.KindToolForbidden, "tool not permitted for this agent: "+toolID).WithRetryable(false)
}
