package models

import "time"

// DocBundle is the four-document bundle every agent carries alongside
// its config: user, agents, soul, and identity markdown.
type DocBundle struct {
	UserDoc     string
	AgentsDoc   string
	SoulDoc     string
	IdentityDoc string
}

// AgentConfig is the persisted config.json content for an agent.
type AgentConfig struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"displayName"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	SelectedModel string    `json:"selectedModel,omitempty"`
}

// AgentSummary is the persisted agent.json content: a catalog-facing
// view of an agent, sorted-key ISO8601 JSON on disk.
type AgentSummary struct {
	ID            string         `json:"id"`
	DisplayName   string         `json:"displayName"`
	Role          string         `json:"role"`
	CreatedAt     time.Time      `json:"createdAt"`
	SelectedModel string         `json:"selectedModel,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// CreateAgentRequest is the input to creating a new agent.
type CreateAgentRequest struct {
	ID            string
	DisplayName   string
	Role          string
	SelectedModel string
	Docs          DocBundle
}
