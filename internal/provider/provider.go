// Package provider defines the ModelProvider boundary the Session
// Orchestrator drives a run through. No concrete LLM SDK is vendored
// here; this interface is the contract an external adapter implements,
// grounded in the teacher's layered agent.LLMProvider / concrete-
// provider split.
package provider

import "context"

// ChannelSnapshot is the provider-side view of a channel's
// conversation state, returned by ChannelState.
type ChannelSnapshot struct {
	ChannelID string
	// MessageCount is the number of turns (any role) the provider
	// holds for this channel.
	MessageCount int
	// SystemMessageCount is the number of system messages appended via
	// AppendSystemMessage so far. The orchestrator's bootstrap step
	// uses this to decide whether it has already seeded the channel's
	// doc bundle, since AppendSystemMessage is the only caller that
	// ever appends a system message for a channel.
	SystemMessageCount int
	LastActivity       string
}

// Message is the user's chat turn passed to PostMessage as part of
// the request.
type Message struct {
	UserID  string
	Content string
}

// ToolInvocationRequest is what a provider asks the orchestrator to
// run mid-turn via the onTool callback.
type ToolInvocationRequest struct {
	CallID    string
	Tool      string
	Arguments []byte
	Reason    string
}

// ToolInvocationResult is the orchestrator's answer to a
// ToolInvocationRequest, handed back to the provider so it can fold
// the result into the model's context.
type ToolInvocationResult struct {
	OK         bool
	Data       []byte
	ErrorCode  string
	ErrorMsg   string
	Retryable  bool
	DurationMs int64
}

// RouteDecision is what PostMessage returns once a run completes: the
// final assistant text plus whatever routing signal the provider
// produced (an error heuristic match, or an interruption).
type RouteDecision struct {
	FinalText     string
	ErrorDetected bool
	Interrupted   bool
}

// OnChunk streams cumulative assistant text. Returning false asks the
// provider to stop generating as soon as it can.
type OnChunk func(partial string) bool

// OnTool delivers a mid-turn tool request and blocks for its result.
type OnTool func(req ToolInvocationRequest) ToolInvocationResult

// ModelProvider is the interface the Session Orchestrator depends on.
// Concrete LLM adapters (out of scope for this module) implement it;
// provider/mock ships a scripted implementation for tests and the
// cmd/agentcored smoke harness.
type ModelProvider interface {
	PostMessage(ctx context.Context, channelID string, req Message, onChunk OnChunk, onTool OnTool) (RouteDecision, error)
	ChannelState(ctx context.Context, channelID string) (*ChannelSnapshot, error)
	AppendSystemMessage(ctx context.Context, channelID, content string) error
	UpdateModelProvider(ctx context.Context, modelID string) error
}
