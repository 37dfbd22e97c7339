// Package mock implements a scripted provider.ModelProvider for tests
// and the cmd/agentcored smoke harness: each invocation consumes the
// next scripted Turn for its channel, in order.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/nexusforge/agentcore/internal/provider"
)

// ToolCall is a tool invocation a scripted Turn asks the orchestrator
// to perform mid-run.
type ToolCall struct {
	Tool      string
	Arguments []byte
	Reason    string
}

// Turn is one scripted response: a sequence of chunks to stream
// (cumulative, matching the real contract), optional tool calls to
// issue after the last chunk, and a final route decision.
type Turn struct {
	Chunks        []string
	ToolCalls     []ToolCall
	ErrorDetected bool
	Err           error
}

// Provider is the scripted mock. Scripts are keyed by channel id; a
// channel with no remaining scripted turns echoes the request content
// back as a trivial default response.
type Provider struct {
	mu       sync.Mutex
	scripts  map[string][]Turn
	model    string
	systemMu sync.Mutex
	system   map[string][]string
}

func New() *Provider {
	return &Provider{scripts: make(map[string][]Turn), model: "mock-default", system: make(map[string][]string)}
}

// Script appends a scripted turn for channelID, consumed in FIFO order
// by successive PostMessage calls.
func (p *Provider) Script(channelID string, turn Turn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scripts[channelID] = append(p.scripts[channelID], turn)
}

func (p *Provider) nextTurn(channelID string) (Turn, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	turns := p.scripts[channelID]
	if len(turns) == 0 {
		return Turn{}, false
	}
	next := turns[0]
	p.scripts[channelID] = turns[1:]
	return next, true
}

func (p *Provider) PostMessage(ctx context.Context, channelID string, req provider.Message, onChunk provider.OnChunk, onTool provider.OnTool) (provider.RouteDecision, error) {
	turn, scripted := p.nextTurn(channelID)
	if !scripted {
		turn = Turn{Chunks: []string{"echo: " + req.Content}}
	}
	if turn.Err != nil {
		return provider.RouteDecision{}, turn.Err
	}

	var latest string
	for _, chunk := range turn.Chunks {
		if ctx.Err() != nil {
			return provider.RouteDecision{Interrupted: true}, nil
		}
		latest = chunk
		if !onChunk(latest) {
			return provider.RouteDecision{FinalText: latest, Interrupted: true}, nil
		}
	}

	for i, call := range turn.ToolCalls {
		if ctx.Err() != nil {
			return provider.RouteDecision{Interrupted: true}, nil
		}
		result := onTool(provider.ToolInvocationRequest{
			CallID: fmt.Sprintf("%s-%d", channelID, i), Tool: call.Tool,
			Arguments: call.Arguments, Reason: call.Reason,
		})
		if !result.OK {
			latest += fmt.Sprintf(" [tool %s failed: %s]", call.Tool, result.ErrorMsg)
		}
	}

	return provider.RouteDecision{FinalText: latest, ErrorDetected: turn.ErrorDetected}, nil
}

func (p *Provider) ChannelState(_ context.Context, channelID string) (*provider.ChannelSnapshot, error) {
	p.systemMu.Lock()
	count := len(p.system[channelID])
	p.systemMu.Unlock()
	return &provider.ChannelSnapshot{ChannelID: channelID, SystemMessageCount: count}, nil
}

// AppendSystemMessage records content as a system message on
// channelID, so a later ChannelState call reports it in
// SystemMessageCount.
func (p *Provider) AppendSystemMessage(_ context.Context, channelID, content string) error {
	p.systemMu.Lock()
	p.system[channelID] = append(p.system[channelID], content)
	p.systemMu.Unlock()
	return nil
}

func (p *Provider) UpdateModelProvider(_ context.Context, modelID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.model = modelID
	return nil
}

var _ provider.ModelProvider = (*Provider)(nil)
