// Package orchestrator implements the Session Orchestrator: the serial
// actor that owns session lifecycle, bootstrap, and postMessage runs
// against a provider.ModelProvider, dispatching tool calls through a
// ToolDispatcher. One lane per session (internal/actor) guarantees two
// postMessage calls for the same session never interleave, while
// different sessions of the same agent proceed concurrently — the
// teacher's serial-actor idiom, generalized from internal/process.
package orchestrator

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/nexusforge/agentcore/internal/actor"
	"github.com/nexusforge/agentcore/internal/agentcatalog"
	"github.com/nexusforge/agentcore/internal/eventlog"
	"github.com/nexusforge/agentcore/internal/process"
	"github.com/nexusforge/agentcore/internal/provider"
	"github.com/nexusforge/agentcore/internal/toolkit"
)

// ToolDispatcher is the Tool Executor's contract as the orchestrator
// needs it. internal/tools.Dispatcher satisfies it structurally.
type ToolDispatcher interface {
	Dispatch(ctx context.Context, agentID, sessionID, toolID string, arguments json.RawMessage) *toolkit.Result
}

// Orchestrator is the Session Orchestrator.
type Orchestrator struct {
	eventlog   eventlog.Store
	catalog    agentcatalog.Store
	processes  *process.Registry
	provider   provider.ModelProvider
	dispatcher ToolDispatcher
	cfg        Config

	queue *actor.Queue

	mu         sync.Mutex
	interrupts map[string]bool
}

// New builds an Orchestrator. The ToolDispatcher is typically
// constructed with this Orchestrator as its SessionBackend, so callers
// build both with a placeholder and wire them together immediately
// after construction (see cmd/agentcored).
func New(store eventlog.Store, catalog agentcatalog.Store, processes *process.Registry, modelProvider provider.ModelProvider, dispatcher ToolDispatcher, cfg Config) *Orchestrator {
	return &Orchestrator{
		eventlog:   store,
		catalog:    catalog,
		processes:  processes,
		provider:   modelProvider,
		dispatcher: dispatcher,
		cfg:        cfg,
		queue:      actor.NewQueue(),
		interrupts: make(map[string]bool),
	}
}

// SetDispatcher wires the Tool Executor in after construction, letting
// a caller build the Orchestrator first, hand a toolkit.SessionBackend
// view of it to the Dispatcher, and then inject the Dispatcher back —
// breaking the otherwise-circular constructor dependency between the
// two (see cmd/agentcored for the wiring order).
func (o *Orchestrator) SetDispatcher(dispatcher ToolDispatcher) {
	o.dispatcher = dispatcher
}

func (o *Orchestrator) isInterrupted(sessionID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.interrupts[sessionID]
}

func (o *Orchestrator) setInterrupted(sessionID string, v bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.interrupts[sessionID] = v
}
