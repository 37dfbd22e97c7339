package orchestrator

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/nexusforge/agentcore/pkg/models"
)

// bootstrapMarker is the first line of the bootstrap system message.
// ensureSessionContextLoaded checks for its presence to decide whether
// bootstrap has already run for a session.
const bootstrapMarker = "[agent_session_context_bootstrap_v1]"

// ensureSessionContextLoaded implements the idempotent bootstrap step
// shared by createSession and postMessage: if the session's model
// provider channel has no system message carrying bootstrapMarker yet,
// one is appended there (and mirrored into the event log for the
// durable transcript). Calling it twice appends exactly one message.
//
// Per spec §4.F/§6, the channel — not the event log — is what a real
// provider actually consumes on every turn (it only ever receives
// channelID and per-turn content, never the event log), so the
// already-bootstrapped check goes through provider.ChannelState and
// the seed goes through provider.AppendSystemMessage. The event-log
// copy of the bootstrap message still exists as this module's own
// durable transcript and is the fallback check when the provider
// can't answer (e.g. AppendSystemMessage hasn't persisted yet).
func (o *Orchestrator) ensureSessionContextLoaded(ctx context.Context, agentID, sessionID string, events []models.Event) error {
	channel := channelID(agentID, sessionID)

	if snapshot, err := o.provider.ChannelState(ctx, channel); err == nil && snapshot != nil && snapshot.SystemMessageCount > 0 {
		return nil
	}

	for _, e := range events {
		if e.Type != models.EventMessage || e.Message == nil {
			continue
		}
		if e.Message.Role == models.RoleSystem && strings.HasPrefix(e.Message.Text(), bootstrapMarker) {
			return nil
		}
	}

	docs, err := o.catalog.LoadDocBundle(agentID)
	if err != nil {
		return err
	}

	content := strings.Join([]string{
		bootstrapMarker,
		"",
		docs.UserDoc,
		docs.AgentsDoc,
		docs.SoulDoc,
		docs.IdentityDoc,
	}, "\n")

	if err := o.provider.AppendSystemMessage(ctx, channel, content); err != nil {
		return err
	}

	bootstrapEvent := models.Event{
		ID: uuid.NewString(), AgentID: agentID, SessionID: sessionID, CreatedAt: now(),
		Type: models.EventMessage,
		Message: &models.MessagePayload{
			Role:     models.RoleSystem,
			Segments: []models.Segment{{Type: models.SegmentText, Text: content}},
		},
	}
	_, err = o.eventlog.Append(agentID, sessionID, []models.Event{bootstrapEvent})
	return err
}
