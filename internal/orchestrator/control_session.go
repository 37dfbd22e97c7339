package orchestrator

import (
	"context"

	"github.com/nexusforge/agentcore/internal/actor"
	"github.com/nexusforge/agentcore/pkg/models"
)

// ControlAction mirrors models.ControlAction but is accepted here as
// its own exported type so callers don't need to import pkg/models
// just to drive ControlSession.
type ControlAction = models.ControlAction

// ControlSession implements spec §4.F controlSession. The interrupt
// flag is set immediately, outside the session's actor lane, so an
// in-flight postMessage run observes it on its very next onChunk
// without waiting for this call to reach the front of the lane. The
// runControl/runStatus events are still appended through the lane, so
// they never race with the in-flight run's own appends.
func (o *Orchestrator) ControlSession(ctx context.Context, agentID, sessionID string, action models.ControlAction) (models.Summary, error) {
	if action == models.ControlInterrupt {
		o.setInterrupted(sessionID, true)
	}

	return actor.Submit(o.queue, sessionID, ctx, func(context.Context) (models.Summary, error) {
		controlEvent := newEvent(agentID, sessionID, models.EventRunControl)
		controlEvent.RunControl = &models.RunControlPayload{Action: action}

		var statusEvent models.Event
		switch action {
		case models.ControlPause:
			statusEvent = runStatusEvent(agentID, sessionID, models.StagePaused, "")
		case models.ControlResume:
			statusEvent = runStatusEvent(agentID, sessionID, models.StageThinking, "Resumed")
		case models.ControlInterrupt:
			statusEvent = runStatusEvent(agentID, sessionID, models.StageInterrupted, "")
		default:
			return models.Summary{}, models.New(models.KindInvalidPayload, "unknown control action: "+string(action))
		}

		if _, err := o.eventlog.Append(agentID, sessionID, []models.Event{controlEvent, statusEvent}); err != nil {
			return models.Summary{}, err
		}

		summary, _, err := o.eventlog.Load(agentID, sessionID)
		if err != nil {
			return models.Summary{}, err
		}
		return summary, nil
	})
}
