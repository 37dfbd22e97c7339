// Package stream implements the Live Stream Fan-out: one polling task
// per subscription that reads a session's event log by cursor and
// emits ordered stream updates over server-sent-events, grounded in
// the teacher's internal/canvas.Hub per-session subscriber fan-out
// (internal/canvas/stream.go), adapted from a broadcast pub-sub to a
// cursor-driven poll loop per spec §4.G.
package stream

import (
	"context"
	"time"

	"github.com/nexusforge/agentcore/internal/eventlog"
	"github.com/nexusforge/agentcore/pkg/models"
)

// Kind is the stream update's discriminator.
type Kind string

const (
	KindReady   Kind = "sessionReady"
	KindEvent   Kind = "sessionEvent"
	KindHeart   Kind = "heartbeat"
	KindClosed  Kind = "sessionClosed"
	KindErrored Kind = "sessionError"
)

// PollInterval is the per-subscription event-log poll period.
const PollInterval = 250 * time.Millisecond

// HeartbeatInterval is the wall-clock gap after which an idle
// subscription emits a heartbeat instead of waiting for a new event.
const HeartbeatInterval = 12 * time.Second

// Update is one record a subscription emits. Cursor is the count of
// events delivered so far on this subscription; it only increases.
type Update struct {
	Kind      Kind            `json:"kind"`
	Cursor    int             `json:"cursor"`
	Summary   *models.Summary `json:"summary,omitempty"`
	Event     *models.Event   `json:"event,omitempty"`
	Message   string          `json:"message,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Subscribe polls one session's event log and delivers ordered
// Updates to a sink until the caller cancels ctx, the session is
// deleted (sessionClosed), or an unexpected storage error occurs
// (sessionError). The sink is invoked on the polling goroutine, never
// concurrently with itself.
func Subscribe(ctx context.Context, store eventlog.Store, agentID, sessionID string, sink func(Update) bool) {
	ticker := time.NewTicker(PollInterval)
	defer ticker.Stop()

	cursor := 0
	lastHeartbeat := time.Time{}
	first := true

	emit := func(u Update) bool {
		u.CreatedAt = now()
		return sink(u)
	}

	for {
		summary, events, err := store.Load(agentID, sessionID)
		if err != nil {
			if kind, ok := models.KindOf(err); ok && kind == models.KindSessionNotFound {
				emit(Update{Kind: KindClosed, Cursor: cursor, Message: "Session was deleted."})
				return
			}
			emit(Update{Kind: KindErrored, Cursor: cursor, Message: "Failed to stream session updates."})
			return
		}

		switch {
		case first:
			cursor = len(events)
			first = false
			lastHeartbeat = now()
			if !emit(Update{Kind: KindReady, Cursor: cursor, Summary: &summary}) {
				return
			}
		case len(events) > cursor:
			for i := cursor; i < len(events); i++ {
				e := events[i]
				cursor = i + 1
				lastHeartbeat = now()
				if !emit(Update{Kind: KindEvent, Cursor: cursor, Summary: &summary, Event: &e}) {
					return
				}
			}
		case now().Sub(lastHeartbeat) >= HeartbeatInterval:
			lastHeartbeat = now()
			if !emit(Update{Kind: KindHeart, Cursor: cursor}) {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func now() time.Time { return time.Now().UTC() }
