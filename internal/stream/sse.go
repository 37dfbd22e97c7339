package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/nexusforge/agentcore/internal/eventlog"
)

// ServeHTTP writes one subscription as server-sent-events: an initial
// `: stream-open` comment, then one `event:`/`id:`/`data:` block per
// Update, flushed immediately after each write. No SSE library in the
// example pack models this exact cursor/heartbeat contract, so the
// wire encoding is hand-rolled against net/http directly (see
// DESIGN.md).
func ServeHTTP(w http.ResponseWriter, r *http.Request, store eventlog.Store, agentID, sessionID string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, ": stream-open\n\n"); err != nil {
		return
	}
	flusher.Flush()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	buf := newBuffer()
	go func() {
		defer buf.close()
		Subscribe(ctx, store, agentID, sessionID, func(u Update) bool {
			buf.push(u)
			return ctx.Err() == nil
		})
	}()

	for {
		u, ok := buf.pop()
		if !ok {
			return
		}
		if !writeUpdate(w, flusher, u) {
			return
		}
		if u.Kind == KindClosed || u.Kind == KindErrored {
			return
		}
	}
}

func writeUpdate(w http.ResponseWriter, flusher http.Flusher, u Update) bool {
	data, err := json.Marshal(u)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "event: %s\nid: %d\ndata: %s\n\n", u.Kind, u.Cursor, data); err != nil {
		return false
	}
	flusher.Flush()
	return true
}
