package stream

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/internal/eventlog"
	"github.com/nexusforge/agentcore/pkg/models"
)

func seedSession(t *testing.T, root, agentID, sessionID string, n int) *eventlog.FileStore {
	t.Helper()
	require.NoError(t, os.MkdirAll(root+"/"+agentID, 0o755))
	store := eventlog.NewFileStore(root)
	events := make([]models.Event, 0, n)
	for i := 0; i < n; i++ {
		events = append(events, models.Event{
			ID: fmt.Sprintf("e%d", i), AgentID: agentID, SessionID: sessionID,
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Millisecond),
			Type:      models.EventMessage,
			Message:   &models.MessagePayload{Role: models.RoleUser, Segments: []models.Segment{{Type: models.SegmentText, Text: "m"}}},
		})
	}
	_, err := store.Create(agentID, sessionID, events)
	require.NoError(t, err)
	return store
}

func TestSubscribeResumeScenario(t *testing.T) {
	root := t.TempDir()
	store := seedSession(t, root, "a1", "s1", 3)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []Update
	done := make(chan struct{})

	go Subscribe(ctx, store, "a1", "s1", func(u Update) bool {
		mu.Lock()
		seen = append(seen, u)
		count := len(seen)
		mu.Unlock()
		if count == 1 {
			close(done)
		}
		return true
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for sessionReady")
	}

	mu.Lock()
	require.Equal(t, KindReady, seen[0].Kind)
	require.Equal(t, 3, seen[0].Cursor)
	mu.Unlock()

	_, err := store.Append("a1", "s1", []models.Event{
		{ID: "e3", AgentID: "a1", SessionID: "s1", CreatedAt: time.Now().UTC(), Type: models.EventMessage,
			Message: &models.MessagePayload{Role: models.RoleUser, Segments: []models.Segment{{Type: models.SegmentText, Text: "m4"}}}},
		{ID: "e4", AgentID: "a1", SessionID: "s1", CreatedAt: time.Now().UTC().Add(time.Millisecond), Type: models.EventMessage,
			Message: &models.MessagePayload{Role: models.RoleUser, Segments: []models.Segment{{Type: models.SegmentText, Text: "m5"}}}},
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 3
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	require.Equal(t, KindEvent, seen[1].Kind)
	require.Equal(t, 4, seen[1].Cursor)
	require.Equal(t, KindEvent, seen[2].Kind)
	require.Equal(t, 5, seen[2].Cursor)
	mu.Unlock()

	require.NoError(t, store.Delete("a1", "s1"))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) >= 4 && seen[len(seen)-1].Kind == KindClosed
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribeClosesWhenSessionMissing(t *testing.T) {
	root := t.TempDir()
	store := eventlog.NewFileStore(root)

	ctx := context.Background()
	result := make(chan Update, 1)
	Subscribe(ctx, store, "missing-agent", "missing-session", func(u Update) bool {
		result <- u
		return false
	})
	select {
	case u := <-result:
		require.Equal(t, KindClosed, u.Kind)
	default:
		t.Fatal("expected a terminal update")
	}
}

func TestBufferNeverDropsEvents(t *testing.T) {
	b := newBuffer()
	for i := 0; i < bufferSize+10; i++ {
		b.push(Update{Kind: KindEvent, Cursor: i + 1})
	}
	count := 0
	for {
		u, ok := b.pop()
		if !ok {
			break
		}
		require.Equal(t, KindEvent, u.Kind)
		count++
		if count == bufferSize+10 {
			break
		}
	}
	require.Equal(t, bufferSize+10, count)
}

func TestBufferEvictsOldestHeartbeatUnderPressure(t *testing.T) {
	b := newBuffer()
	for i := 0; i < bufferSize; i++ {
		b.push(Update{Kind: KindHeart, Cursor: i})
	}
	b.push(Update{Kind: KindEvent, Cursor: 999})

	u, ok := b.pop()
	require.True(t, ok)
	// The oldest heartbeat (cursor 0) should have been evicted to make
	// room, so the next item popped is the second-oldest heartbeat.
	require.Equal(t, KindHeart, u.Kind)
	require.Equal(t, 1, u.Cursor)
}
