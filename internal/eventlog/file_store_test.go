package eventlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nexusforge/agentcore/pkg/models"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a1"), 0o755))
	return NewFileStore(root), root
}

func sessionCreatedEvent(agentID, sessionID, title string, at time.Time) models.Event {
	return models.Event{
		ID:        uuid.NewString(),
		AgentID:   agentID,
		SessionID: sessionID,
		CreatedAt: at,
		Type:      models.EventSessionCreated,
		SessionCreated: &models.SessionCreatedPayload{
			Title: title,
		},
	}
}

func TestCreateAndLoadRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	now := time.Now().UTC()

	summary, err := store.Create("a1", "s1", []models.Event{sessionCreatedEvent("a1", "s1", "T", now)})
	require.NoError(t, err)
	require.Equal(t, "T", summary.Title)
	require.Equal(t, 0, summary.MessageCount)

	loaded, events, err := store.Load("a1", "s1")
	require.NoError(t, err)
	require.Equal(t, "s1", loaded.ID)
	require.Equal(t, "T", loaded.Title)
	require.Len(t, events, 1)
	require.Equal(t, models.EventSessionCreated, events[0].Type)
}

func TestCreateFailsWhenAgentMissing(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Create("missing", "s1", []models.Event{sessionCreatedEvent("missing", "s1", "T", time.Now())})
	require.Error(t, err)
	kind, ok := models.KindOf(err)
	require.True(t, ok)
	require.Equal(t, models.KindAgentNotFound, kind)
}

func TestAppendFailsWhenSessionMissing(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Append("a1", "never-created", []models.Event{sessionCreatedEvent("a1", "never-created", "T", time.Now())})
	require.Error(t, err)
	kind, _ := models.KindOf(err)
	require.Equal(t, models.KindSessionNotFound, kind)
}

func TestAppendNeverCreatesImplicitly(t *testing.T) {
	store, root := newTestStore(t)
	_, _ = store.Append("a1", "ghost", []models.Event{sessionCreatedEvent("a1", "ghost", "T", time.Now())})
	_, err := os.Stat(filepath.Join(root, "a1", "sessions", "ghost.jsonl"))
	require.True(t, os.IsNotExist(err))
}

func TestEventOrderingOnLoad(t *testing.T) {
	store, _ := newTestStore(t)
	base := time.Now().UTC()
	_, err := store.Create("a1", "s1", []models.Event{sessionCreatedEvent("a1", "s1", "T", base)})
	require.NoError(t, err)

	// Append out of chronological order; load must sort by CreatedAt.
	later := base.Add(2 * time.Second)
	earlier := base.Add(1 * time.Second)
	msg := func(at time.Time, text string) models.Event {
		return models.Event{
			ID: uuid.NewString(), AgentID: "a1", SessionID: "s1", CreatedAt: at,
			Type: models.EventMessage,
			Message: &models.MessagePayload{
				Role:     models.RoleUser,
				Segments: []models.Segment{{Type: models.SegmentText, Text: text}},
			},
		}
	}
	_, err = store.Append("a1", "s1", []models.Event{msg(later, "second"), msg(earlier, "first")})
	require.NoError(t, err)

	summary, events, err := store.Load("a1", "s1")
	require.NoError(t, err)
	require.Equal(t, models.EventSessionCreated, events[0].Type)
	require.Equal(t, "first", events[1].Message.Text())
	require.Equal(t, "second", events[2].Message.Text())
	require.Equal(t, 2, summary.MessageCount)
	require.Equal(t, "second", summary.LastMessagePreview)
}

func TestListEnumeratesSessions(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Create("a1", "s1", []models.Event{sessionCreatedEvent("a1", "s1", "T1", time.Now())})
	require.NoError(t, err)
	_, err = store.Create("a1", "s2", []models.Event{sessionCreatedEvent("a1", "s2", "T2", time.Now())})
	require.NoError(t, err)

	summaries, err := store.List("a1")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
}

func TestListOnMissingAgentReturnsEmpty(t *testing.T) {
	store, _ := newTestStore(t)
	summaries, err := store.List("never-created")
	require.NoError(t, err)
	require.Empty(t, summaries)
}

func TestDeleteIsIdempotentAtAssetLevel(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Create("a1", "s1", []models.Event{sessionCreatedEvent("a1", "s1", "T", time.Now())})
	require.NoError(t, err)
	require.NoError(t, store.Delete("a1", "s1"))
	require.NoError(t, store.Delete("a1", "s1")) // second delete: no error
}

func TestPersistAttachmentsSanitizesNames(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Create("a1", "s1", []models.Event{sessionCreatedEvent("a1", "s1", "T", time.Now())})
	require.NoError(t, err)

	refs, err := store.PersistAttachments("a1", "s1", []Upload{
		{ID: "att1", Name: "../../etc/passwd!!.txt", Base64: "aGVsbG8="},
		{ID: "att2", Name: "metadata-only.txt", Base64: ""},
	})
	require.NoError(t, err)
	require.Len(t, refs, 2)
	require.NotEmpty(t, refs[0].RelativePath)
	require.Equal(t, int64(5), refs[0].SizeBytes)
	require.Empty(t, refs[1].RelativePath)
}

func TestSanitizeFilenameProperties(t *testing.T) {
	cases := []string{"../../etc/passwd", "  leading space", "weird???name", "--..dots..--", "", "a/b\\c"}
	valid := func(s string) bool {
		for _, r := range s {
			if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '.' || r == '-') {
				return false
			}
		}
		return true
	}
	for _, c := range cases {
		out := SanitizeFilename(c)
		require.NotEmpty(t, out)
		require.True(t, valid(out), "invalid chars in %q", out)
		require.NotContains(t, out, "--")
		require.False(t, out[0] == '-' || out[0] == '.')
		require.False(t, out[len(out)-1] == '-' || out[len(out)-1] == '.')
	}
}
