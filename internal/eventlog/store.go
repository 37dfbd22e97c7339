// Package eventlog implements the append-only, per-session event log:
// one newline-delimited JSON file per session, owned exclusively by
// this package. No other package may open a session's .jsonl file.
package eventlog

import "github.com/nexusforge/agentcore/pkg/models"

// Upload is one attachment payload offered to PersistAttachments.
type Upload struct {
	ID       string
	Name     string
	MimeType string
	Base64   string
}

// Store is the Event Log Store's contract. Implementations own the
// on-disk layout entirely; callers never read or write session files
// directly.
type Store interface {
	// Create writes the first line(s) of a new session file. Fails with
	// KindAgentNotFound if the agent directory is absent, KindInvalidPayload
	// if events is empty.
	Create(agentID, sessionID string, events []models.Event) (models.Summary, error)

	// Append opens the session file in append-only mode and writes each
	// event as its own line. Fails with KindSessionNotFound if the file
	// does not exist; never creates the file implicitly.
	Append(agentID, sessionID string, events []models.Event) (models.Summary, error)

	// Load reads the whole file, parses tolerantly, sorts by CreatedAt,
	// and returns the derived summary alongside the ordered events.
	// Fails with KindSessionNotFound if the file is missing or contains
	// zero parsable events.
	Load(agentID, sessionID string) (models.Summary, []models.Event, error)

	// Delete removes the session file and its sibling .assets directory.
	// Idempotent at the asset-directory level.
	Delete(agentID, sessionID string) error

	// List enumerates every session summary for an agent, derived by
	// loading each session file under its sessions directory.
	List(agentID string) ([]models.Summary, error)

	// PersistAttachments decodes and writes each non-empty upload to the
	// session's assets directory, returning one AttachmentRef per upload
	// in the same order. RelativePath is left unset for metadata-only
	// (empty-payload) uploads.
	PersistAttachments(agentID, sessionID string, uploads []Upload) ([]models.AttachmentRef, error)
}
