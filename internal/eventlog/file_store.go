package eventlog

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/nexusforge/agentcore/pkg/models"
)

// FileStore is the on-disk Event Log Store: one JSONL file per session
// under <agentsRoot>/<agentId>/sessions/<sessionId>.jsonl.
type FileStore struct {
	agentsRoot string
}

// NewFileStore returns a Store rooted at agentsRoot (the workspace's
// `agents/` directory).
func NewFileStore(agentsRoot string) *FileStore {
	return &FileStore{agentsRoot: agentsRoot}
}

func (s *FileStore) agentDir(agentID string) string {
	return filepath.Join(s.agentsRoot, agentID)
}

func (s *FileStore) sessionsDir(agentID string) string {
	return filepath.Join(s.agentDir(agentID), "sessions")
}

func (s *FileStore) sessionPath(agentID, sessionID string) string {
	return filepath.Join(s.sessionsDir(agentID), sessionID+".jsonl")
}

func (s *FileStore) assetsDir(agentID, sessionID string) string {
	return filepath.Join(s.sessionsDir(agentID), sessionID+".assets")
}

func (s *FileStore) Create(agentID, sessionID string, events []models.Event) (models.Summary, error) {
	if _, err := os.Stat(s.agentDir(agentID)); err != nil {
		return models.Summary{}, models.New(models.KindAgentNotFound, "agent directory does not exist: "+agentID)
	}
	if len(events) == 0 {
		return models.Summary{}, models.New(models.KindInvalidPayload, "create requires at least one event")
	}
	if err := os.MkdirAll(s.sessionsDir(agentID), 0o755); err != nil {
		return models.Summary{}, models.Wrap(models.KindStorageFailure, err, "create session directory")
	}

	path := s.sessionPath(agentID, sessionID)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return models.Summary{}, models.New(models.KindAlreadyExists, "session already exists: "+sessionID)
		}
		return models.Summary{}, models.Wrap(models.KindStorageFailure, err, "create session file")
	}
	defer f.Close()

	if err := writeEvents(f, events); err != nil {
		return models.Summary{}, models.Wrap(models.KindStorageFailure, err, "write session file")
	}
	return deriveSummary(agentID, sessionID, events), nil
}

func (s *FileStore) Append(agentID, sessionID string, events []models.Event) (models.Summary, error) {
	if len(events) == 0 {
		return models.Summary{}, models.New(models.KindInvalidPayload, "append requires at least one event")
	}
	path := s.sessionPath(agentID, sessionID)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Summary{}, models.New(models.KindSessionNotFound, "session not found: "+sessionID)
		}
		return models.Summary{}, models.Wrap(models.KindStorageFailure, err, "open session file for append")
	}
	defer f.Close()

	if err := writeEvents(f, events); err != nil {
		return models.Summary{}, models.Wrap(models.KindStorageFailure, err, "append session file")
	}

	_, all, err := s.Load(agentID, sessionID)
	if err != nil {
		return models.Summary{}, err
	}
	return deriveSummary(agentID, sessionID, all), nil
}

// writeEvents writes each event as its own buffered write call, so a
// failure mid-batch never corrupts a prior, already-flushed line.
func writeEvents(f *os.File, events []models.Event) error {
	for _, e := range events {
		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		data = append(data, '\n')
		if _, err := f.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func (s *FileStore) Load(agentID, sessionID string) (models.Summary, []models.Event, error) {
	path := s.sessionPath(agentID, sessionID)
	f, err := os.Open(path)
	if err != nil {
		return models.Summary{}, nil, models.New(models.KindSessionNotFound, "session not found: "+sessionID)
	}
	defer f.Close()

	var events []models.Event
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var e models.Event
		if err := json.Unmarshal(line, &e); err != nil {
			continue // tolerant: skip unparsable lines
		}
		events = append(events, e)
	}
	if len(events) == 0 {
		return models.Summary{}, nil, models.New(models.KindSessionNotFound, "session has no parsable events: "+sessionID)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	return deriveSummary(agentID, sessionID, events), events, nil
}

func (s *FileStore) Delete(agentID, sessionID string) error {
	path := s.sessionPath(agentID, sessionID)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return models.Wrap(models.KindStorageFailure, err, "delete session file")
	}
	if err := os.RemoveAll(s.assetsDir(agentID, sessionID)); err != nil {
		return models.Wrap(models.KindStorageFailure, err, "delete session assets")
	}
	return nil
}

// List enumerates every *.jsonl session file under an agent's sessions
// directory. Files that fail to load (e.g. zero parsable events) are
// skipped rather than failing the whole listing.
func (s *FileStore) List(agentID string) ([]models.Summary, error) {
	entries, err := os.ReadDir(s.sessionsDir(agentID))
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Summary{}, nil
		}
		return nil, models.Wrap(models.KindStorageFailure, err, "list sessions")
	}
	out := make([]models.Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".jsonl" {
			continue
		}
		sessionID := entry.Name()[:len(entry.Name())-len(".jsonl")]
		summary, _, err := s.Load(agentID, sessionID)
		if err != nil {
			continue
		}
		out = append(out, summary)
	}
	return out, nil
}

func (s *FileStore) PersistAttachments(agentID, sessionID string, uploads []Upload) ([]models.AttachmentRef, error) {
	refs := make([]models.AttachmentRef, 0, len(uploads))
	var dirEnsured bool
	for _, u := range uploads {
		ref := models.AttachmentRef{ID: u.ID, Name: u.Name, MimeType: u.MimeType}
		if u.Base64 == "" {
			refs = append(refs, ref)
			continue
		}
		data, err := base64.StdEncoding.DecodeString(u.Base64)
		if err != nil {
			return nil, models.Wrap(models.KindInvalidPayload, err, "invalid attachment base64: "+u.Name)
		}
		if !dirEnsured {
			if err := os.MkdirAll(s.assetsDir(agentID, sessionID), 0o755); err != nil {
				return nil, models.Wrap(models.KindStorageFailure, err, "create assets directory")
			}
			dirEnsured = true
		}
		filename := attachmentFilename(u.ID, u.Name)
		fullPath := filepath.Join(s.assetsDir(agentID, sessionID), filename)
		if err := os.WriteFile(fullPath, data, 0o644); err != nil {
			return nil, models.Wrap(models.KindStorageFailure, err, "write attachment: "+u.Name)
		}
		ref.SizeBytes = int64(len(data))
		ref.RelativePath = filepath.Join(sessionID+".assets", filename)
		refs = append(refs, ref)
	}
	return refs, nil
}

var _ Store = (*FileStore)(nil)
