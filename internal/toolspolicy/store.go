// Package toolspolicy persists and validates each agent's tools.json,
// and optionally hot-reloads it with fsnotify so a running orchestrator
// picks up operator edits without restart.
package toolspolicy

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/nexusforge/agentcore/pkg/models"
)

// Store is the Tools Policy Store's contract.
type Store interface {
	Load(agentID string) (models.ToolsPolicy, error)
	Save(agentID string, policy models.ToolsPolicy) error
}

// FileStore reads/writes `<agentsRoot>/<agentId>/tools/tools.json`,
// caching the last-loaded policy per agent so a watcher (see watch.go)
// can swap it atomically on change.
type FileStore struct {
	agentsRoot string

	mu    sync.RWMutex
	cache map[string]models.ToolsPolicy
}

func NewFileStore(agentsRoot string) *FileStore {
	return &FileStore{agentsRoot: agentsRoot, cache: make(map[string]models.ToolsPolicy)}
}

func (s *FileStore) path(agentID string) string {
	return filepath.Join(s.agentsRoot, agentID, "tools", "tools.json")
}

func (s *FileStore) Load(agentID string) (models.ToolsPolicy, error) {
	path := s.path(agentID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			policy := models.DefaultToolsPolicy()
			if writeErr := s.Save(agentID, policy); writeErr != nil {
				return models.ToolsPolicy{}, writeErr
			}
			return policy, nil
		}
		return models.ToolsPolicy{}, models.Wrap(models.KindStorageFailure, err, "read tools.json")
	}

	var policy models.ToolsPolicy
	if err := json.Unmarshal(data, &policy); err != nil {
		return models.ToolsPolicy{}, models.Wrap(models.KindInvalidPayload, err, "parse tools.json")
	}
	if err := Validate(policy); err != nil {
		return models.ToolsPolicy{}, err
	}
	s.store(agentID, policy)
	return policy, nil
}

func (s *FileStore) Save(agentID string, policy models.ToolsPolicy) error {
	if err := Validate(policy); err != nil {
		return err
	}
	path := s.path(agentID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return models.Wrap(models.KindStorageFailure, err, "create tools directory")
	}
	data, err := json.MarshalIndent(policy, "", "  ")
	if err != nil {
		return models.Wrap(models.KindStorageFailure, err, "marshal tools.json")
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return models.Wrap(models.KindStorageFailure, err, "write tools.json")
	}
	s.store(agentID, policy)
	return nil
}

// Cached returns the last-loaded policy for agentID without touching
// disk, falling back to Load if nothing has been cached yet.
func (s *FileStore) Cached(agentID string) (models.ToolsPolicy, error) {
	s.mu.RLock()
	policy, ok := s.cache[agentID]
	s.mu.RUnlock()
	if ok {
		return policy, nil
	}
	return s.Load(agentID)
}

func (s *FileStore) store(agentID string, policy models.ToolsPolicy) {
	s.mu.Lock()
	s.cache[agentID] = policy
	s.mu.Unlock()
}

var _ Store = (*FileStore)(nil)
