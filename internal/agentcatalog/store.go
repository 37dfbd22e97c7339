// Package agentcatalog persists agent profiles and their doc bundle
// (user, role, identity, soul) as a scaffolded directory per agent,
// adapted from the bootstrap-doc-bundle idiom the teacher uses to load
// a workspace's AGENTS.md/SOUL.md/USER.md/IDENTITY.md set.
package agentcatalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"github.com/nexusforge/agentcore/pkg/models"
)

var agentIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,120}$`)

// Store is the Agent Catalog Store's contract.
type Store interface {
	Create(req models.CreateAgentRequest) (models.AgentSummary, error)
	Get(agentID string) (models.AgentSummary, error)
	List() ([]models.AgentSummary, error)
	LoadDocBundle(agentID string) (models.DocBundle, error)
	Exists(agentID string) bool
}

// FileStore scaffolds `<agentsRoot>/<agentId>/` with agent.json,
// config.json, the four markdown docs, an empty sessions/ directory,
// and tools/tools.json with default guardrails.
type FileStore struct {
	agentsRoot string
}

func NewFileStore(agentsRoot string) *FileStore {
	return &FileStore{agentsRoot: agentsRoot}
}

func (s *FileStore) dir(agentID string) string { return filepath.Join(s.agentsRoot, agentID) }

func (s *FileStore) Exists(agentID string) bool {
	info, err := os.Stat(s.dir(agentID))
	return err == nil && info.IsDir()
}

func (s *FileStore) Create(req models.CreateAgentRequest) (models.AgentSummary, error) {
	if !agentIDPattern.MatchString(req.ID) {
		return models.AgentSummary{}, models.New(models.KindInvalidAgentID, "invalid agent id: "+req.ID)
	}
	if req.DisplayName == "" || req.Role == "" {
		return models.AgentSummary{}, models.New(models.KindInvalidPayload, "displayName and role are required")
	}
	if s.Exists(req.ID) {
		return models.AgentSummary{}, models.New(models.KindAlreadyExists, "agent already exists: "+req.ID)
	}

	dir := s.dir(req.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return models.AgentSummary{}, models.Wrap(models.KindStorageFailure, err, "create agent directory")
	}

	summary, err := s.scaffold(dir, req)
	if err != nil {
		_ = os.RemoveAll(dir)
		return models.AgentSummary{}, err
	}
	return summary, nil
}

func (s *FileStore) scaffold(dir string, req models.CreateAgentRequest) (models.AgentSummary, error) {
	now := time.Now().UTC()

	if err := os.MkdirAll(filepath.Join(dir, "sessions"), 0o755); err != nil {
		return models.AgentSummary{}, models.Wrap(models.KindStorageFailure, err, "create sessions directory")
	}
	if err := os.MkdirAll(filepath.Join(dir, "tools"), 0o755); err != nil {
		return models.AgentSummary{}, models.Wrap(models.KindStorageFailure, err, "create tools directory")
	}

	docs := map[string]string{
		userDocFile:     req.Docs.UserDoc,
		agentsDocFile:   req.Docs.AgentsDoc,
		soulDocFile:     req.Docs.SoulDoc,
		identityDocFile: req.Docs.IdentityDoc,
	}
	for file, content := range docs {
		if content == "" {
			content = defaultTemplate(file)
		}
		if err := os.WriteFile(filepath.Join(dir, file), []byte(normalizeDoc(content)), 0o644); err != nil {
			return models.AgentSummary{}, models.Wrap(models.KindStorageFailure, err, "write "+file)
		}
	}

	config := models.AgentConfig{
		ID: req.ID, DisplayName: req.DisplayName, Role: req.Role,
		CreatedAt: now, SelectedModel: req.SelectedModel,
	}
	if err := writeJSON(filepath.Join(dir, configFile), config); err != nil {
		return models.AgentSummary{}, models.Wrap(models.KindStorageFailure, err, "write config.json")
	}

	summary := models.AgentSummary{
		ID: req.ID, DisplayName: req.DisplayName, Role: req.Role,
		CreatedAt: now, SelectedModel: req.SelectedModel,
	}
	if err := writeJSON(filepath.Join(dir, summaryFile), summary); err != nil {
		return models.AgentSummary{}, models.Wrap(models.KindStorageFailure, err, "write agent.json")
	}

	policy := models.DefaultToolsPolicy()
	if err := writeJSON(filepath.Join(dir, "tools", "tools.json"), policy); err != nil {
		return models.AgentSummary{}, models.Wrap(models.KindStorageFailure, err, "write tools.json")
	}

	return summary, nil
}

func (s *FileStore) Get(agentID string) (models.AgentSummary, error) {
	if !s.Exists(agentID) {
		return models.AgentSummary{}, models.New(models.KindAgentNotFound, "agent not found: "+agentID)
	}
	var summary models.AgentSummary
	if err := readJSON(filepath.Join(s.dir(agentID), summaryFile), &summary); err != nil {
		return models.AgentSummary{}, models.Wrap(models.KindStorageFailure, err, "read agent.json")
	}
	return summary, nil
}

func (s *FileStore) List() ([]models.AgentSummary, error) {
	entries, err := os.ReadDir(s.agentsRoot)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.AgentSummary{}, nil
		}
		return nil, models.Wrap(models.KindStorageFailure, err, "list agents")
	}
	var out []models.AgentSummary
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var summary models.AgentSummary
		if err := readJSON(filepath.Join(s.agentsRoot, entry.Name(), summaryFile), &summary); err != nil {
			continue
		}
		out = append(out, summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if out == nil {
		out = []models.AgentSummary{}
	}
	return out, nil
}

func (s *FileStore) LoadDocBundle(agentID string) (models.DocBundle, error) {
	if !s.Exists(agentID) {
		return models.DocBundle{}, models.New(models.KindAgentNotFound, "agent not found: "+agentID)
	}
	dir := s.dir(agentID)
	bundle := models.DocBundle{}
	var err error
	if bundle.UserDoc, err = s.readDocWithDefault(dir, userDocFile); err != nil {
		return models.DocBundle{}, err
	}
	if bundle.AgentsDoc, err = s.readDocWithDefault(dir, agentsDocFile); err != nil {
		return models.DocBundle{}, err
	}
	if bundle.SoulDoc, err = s.readDocWithDefault(dir, soulDocFile); err != nil {
		return models.DocBundle{}, err
	}
	bundle.IdentityDoc, err = s.readIdentity(dir)
	if err != nil {
		return models.DocBundle{}, err
	}
	return bundle, nil
}

// readIdentity implements the legacy fallback: if Identity.md is absent
// but Identity.id exists, its content is promoted to Markdown.
func (s *FileStore) readIdentity(dir string) (string, error) {
	content, err := readOptionalFile(filepath.Join(dir, identityDocFile))
	if err != nil {
		return "", models.Wrap(models.KindStorageFailure, err, "read "+identityDocFile)
	}
	if content != "" {
		return normalizeDoc(content), nil
	}
	legacy, err := readOptionalFile(filepath.Join(dir, identityIDFile))
	if err != nil {
		return "", models.Wrap(models.KindStorageFailure, err, "read "+identityIDFile)
	}
	if legacy != "" {
		return normalizeDoc(legacy), nil
	}
	return normalizeDoc(defaultTemplate(identityDocFile)), nil
}

func (s *FileStore) readDocWithDefault(dir, file string) (string, error) {
	content, err := readOptionalFile(filepath.Join(dir, file))
	if err != nil {
		return "", models.Wrap(models.KindStorageFailure, err, "read "+file)
	}
	if content == "" {
		content = defaultTemplate(file)
	}
	return normalizeDoc(content), nil
}

func readOptionalFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	return string(data), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

var _ Store = (*FileStore)(nil)
