package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nexusforge/agentcore/internal/agentcatalog"
	"github.com/nexusforge/agentcore/internal/eventlog"
	"github.com/nexusforge/agentcore/internal/metrics"
	"github.com/nexusforge/agentcore/internal/orchestrator"
	"github.com/nexusforge/agentcore/internal/stream"
	"github.com/nexusforge/agentcore/pkg/models"
)

// apiServer holds the collaborators every HTTP handler needs, mirroring
// the teacher's gateway.Server field-bag-plus-handler-methods shape.
type apiServer struct {
	orchestrator *orchestrator.Orchestrator
	catalog      agentcatalog.Store
	eventlog     eventlog.Store
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

func promHandler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

func (a *apiServer) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/v1/agents/", a.handleAgents)
}

func (a *apiServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// handleAgents routes every /v1/agents/{agentID}/... path. A single
// mux entry with manual suffix dispatch mirrors the teacher's
// handlers_*.go split of one concern per file without pulling in a
// router dependency the pack never uses for this layer.
func (a *apiServer) handleAgents(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/agents/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	agentID := parts[0]

	switch {
	case len(parts) == 2 && parts[1] == "sessions" && r.Method == http.MethodPost:
		a.handleCreateSession(w, r, agentID)
	case len(parts) == 2 && parts[1] == "sessions" && r.Method == http.MethodGet:
		a.handleListSessions(w, r, agentID)
	case len(parts) == 4 && parts[1] == "sessions" && parts[3] == "messages" && r.Method == http.MethodPost:
		a.handlePostMessage(w, r, agentID, parts[2])
	case len(parts) == 4 && parts[1] == "sessions" && parts[3] == "control" && r.Method == http.MethodPost:
		a.handleControlSession(w, r, agentID, parts[2])
	case len(parts) == 4 && parts[1] == "sessions" && parts[3] == "history" && r.Method == http.MethodGet:
		a.handleSessionHistory(w, r, agentID, parts[2])
	case len(parts) == 4 && parts[1] == "sessions" && parts[3] == "stream" && r.Method == http.MethodGet:
		a.handleStream(w, r, agentID, parts[2])
	default:
		http.NotFound(w, r)
	}
}

func (a *apiServer) handleCreateSession(w http.ResponseWriter, r *http.Request, agentID string) {
	var body struct {
		Title           string `json:"title"`
		ParentSessionID string `json:"parentSessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := a.orchestrator.CreateSession(r.Context(), agentID, orchestrator.CreateSessionRequest{
		Title:           body.Title,
		ParentSessionID: body.ParentSessionID,
	})
	if err != nil {
		writeModelError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summary)
}

func (a *apiServer) handleListSessions(w http.ResponseWriter, r *http.Request, agentID string) {
	summaries, err := a.orchestrator.ListSessions(r.Context(), agentID)
	if err != nil {
		writeModelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (a *apiServer) handlePostMessage(w http.ResponseWriter, r *http.Request, agentID, sessionID string) {
	var body struct {
		UserID          string `json:"userId"`
		Content         string `json:"content"`
		SpawnSubSession bool   `json:"spawnSubSession"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	start := time.Now()
	a.metrics.RunStarted(agentID)
	result, err := a.orchestrator.PostMessage(r.Context(), agentID, sessionID, orchestrator.PostMessageRequest{
		UserID:          body.UserID,
		Content:         body.Content,
		SpawnSubSession: body.SpawnSubSession,
	})
	if err != nil {
		writeModelError(w, err)
		return
	}
	stage := ""
	for i := len(result.AppendedEvents) - 1; i >= 0; i-- {
		if ev := result.AppendedEvents[i]; ev.RunStatus != nil {
			stage = string(ev.RunStatus.Stage)
			break
		}
	}
	a.metrics.RunFinished(agentID, stage, time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, result)
}

func (a *apiServer) handleControlSession(w http.ResponseWriter, r *http.Request, agentID, sessionID string) {
	var body struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	summary, err := a.orchestrator.ControlSession(r.Context(), agentID, sessionID, models.ControlAction(body.Action))
	if err != nil {
		writeModelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *apiServer) handleSessionHistory(w http.ResponseWriter, r *http.Request, agentID, sessionID string) {
	summary, events, err := a.orchestrator.SessionHistory(r.Context(), agentID, sessionID)
	if err != nil {
		writeModelError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary, "events": events})
}

func (a *apiServer) handleStream(w http.ResponseWriter, r *http.Request, agentID, sessionID string) {
	a.metrics.StreamOpened(agentID)
	defer a.metrics.StreamClosed(agentID)
	stream.ServeHTTP(w, r, a.eventlog, agentID, sessionID)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeModelError(w http.ResponseWriter, err error) {
	kind, ok := models.KindOf(err)
	if !ok {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	switch kind {
	case models.KindAgentNotFound, models.KindSessionNotFound, models.KindLinkNotFound, models.KindProcessNotFound:
		writeError(w, http.StatusNotFound, err)
	case models.KindInvalidAgentID, models.KindInvalidSessionID, models.KindInvalidPayload, models.KindInvalidModel, models.KindInvalidTool:
		writeError(w, http.StatusBadRequest, err)
	case models.KindAlreadyExists:
		writeError(w, http.StatusConflict, err)
	case models.KindToolForbidden, models.KindCommandBlocked, models.KindPathNotAllowed, models.KindCwdNotAllowed:
		writeError(w, http.StatusForbidden, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
