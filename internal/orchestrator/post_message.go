package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nexusforge/agentcore/internal/actor"
	"github.com/nexusforge/agentcore/internal/eventlog"
	"github.com/nexusforge/agentcore/internal/provider"
	"github.com/nexusforge/agentcore/pkg/models"
)

// searchTriggerWords are the content keywords (spec §4.F step 4) that
// additionally emit a runStatus(searching) event before responding.
var searchTriggerWords = []string{
	"search", "find", "google", "lookup", "research",
	"найди", "поиск", "исследуй",
}

// PostMessageRequest is the request shape for PostMessage.
type PostMessageRequest struct {
	UserID          string
	Content         string
	Attachments     []eventlog.Upload
	SpawnSubSession bool
}

// PostMessageResult is what PostMessage returns: the updated summary,
// the events appended during this run, and the provider's route
// decision.
type PostMessageResult struct {
	Summary        models.Summary
	AppendedEvents []models.Event
	Route          provider.RouteDecision
}

// PostMessage implements spec §4.F postMessage. The whole run executes
// inside this session's actor lane, so two postMessage calls for the
// same session never interleave their event appends.
func (o *Orchestrator) PostMessage(ctx context.Context, agentID, sessionID string, req PostMessageRequest) (PostMessageResult, error) {
	return actor.Submit(o.queue, sessionID, ctx, func(ctx context.Context) (PostMessageResult, error) {
		return o.runPostMessage(ctx, agentID, sessionID, req)
	})
}

func (o *Orchestrator) runPostMessage(ctx context.Context, agentID, sessionID string, req PostMessageRequest) (PostMessageResult, error) {
	var appended []models.Event

	_, existing, err := o.eventlog.Load(agentID, sessionID)
	if err != nil {
		return PostMessageResult{}, err
	}
	if err := o.ensureSessionContextLoaded(ctx, agentID, sessionID, existing); err != nil {
		return PostMessageResult{}, err
	}

	content := strings.TrimSpace(req.Content)
	if content == "" && len(req.Attachments) == 0 {
		return PostMessageResult{}, models.New(models.KindInvalidPayload, "content or attachments are required")
	}

	attachmentRefs, err := o.eventlog.PersistAttachments(agentID, sessionID, req.Attachments)
	if err != nil {
		return PostMessageResult{}, err
	}

	segments := make([]models.Segment, 0, len(attachmentRefs)+1)
	if content != "" {
		segments = append(segments, models.Segment{Type: models.SegmentText, Text: content})
	}
	for i := range attachmentRefs {
		segments = append(segments, models.Segment{Type: models.SegmentAttachment, Attachment: &attachmentRefs[i]})
	}

	userEvent := newEvent(agentID, sessionID, models.EventMessage)
	userEvent.Message = &models.MessagePayload{Role: models.RoleUser, Segments: segments, UserID: req.UserID}

	initialBatch := []models.Event{userEvent, runStatusEvent(agentID, sessionID, models.StageThinking, "")}
	if len(req.Attachments) > 0 || containsSearchTrigger(content) {
		initialBatch = append(initialBatch, runStatusEvent(agentID, sessionID, models.StageSearching, ""))
	}
	initialBatch = append(initialBatch, runStatusEvent(agentID, sessionID, models.StageResponding, ""))

	if _, err := o.eventlog.Append(agentID, sessionID, initialBatch); err != nil {
		return PostMessageResult{}, err
	}
	appended = append(appended, initialBatch...)

	o.setInterrupted(sessionID, false)

	placeholder := content
	if placeholder == "" {
		placeholder = "(attachment only)"
	}

	var (
		latestBuffer     string
		lastPersistLen   int
		lastPersistAt    time.Time
		persistedOnce    bool
		toolCallSeq      int
	)

	onChunk := func(partial string) bool {
		// Check interruption before touching latestBuffer: scenario 3
		// (spec §8) requires the final assistant message to be the last
		// buffer value persisted *before* the interrupt arrived, not
		// whatever half-formed chunk the provider emits after it.
		if o.isInterrupted(sessionID) {
			return false
		}
		latestBuffer = strings.ReplaceAll(partial, "\r\n", "\n")

		shouldPersist := !persistedOnce ||
			utf8.RuneCountInString(latestBuffer)-lastPersistLen >= o.cfg.ProgressMinChars ||
			time.Since(lastPersistAt) >= o.cfg.ProgressMinInterval
		if shouldPersist {
			progress := runStatusEvent(agentID, sessionID, models.StageResponding, "")
			progress.RunStatus.ExpandedText = latestBuffer
			if _, err := o.eventlog.Append(agentID, sessionID, []models.Event{progress}); err == nil {
				appended = append(appended, progress)
				lastPersistLen = utf8.RuneCountInString(latestBuffer)
				lastPersistAt = time.Now()
				persistedOnce = true
			}
		}
		return true
	}

	onTool := func(toolReq provider.ToolInvocationRequest) provider.ToolInvocationResult {
		toolCallSeq++
		callID := toolReq.CallID
		if callID == "" {
			callID = fmt.Sprintf("%s-%d", sessionID, toolCallSeq)
		}

		callEvent := newEvent(agentID, sessionID, models.EventToolCall)
		callEvent.ToolCall = &models.ToolCallPayload{CallID: callID, Tool: toolReq.Tool, Arguments: toolReq.Arguments, Reason: toolReq.Reason}
		if _, err := o.eventlog.Append(agentID, sessionID, []models.Event{callEvent}); err == nil {
			appended = append(appended, callEvent)
		}

		result := o.dispatcher.Dispatch(ctx, agentID, sessionID, toolReq.Tool, toolReq.Arguments)

		resultEvent := newEvent(agentID, sessionID, models.EventToolResult)
		resultEvent.ToolResult = &models.ToolResultPayload{
			CallID: callID, Tool: toolReq.Tool, OK: result.OK, Data: result.Data,
			Error: result.Error, DurationMs: result.DurationMs,
		}
		if _, err := o.eventlog.Append(agentID, sessionID, []models.Event{resultEvent}); err == nil {
			appended = append(appended, resultEvent)
		}

		toolResult := provider.ToolInvocationResult{OK: result.OK, Data: result.Data, DurationMs: result.DurationMs}
		if result.Error != nil {
			toolResult.ErrorCode = result.Error.Code
			toolResult.ErrorMsg = result.Error.Message
			toolResult.Retryable = result.Error.Retryable
		}
		return toolResult
	}

	route, providerErr := o.provider.PostMessage(ctx, channelID(agentID, sessionID), provider.Message{UserID: req.UserID, Content: placeholder}, onChunk, onTool)

	assistantText := strings.TrimSpace(latestBuffer)
	if providerErr != nil {
		assistantText = "model provider error: " + providerErr.Error()
	} else if assistantText == "" {
		assistantText = o.lastNonBootstrapSystemMessage(ctx, agentID, sessionID)
	}

	if req.SpawnSubSession {
		childTitle := fmt.Sprintf("Sub-session %s", now().Format("15:04"))
		child, err := o.CreateSession(ctx, agentID, CreateSessionRequest{Title: childTitle, ParentSessionID: sessionID})
		if err == nil {
			subEvent := newEvent(agentID, sessionID, models.EventSubSession)
			subEvent.SubSession = &models.SubSessionPayload{ChildSessionID: child.ID, Title: childTitle}
			if _, err := o.eventlog.Append(agentID, sessionID, []models.Event{subEvent}); err == nil {
				appended = append(appended, subEvent)
			}
		}
	}

	var finalBatch []models.Event
	if assistantText != "" {
		assistantEvent := newEvent(agentID, sessionID, models.EventMessage)
		assistantEvent.Message = &models.MessagePayload{
			Role: models.RoleAssistant, UserID: "agent",
			Segments: []models.Segment{{Type: models.SegmentText, Text: assistantText}},
		}
		finalBatch = append(finalBatch, assistantEvent)
	}

	switch {
	case o.isInterrupted(sessionID) || route.Interrupted:
		finalBatch = append(finalBatch, runStatusEvent(agentID, sessionID, models.StageInterrupted, ""))
	case route.ErrorDetected || errorHeuristicMatches(assistantText):
		errEvent := runStatusEvent(agentID, sessionID, models.StageInterrupted, "Error")
		finalBatch = append(finalBatch, errEvent)
	default:
		finalBatch = append(finalBatch, runStatusEvent(agentID, sessionID, models.StageDone, ""))
	}

	if _, err := o.eventlog.Append(agentID, sessionID, finalBatch); err != nil {
		return PostMessageResult{}, err
	}
	appended = append(appended, finalBatch...)

	summary, _, err := o.eventlog.Load(agentID, sessionID)
	if err != nil {
		return PostMessageResult{}, err
	}
	return PostMessageResult{Summary: summary, AppendedEvents: appended, Route: route}, nil
}

func (o *Orchestrator) lastNonBootstrapSystemMessage(ctx context.Context, agentID, sessionID string) string {
	snapshot, err := o.provider.ChannelState(ctx, channelID(agentID, sessionID))
	if err != nil || snapshot == nil {
		return "Done."
	}
	_, events, err := o.eventlog.Load(agentID, sessionID)
	if err != nil {
		return "Done."
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		if e.Type != models.EventMessage || e.Message == nil || e.Message.Role != models.RoleSystem {
			continue
		}
		text := e.Message.Text()
		if strings.HasPrefix(text, bootstrapMarker) {
			continue
		}
		return text
	}
	return "Done."
}

func channelID(agentID, sessionID string) string {
	return fmt.Sprintf("agent:%s:session:%s", agentID, sessionID)
}

func newEvent(agentID, sessionID string, t models.EventType) models.Event {
	return models.Event{ID: uuid.NewString(), AgentID: agentID, SessionID: sessionID, CreatedAt: now(), Type: t}
}

func runStatusEvent(agentID, sessionID string, stage models.RunStage, label string) models.Event {
	e := newEvent(agentID, sessionID, models.EventRunStatus)
	e.RunStatus = &models.RunStatusPayload{Stage: stage, Label: label}
	return e
}

func containsSearchTrigger(content string) bool {
	lower := strings.ToLower(content)
	for _, word := range searchTriggerWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func errorHeuristicMatches(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "model provider error:") ||
		strings.Contains(lower, "error:") ||
		strings.Contains(lower, " failed") ||
		strings.Contains(lower, "exception")
}
