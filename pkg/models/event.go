package models

import (
	"encoding/json"
	"time"
)

// EventType is the closed set of event kinds a session event log carries.
type EventType string

const (
	EventSessionCreated EventType = "sessionCreated"
	EventMessage        EventType = "message"
	EventRunStatus      EventType = "runStatus"
	EventRunControl     EventType = "runControl"
	EventSubSession     EventType = "subSession"
	EventToolCall       EventType = "toolCall"
	EventToolResult     EventType = "toolResult"
)

// RunStage is the value carried by every runStatus event.
type RunStage string

const (
	StageIdle        RunStage = "idle"
	StageThinking    RunStage = "thinking"
	StageSearching   RunStage = "searching"
	StageResponding  RunStage = "responding"
	StagePaused      RunStage = "paused"
	StageInterrupted RunStage = "interrupted"
	StageDone        RunStage = "done"
)

// MessageRole is the author type of a message event.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ControlAction is the action carried by a runControl event.
type ControlAction string

const (
	ControlPause     ControlAction = "pause"
	ControlResume    ControlAction = "resume"
	ControlInterrupt ControlAction = "interrupt"
)

// Event is the unit of durability for a session. Exactly one of the
// type-specific payload fields is populated, matching Type.
type Event struct {
	ID            string                `json:"id"`
	AgentID       string                `json:"agentId"`
	SessionID     string                `json:"sessionId"`
	CreatedAt     time.Time             `json:"createdAt"`
	Type          EventType             `json:"type"`
	SessionCreated *SessionCreatedPayload `json:"sessionCreated,omitempty"`
	Message       *MessagePayload       `json:"message,omitempty"`
	RunStatus     *RunStatusPayload     `json:"runStatus,omitempty"`
	RunControl    *RunControlPayload    `json:"runControl,omitempty"`
	SubSession    *SubSessionPayload    `json:"subSession,omitempty"`
	ToolCall      *ToolCallPayload      `json:"toolCall,omitempty"`
	ToolResult    *ToolResultPayload    `json:"toolResult,omitempty"`
}

// SessionCreatedPayload is the payload of the first event in every
// session file.
type SessionCreatedPayload struct {
	Title           string `json:"title"`
	ParentSessionID string `json:"parentSessionId,omitempty"`
}

// RunStatusPayload tracks orchestrator-driven run progress.
type RunStatusPayload struct {
	Stage        RunStage `json:"stage"`
	Label        string   `json:"label,omitempty"`
	Details      string   `json:"details,omitempty"`
	ExpandedText string   `json:"expandedText,omitempty"`
}

// SegmentType distinguishes text from attachment-reference segments.
type SegmentType string

const (
	SegmentText       SegmentType = "text"
	SegmentAttachment SegmentType = "attachment"
)

// Segment is one piece of a message: either free text or a reference to
// an attachment asset already persisted on disk.
type Segment struct {
	Type       SegmentType   `json:"type"`
	Text       string        `json:"text,omitempty"`
	Attachment *AttachmentRef `json:"attachment,omitempty"`
}

// AttachmentRef points at a persisted attachment asset.
type AttachmentRef struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType,omitempty"`
	SizeBytes    int64  `json:"sizeBytes"`
	RelativePath string `json:"relativePath,omitempty"`
}

// MessagePayload is the payload of a message event.
type MessagePayload struct {
	Role     MessageRole `json:"role"`
	Segments []Segment   `json:"segments"`
	UserID   string      `json:"userId,omitempty"`
}

// Text concatenates the text segments of a message, which is how the
// orchestrator and tools read back plain content.
func (m *MessagePayload) Text() string {
	var out string
	for _, seg := range m.Segments {
		if seg.Type == SegmentText && seg.Text != "" {
			if out != "" {
				out += "\n"
			}
			out += seg.Text
		}
	}
	return out
}

// RunControlPayload is the payload of a runControl event.
type RunControlPayload struct {
	Action ControlAction `json:"action"`
}

// SubSessionPayload records that a child session was spawned from this
// one during a run.
type SubSessionPayload struct {
	ChildSessionID string `json:"childSessionId"`
	Title          string `json:"title"`
}

// ToolCallPayload is appended before a tool is dispatched.
type ToolCallPayload struct {
	CallID    string          `json:"callId"`
	Tool      string          `json:"tool"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Reason    string          `json:"reason,omitempty"`
}

// ToolResultError is the error shape carried on a failed tool result.
type ToolResultError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// ToolResultPayload is appended after a tool call completes.
type ToolResultPayload struct {
	CallID     string           `json:"callId"`
	Tool       string           `json:"tool"`
	OK         bool             `json:"ok"`
	Data       json.RawMessage  `json:"data,omitempty"`
	Error      *ToolResultError `json:"error,omitempty"`
	DurationMs int64            `json:"durationMs"`
}

// Summary is a derived view of a session, recomputed on every load from
// the event log. It is never stored as its own record.
type Summary struct {
	ID                 string    `json:"id"`
	AgentID            string    `json:"agentId"`
	Title              string    `json:"title"`
	ParentSessionID    string    `json:"parentSessionId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
	MessageCount       int       `json:"messageCount"`
	LastMessagePreview string    `json:"lastMessagePreview,omitempty"`
}
