package eventlog

import "github.com/nexusforge/agentcore/pkg/models"

const previewMaxChars = 120

// deriveSummary recomputes a session's Summary from its ordered event
// slice. The summary is never stored; every load recomputes it fresh.
func deriveSummary(agentID, sessionID string, events []models.Event) models.Summary {
	summary := models.Summary{ID: sessionID, AgentID: agentID}
	if len(events) == 0 {
		return summary
	}
	summary.CreatedAt = events[0].CreatedAt

	var lastMessageAt = events[0].CreatedAt.AddDate(-1000, 0, 0) // far past sentinel
	for _, e := range events {
		if e.CreatedAt.After(summary.UpdatedAt) {
			summary.UpdatedAt = e.CreatedAt
		}
		switch e.Type {
		case models.EventSessionCreated:
			if e.SessionCreated != nil {
				summary.Title = e.SessionCreated.Title
				summary.ParentSessionID = e.SessionCreated.ParentSessionID
			}
		case models.EventMessage:
			summary.MessageCount++
			if e.Message == nil {
				continue
			}
			if text := firstTextSegment(e.Message); text != "" && !e.CreatedAt.Before(lastMessageAt) {
				lastMessageAt = e.CreatedAt
				summary.LastMessagePreview = truncateRunes(text, previewMaxChars)
			}
		}
	}
	return summary
}

func firstTextSegment(msg *models.MessagePayload) string {
	for _, seg := range msg.Segments {
		if seg.Type == models.SegmentText && seg.Text != "" {
			return seg.Text
		}
	}
	return ""
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
