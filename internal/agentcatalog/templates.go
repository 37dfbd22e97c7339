package agentcatalog

import "strings"

const (
	userDocFile     = "User.md"
	agentsDocFile   = "Agents.md"
	soulDocFile     = "Soul.md"
	identityDocFile = "Identity.md"
	identityIDFile  = "Identity.id"
	configFile      = "config.json"
	summaryFile     = "agent.json"
)

func defaultTemplate(file string) string {
	switch file {
	case userDocFile:
		return "# User\n\nNo user profile recorded yet.\n"
	case agentsDocFile:
		return "# Agents\n\nNo collaborating agents recorded yet.\n"
	case soulDocFile:
		return "# Soul\n\nDescribe this agent's personality and operating principles here.\n"
	case identityDocFile:
		return "# Identity\n\nName: \n"
	default:
		return "\n"
	}
}

// normalizeDoc normalizes line endings to \n and ensures a trailing
// newline, matching the store's read-time contract for doc content.
func normalizeDoc(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	if content == "" {
		return content
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content
}
