package agent

import (
	"strings"

	"bella-chat/backend/internal/constants"
	"bella-chat/backend/internal/state"
)

// BuildPrompt flattens the transcript into the single prompt string the hosted
// model expects: the preamble, every message as "User: ..." or
// "Assistant: ..." followed by a blank line, then the latest input and the
// assistant cue.
//
// The latest input is usually already the last transcript entry, so it
// appears twice.
func BuildPrompt(messages []state.Message, input string) string {
	var sb strings.Builder
	sb.WriteString(constants.SystemPreamble)
	for _, m := range messages {
		if m.Role == state.RoleUser {
			sb.WriteString("User: ")
		} else {
			sb.WriteString("Assistant: ")
		}
		sb.WriteString(m.Content)
		sb.WriteString("\n\n")
	}
	sb.WriteString(" ")
	sb.WriteString(input)
	sb.WriteString(" Assistant: ")
	return sb.String()
}
