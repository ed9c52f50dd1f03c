package session

import (
	"fmt"
	"strings"

	"github.com/voxee/voxee/agent"
	"github.com/voxee/voxee/llm"
)

// PrepareTurn assembles the wire payload for one turn: an optional system
// message from the agent, the prior history relabeled to wire roles, and the
// new user turn as a structured part list. It is a pure transform: the given
// history is never mutated and identical inputs yield identical payloads.
//
// Attachments on prior messages are never re-sent; they are represented by a
// placeholder line so the model retains the context that something was
// attached.
func PrepareTurn(history []*Message, userText string, attachments []*Attachment, agnt *agent.Agent) ([]*llm.Message, error) {
	if userText == "" && len(attachments) == 0 {
		return nil, ErrEmptySend
	}

	payload := make([]*llm.Message, 0, len(history)+2)
	if agnt != nil && agnt.SystemPrompt != "" {
		payload = append(payload, &llm.Message{Role: llm.RoleSystem, Content: agnt.SystemPrompt})
	}

	for _, message := range history {
		role := message.Role
		if role == RoleAI {
			role = llm.RoleAssistant
		}
		content := message.Content
		for _, attachment := range message.Attachments {
			if content != "" {
				content += "\n"
			}
			content += fmt.Sprintf("[attachment in history: %s]", attachment.Name)
		}
		payload = append(payload, &llm.Message{Role: role, Content: content})
	}

	parts := make([]*llm.Part, 0, len(attachments)+1)
	if userText != "" {
		parts = append(parts, &llm.Part{Type: llm.PartTypeText, Text: userText})
	}
	for _, attachment := range attachments {
		if strings.HasPrefix(attachment.MediaType, "image/") {
			parts = append(parts, &llm.Part{
				Type:   llm.PartTypeImage,
				Source: &llm.ImageSource{Data: attachment.Data},
			})
			continue
		}
		parts = append(parts, &llm.Part{
			Type: llm.PartTypeText,
			Text: fmt.Sprintf("Attached file: %s\n\n%s", attachment.Name, attachment.Data),
		})
	}
	payload = append(payload, &llm.Message{Role: llm.RoleUser, Parts: parts})
	return payload, nil
}
