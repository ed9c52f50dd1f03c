package session

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Internal role tags. Assistant turns are tagged "ai" in history and
// relabeled to the wire role during payload assembly.
const (
	RoleUser   = "user"
	RoleAI     = "ai"
	RoleSystem = "system"
)

// Greeting seeds a fresh session's history.
const Greeting = "Hello! How can I help you today?"

// Attachment is inline content bound to a user message. Never mutated after
// attachment.
type Attachment struct {
	MediaType string `json:"type"`
	Data      string `json:"data"`
	Name      string `json:"name"`
}

// Message is one turn of conversation history. Immutable once appended,
// except for the in-progress assistant message whose content grows as
// streamed deltas arrive.
type Message struct {
	Role        string        `json:"role"`
	Content     string        `json:"content"`
	Attachments []*Attachment `json:"attachments,omitempty"`
}

// MarshalHistory serializes a history to the persisted transcript format:
// a pretty-printed JSON array of {role, content, attachments?} documents.
func MarshalHistory(history []*Message) ([]byte, error) {
	bytes, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "marshaling history")
	}
	return bytes, nil
}

// UnmarshalHistory parses a persisted transcript.
func UnmarshalHistory(data []byte) ([]*Message, error) {
	var history []*Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.Wrap(err, "unmarshaling history")
	}
	return history, nil
}
