package llm

import (
	"context"

	"github.com/pkg/errors"
)

// Wire-level role names expected by the providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Part types for structured user content.
const (
	PartTypeText  = "text"
	PartTypeImage = "image"
)

// ImageSource carries inline image bytes as a data URI.
type ImageSource struct {
	Data string `json:"data"`
}

// Part is one element of a structured user message.
type Part struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

// Message is one turn of a chat payload. Parts is set only on structured
// user turns; all other turns carry plain text Content.
type Message struct {
	Role    string  `json:"role"`
	Content string  `json:"content"`
	Parts   []*Part `json:"parts,omitempty"`
}

// Request for a chat generation.
type Request struct {
	Model       string
	Messages    []*Message
	MaxTokens   int
	Temperature float32
	StopWords   []string
}

// Event is one increment of a streamed response. Value holds the chunk in
// whatever shape the provider produced; callers normalize it.
type Event struct {
	Value        any
	FinishReason string
}

// Stream of response events. Recv returns io.EOF when the stream is done.
type Stream interface {
	Recv() (*Event, error)
	Close()
}

// Client is a chat backend.
type Client interface {
	// CreateChatStream initiates a streamed chat generation.
	CreateChatStream(ctx context.Context, request *Request) (Stream, error)
	// CreateChat performs a non-streaming chat generation and returns the
	// raw provider response value.
	CreateChat(ctx context.Context, request *Request) (any, error)
}

// NewClient instantiates a client for the given provider name.
func NewClient(provider, apiKey, apiHost string) (Client, error) {
	switch provider {
	case "Anthropic":
		if apiKey == "" {
			return nil, errors.New("no anthropic api key configured")
		}
		return NewAnthropicClient(apiKey), nil
	default:
		// OpenAI and openai-compatible hosts.
		if apiKey == "" {
			return nil, errors.New("no openai api key configured")
		}
		return NewOpenAIClient(apiKey, apiHost), nil
	}
}
