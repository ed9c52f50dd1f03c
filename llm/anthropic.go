package llm

import (
	"context"
	"io"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

// AnthropicClient wraps the go-anthropic client.
type AnthropicClient struct {
	client *anthropic.Client
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(apiKey)
	return &AnthropicClient{client: client}
}

// anthropicStreamWrapper bridges the callback-based anthropic stream into
// the Stream interface through token/error channels.
type anthropicStreamWrapper struct {
	tokens chan string
	err    chan error
}

func (s *anthropicStreamWrapper) Close() {}

func (s *anthropicStreamWrapper) Recv() (*Event, error) {
	select {
	case token := <-s.tokens:
		return &Event{Value: token}, nil
	case err := <-s.err:
		if err == nil {
			return nil, io.EOF
		}
		return nil, err
	}
}

func (c *AnthropicClient) CreateChatStream(ctx context.Context, request *Request) (Stream, error) {
	sw := &anthropicStreamWrapper{
		tokens: make(chan string, 100),
		err:    make(chan error, 1),
	}
	anthropicRequest := anthropic.MessagesStreamRequest{
		MessagesRequest: c.buildRequest(request),
		OnContentBlockDelta: func(data anthropic.MessagesEventContentBlockDeltaData) {
			if data.Delta.Text != nil {
				sw.tokens <- *data.Delta.Text
			}
		},
	}
	go func() {
		_, err := c.client.CreateMessagesStream(ctx, anthropicRequest)
		sw.err <- err
	}()
	return sw, nil
}

func (c *AnthropicClient) CreateChat(ctx context.Context, request *Request) (any, error) {
	response, err := c.client.CreateMessages(ctx, c.buildRequest(request))
	if err != nil {
		return nil, err
	}
	// Surface the response as the provider-native part list.
	parts := make([]any, 0, len(response.Content))
	for _, content := range response.Content {
		if content.Text != nil {
			parts = append(parts, map[string]any{"type": "text", "text": *content.Text})
		}
	}
	return parts, nil
}

// buildRequest maps the request to the anthropic form. System turns move to
// the request's System field; structured user content is flattened to text,
// as inline image blocks are not carried to this provider.
func (c *AnthropicClient) buildRequest(request *Request) anthropic.MessagesRequest {
	var system string
	messages := make([]anthropic.Message, 0, len(request.Messages))
	for _, message := range request.Messages {
		content := message.Content
		if len(message.Parts) > 0 {
			texts := make([]string, 0, len(message.Parts))
			for _, part := range message.Parts {
				if part.Type == PartTypeText {
					texts = append(texts, part.Text)
				}
			}
			content = strings.Join(texts, "\n\n")
		}
		switch message.Role {
		case RoleSystem:
			if system != "" {
				system += "\n\n"
			}
			system += content
		case RoleAssistant:
			messages = append(messages, anthropic.NewAssistantTextMessage(content))
		default:
			messages = append(messages, anthropic.NewUserTextMessage(content))
		}
	}
	return anthropic.MessagesRequest{
		Model:         anthropic.Model(request.Model),
		System:        system,
		Messages:      messages,
		MaxTokens:     request.MaxTokens,
		StopSequences: request.StopWords,
	}
}
