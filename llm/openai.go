package llm

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

// OpenAIClient for openai and openai-compatible hosts.
type OpenAIClient struct {
	client *openai.Client
}

func NewOpenAIClient(apiKey, apiHost string) *OpenAIClient {
	openAIConfig := openai.DefaultConfig(apiKey)
	if apiHost != "" {
		openAIConfig.BaseURL = apiHost
	}
	client := openai.NewClientWithConfig(openAIConfig)
	return &OpenAIClient{client: client}
}

type chatCompletionStreamWrapper struct {
	stream *openai.ChatCompletionStream
}

func (s *chatCompletionStreamWrapper) Close() { s.stream.Close() }
func (s *chatCompletionStreamWrapper) Recv() (*Event, error) {
	response, err := s.stream.Recv()
	if err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, errors.Errorf("ChatCompletionResponse returned no choice: %+v", response)
	}
	return &Event{
		Value:        response.Choices[0].Delta.Content,
		FinishReason: string(response.Choices[0].FinishReason),
	}, nil
}

func (c *OpenAIClient) CreateChatStream(ctx context.Context, request *Request) (Stream, error) {
	openAIRequest := c.buildRequest(request)
	openAIRequest.Stream = true
	stream, err := c.client.CreateChatCompletionStream(ctx, openAIRequest)
	if err != nil {
		return nil, errors.Wrap(err, "creating chat completion stream")
	}
	return &chatCompletionStreamWrapper{stream}, nil
}

func (c *OpenAIClient) CreateChat(ctx context.Context, request *Request) (any, error) {
	response, err := c.client.CreateChatCompletion(ctx, c.buildRequest(request))
	if err != nil {
		return nil, errors.Wrap(err, "creating chat completion")
	}
	if len(response.Choices) == 0 {
		return nil, errors.Errorf("ChatCompletionResponse returned no choice: %+v", response)
	}
	return response.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) buildRequest(request *Request) openai.ChatCompletionRequest {
	messages := make([]openai.ChatCompletionMessage, 0, len(request.Messages))
	for _, message := range request.Messages {
		if len(message.Parts) == 0 {
			messages = append(messages, openai.ChatCompletionMessage{Role: message.Role, Content: message.Content})
			continue
		}
		parts := make([]openai.ChatMessagePart, 0, len(message.Parts))
		for _, part := range message.Parts {
			switch part.Type {
			case PartTypeImage:
				parts = append(parts, openai.ChatMessagePart{
					Type:     openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{URL: part.Source.Data},
				})
			default:
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeText,
					Text: part.Text,
				})
			}
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: message.Role, MultiContent: parts})
	}
	return openai.ChatCompletionRequest{
		Model:       request.Model,
		Messages:    messages,
		MaxTokens:   request.MaxTokens,
		Temperature: request.Temperature,
		Stop:        request.StopWords,
	}
}
