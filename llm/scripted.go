package llm

import (
	"context"
	"io"
)

// ScriptedClient replays a fixed set of chunks or a fixed response. It backs
// offline use and tests; chunk values may take any provider shape.
type ScriptedClient struct {
	// Chunks replayed, in order, by CreateChatStream.
	Chunks []any
	// Response returned by CreateChat.
	Response any
	// Err, when set, is returned by both entry points before any content.
	Err error

	// LastRequest records the request of the most recent call.
	LastRequest *Request
}

type scriptedStream struct {
	chunks []any
	index  int
}

func (s *scriptedStream) Close() {}

func (s *scriptedStream) Recv() (*Event, error) {
	if s.index >= len(s.chunks) {
		return nil, io.EOF
	}
	event := &Event{Value: s.chunks[s.index]}
	s.index++
	return event, nil
}

func (c *ScriptedClient) CreateChatStream(ctx context.Context, request *Request) (Stream, error) {
	c.LastRequest = request
	if c.Err != nil {
		return nil, c.Err
	}
	return &scriptedStream{chunks: c.Chunks}, nil
}

func (c *ScriptedClient) CreateChat(ctx context.Context, request *Request) (any, error) {
	c.LastRequest = request
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Response, nil
}
