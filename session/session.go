package session

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/voxee/voxee/agent"
	"github.com/voxee/voxee/llm"
)

// Store persists serialized transcripts. A nil store disables persistence;
// the session keeps working locally.
type Store interface {
	Write(key string, data []byte) error
}

// Status is the session's user-facing persistence/turn indicator.
type Status string

const (
	StatusReady      Status = "Ready"
	StatusThinking   Status = "Thinking..."
	StatusSyncing    Status = "Syncing..."
	StatusSaveFailed Status = "Error saving"
)

// Session owns one conversation: its history, the single in-flight turn, and
// the transcript store key allocated on first save.
type Session struct {
	ID      string
	Agent   *agent.Agent
	History []*Message

	MaxTokens   int
	Temperature float32
	Streaming   bool

	store  Store
	key    string
	active bool
	status Status
	now    func() time.Time
}

// Option configures a session.
type Option func(*Session)

// WithStore attaches a transcript store; every completed turn is saved.
func WithStore(store Store) Option {
	return func(s *Session) { s.store = store }
}

// WithGreeting seeds the history with the assistant greeting.
func WithGreeting() Option {
	return func(s *Session) {
		s.History = append(s.History, &Message{Role: RoleAI, Content: Greeting})
	}
}

// WithHistory resumes a previously persisted transcript under its key.
func WithHistory(history []*Message, key string) Option {
	return func(s *Session) {
		s.History = history
		s.key = key
	}
}

// WithMaxTokens caps the response length requested from the backend.
func WithMaxTokens(maxTokens int) Option {
	return func(s *Session) { s.MaxTokens = maxTokens }
}

// WithoutStreaming switches the session to single-response requests.
func WithoutStreaming() Option {
	return func(s *Session) { s.Streaming = false }
}

// New instantiates a session routed to the given agent.
func New(agnt *agent.Agent, opts ...Option) *Session {
	s := &Session{
		ID:        uuid.New().String()[:8],
		Agent:     agnt,
		MaxTokens: 8192,
		Streaming: true,
		status:    StatusReady,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Status returns the current status indicator.
func (s *Session) Status() Status { return s.status }

// Key returns the allocated transcript store key, if any.
func (s *Session) Key() string { return s.key }

// Active reports whether a turn is in flight.
func (s *Session) Active() bool { return s.active }

// Send runs one complete turn: payload assembly, streamed (or single
// response) consumption, finalization, and a best-effort transcript save.
// Deltas are applied to the in-progress assistant message strictly in
// arrival order; onDelta observes each one as it lands.
//
// An empty send returns ErrEmptySend with the history untouched. A backend
// failure terminates the turn with the formatted error as the assistant
// message content and is also returned. Context cancellation abandons the
// rest of the stream without rollback; whatever was appended remains.
func (s *Session) Send(ctx context.Context, client llm.Client, userText string, attachments []*Attachment, onDelta func(delta string)) (*Message, error) {
	if s.active {
		return nil, ErrTurnActive
	}
	payload, err := PrepareTurn(s.History, userText, attachments, s.Agent)
	if err != nil {
		return nil, err
	}
	s.active = true
	defer func() { s.active = false }()
	s.status = StatusThinking

	content := userText
	if content == "" {
		content = "File(s) attached"
	}
	s.History = append(s.History, &Message{Role: RoleUser, Content: content, Attachments: attachments})

	assistant := &Message{Role: RoleAI}
	s.History = append(s.History, assistant)

	request := &llm.Request{
		Model:       s.Agent.Model,
		Messages:    payload,
		MaxTokens:   s.MaxTokens,
		Temperature: s.Temperature,
	}
	apply := func(delta string) {
		assistant.Content += delta
		if onDelta != nil {
			onDelta(delta)
		}
	}

	turnErr := s.runTurn(ctx, client, request, apply)
	if errors.Is(turnErr, context.Canceled) || errors.Is(turnErr, context.DeadlineExceeded) {
		// Abandoned turn: keep whatever was appended, skip the save.
		s.status = StatusReady
		return assistant, turnErr
	}
	if turnErr != nil {
		assistant.Content = FormatTurnError(turnErr)
	} else {
		assistant.Content = finalContent(assistant.Content)
	}
	s.saveTranscript()
	return assistant, turnErr
}

// runTurn drives one request against the backend and applies normalized
// deltas as they arrive.
func (s *Session) runTurn(ctx context.Context, client llm.Client, request *llm.Request, apply func(string)) error {
	if !s.Streaming {
		value, err := client.CreateChat(ctx, request)
		if err != nil {
			return err
		}
		text, err := Normalize(value)
		if err != nil {
			return err
		}
		apply(text)
		return nil
	}

	stream, err := client.CreateChatStream(ctx, request)
	if err != nil {
		return err
	}
	defer stream.Close()
	return consumeStream(ctx, stream, apply)
}

// consumeStream applies each normalized chunk in arrival order. A chunk that
// matches no known shape is skipped; it never aborts an otherwise healthy
// stream.
func consumeStream(ctx context.Context, stream llm.Stream, apply func(string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		event, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		text, err := Normalize(event.Value)
		if err != nil {
			continue
		}
		apply(text)
	}
}

// finalContent fixes the accumulated text: trimmed, with a fallback when the
// backend produced nothing.
func finalContent(accumulated string) string {
	trimmed := strings.TrimSpace(accumulated)
	if trimmed == "" {
		return NoResponseFallback
	}
	return trimmed
}

// Save persists the current history, minting the store key on first use.
// Failures are surfaced through the status indicator and the returned error;
// the in-memory history is never touched.
func (s *Session) Save() error {
	if s.store == nil {
		s.status = StatusReady
		return nil
	}
	// Nothing but the greeting: nothing worth persisting.
	if len(s.History) <= 1 {
		s.status = StatusReady
		return nil
	}
	if s.key == "" {
		s.key = fmt.Sprintf("Chat_%d.json", s.now().UnixMilli())
	}
	s.status = StatusSyncing
	data, err := MarshalHistory(s.History)
	if err == nil {
		err = s.store.Write(s.key, data)
	}
	if err != nil {
		s.status = StatusSaveFailed
		return errors.Wrap(err, "saving transcript")
	}
	s.status = StatusReady
	return nil
}

// saveTranscript is the best-effort per-turn save.
func (s *Session) saveTranscript() {
	// Save already routes failures into the status indicator.
	_ = s.Save()
}
