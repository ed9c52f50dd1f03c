package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxee/voxee/llm"
)

// memoryStore records transcript writes.
type memoryStore struct {
	writes  map[string][]byte
	keys    []string
	failing bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{writes: map[string][]byte{}}
}

func (s *memoryStore) Write(key string, data []byte) error {
	if s.failing {
		return errors.New("store unavailable")
	}
	s.writes[key] = data
	s.keys = append(s.keys, key)
	return nil
}

func TestSendEmptyInputIsNoOp(t *testing.T) {
	sess := New(testAgent("sys"), WithGreeting())
	client := &llm.ScriptedClient{Chunks: []any{"unused"}}

	_, err := sess.Send(context.Background(), client, "", nil, nil)
	require.ErrorIs(t, err, ErrEmptySend)
	assert.Len(t, sess.History, 1)
	assert.False(t, sess.Active())
}

func TestSendSingleResponse(t *testing.T) {
	sess := New(testAgent(""), WithoutStreaming())
	client := &llm.ScriptedClient{
		Response: map[string]any{"message": map[string]any{"content": "Hi there"}},
	}

	assistant, err := sess.Send(context.Background(), client, "Hello", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", assistant.Content)
	require.Len(t, sess.History, 2)
	assert.Equal(t, RoleUser, sess.History[0].Role)
	assert.Equal(t, "Hello", sess.History[0].Content)
	assert.Equal(t, RoleAI, sess.History[1].Role)
}

func TestSendStreamedChunksGrowInOrder(t *testing.T) {
	sess := New(testAgent(""))
	client := &llm.ScriptedClient{Chunks: []any{"Hi", " there", "!"}}

	var snapshots []string
	assistant, err := sess.Send(context.Background(), client, "Hello", nil, func(delta string) {
		snapshots = append(snapshots, sess.History[len(sess.History)-1].Content)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hi", "Hi there", "Hi there!"}, snapshots)
	assert.Equal(t, "Hi there!", assistant.Content)
}

func TestSendMixedShapeChunks(t *testing.T) {
	sess := New(testAgent(""))
	client := &llm.ScriptedClient{Chunks: []any{
		"Hi",
		map[string]any{"message": map[string]any{"content": " there"}},
		42, // malformed chunk: skipped, never aborts the stream
		[]any{map[string]any{"text": "!"}},
	}}

	assistant, err := sess.Send(context.Background(), client, "Hello", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi there!", assistant.Content)
}

func TestSendBackendError(t *testing.T) {
	sess := New(testAgent(""))
	client := &llm.ScriptedClient{Err: errors.New("connection refused")}

	assistant, err := sess.Send(context.Background(), client, "Hello", nil, nil)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(assistant.Content, ErrorPrefix))
	assert.Contains(t, assistant.Content, "connection refused")
	// The turn is terminated: no pending state left behind.
	assert.False(t, sess.Active())
	assert.NotEqual(t, StatusThinking, sess.Status())
	// The failed attempt stays in history as an audit trail.
	require.Len(t, sess.History, 2)
	assert.Equal(t, assistant, sess.History[1])
}

func TestSendUnrecognizedResponseShape(t *testing.T) {
	sess := New(testAgent(""), WithoutStreaming())
	client := &llm.ScriptedClient{Response: 42}

	assistant, err := sess.Send(context.Background(), client, "Hello", nil, nil)
	require.Error(t, err)
	var shapeErr *ShapeError
	require.ErrorAs(t, err, &shapeErr)
	assert.Equal(t, 42, shapeErr.Raw)
	assert.True(t, strings.HasPrefix(assistant.Content, ErrorPrefix))
}

func TestSendEmptyResponseFallback(t *testing.T) {
	sess := New(testAgent(""))
	client := &llm.ScriptedClient{Chunks: []any{"  \n"}}

	assistant, err := sess.Send(context.Background(), client, "Hello", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, NoResponseFallback, assistant.Content)
}

func TestSendWhileTurnActive(t *testing.T) {
	sess := New(testAgent(""))
	sess.active = true
	_, err := sess.Send(context.Background(), &llm.ScriptedClient{}, "Hello", nil, nil)
	require.ErrorIs(t, err, ErrTurnActive)
}

func TestSendCancellationAbandonsStream(t *testing.T) {
	sess := New(testAgent(""))
	store := newMemoryStore()
	sess.store = store
	client := &llm.ScriptedClient{Chunks: []any{"Hi", " there"}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assistant, err := sess.Send(ctx, client, "Hello", nil, nil)
	require.ErrorIs(t, err, context.Canceled)
	// No deltas were applied, nothing was rolled back, nothing was saved.
	assert.Empty(t, assistant.Content)
	require.Len(t, sess.History, 2)
	assert.Empty(t, store.writes)
	assert.False(t, sess.Active())
}

func TestSendPersistsAfterEveryTurn(t *testing.T) {
	store := newMemoryStore()
	sess := New(testAgent(""), WithStore(store), WithGreeting())
	sess.now = func() time.Time { return time.UnixMilli(1700000000000) }
	client := &llm.ScriptedClient{Chunks: []any{"Hi there"}}

	_, err := sess.Send(context.Background(), client, "Hello", nil, nil)
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	assert.Equal(t, "Chat_1700000000000.json", store.keys[0])
	assert.Equal(t, store.keys[0], sess.Key())

	// The second save reuses the first key: no duplicate keys are minted
	// for one logical session.
	_, err = sess.Send(context.Background(), client, "Again", nil, nil)
	require.NoError(t, err)
	require.Len(t, store.keys, 2)
	assert.Equal(t, store.keys[0], store.keys[1])
	assert.Len(t, store.writes, 1)
}

func TestSendWithoutStoreSkipsPersistence(t *testing.T) {
	sess := New(testAgent(""))
	client := &llm.ScriptedClient{Chunks: []any{"Hi"}}

	_, err := sess.Send(context.Background(), client, "Hello", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, sess.Key())
	assert.Equal(t, StatusReady, sess.Status())
}

func TestSendPersistenceFailureKeepsHistory(t *testing.T) {
	store := newMemoryStore()
	store.failing = true
	sess := New(testAgent(""), WithStore(store))
	client := &llm.ScriptedClient{Chunks: []any{"Hi there"}}

	assistant, err := sess.Send(context.Background(), client, "Hello", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Hi there", assistant.Content)
	assert.Equal(t, StatusSaveFailed, sess.Status())
	require.Len(t, sess.History, 2)
}

func TestSendPersistedDocumentRoundTrips(t *testing.T) {
	store := newMemoryStore()
	sess := New(testAgent(""), WithStore(store), WithGreeting())
	client := &llm.ScriptedClient{Chunks: []any{"Hi there"}}
	attachments := []*Attachment{{MediaType: "image/png", Data: "data:image/png;base64,xyz", Name: "pic.png"}}

	_, err := sess.Send(context.Background(), client, "Hello", attachments, nil)
	require.NoError(t, err)

	data := store.writes[sess.Key()]
	require.NotEmpty(t, data)
	history, err := UnmarshalHistory(data)
	require.NoError(t, err)
	require.Len(t, history, 3)
	for i, message := range sess.History {
		assert.Equal(t, message.Role, history[i].Role)
		assert.Equal(t, message.Content, history[i].Content)
		assert.Equal(t, message.Attachments, history[i].Attachments)
	}
}

func TestSendRequestCarriesModelAndLimits(t *testing.T) {
	sess := New(testAgent("sys"), WithMaxTokens(512))
	client := &llm.ScriptedClient{Chunks: []any{"ok"}}

	_, err := sess.Send(context.Background(), client, "Hello", nil, nil)
	require.NoError(t, err)
	require.NotNil(t, client.LastRequest)
	assert.Equal(t, "gpt-4o-mini", client.LastRequest.Model)
	assert.Equal(t, 512, client.LastRequest.MaxTokens)
	assert.Equal(t, llm.RoleSystem, client.LastRequest.Messages[0].Role)
}

func TestSendAttachmentOnlyUsesPlaceholderContent(t *testing.T) {
	sess := New(testAgent(""))
	client := &llm.ScriptedClient{Chunks: []any{"ok"}}
	attachments := []*Attachment{{MediaType: "text/plain", Data: "d", Name: "n.txt"}}

	_, err := sess.Send(context.Background(), client, "", attachments, nil)
	require.NoError(t, err)
	assert.Equal(t, "File(s) attached", sess.History[0].Content)
	assert.Equal(t, attachments, sess.History[0].Attachments)
}
