package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	chatModels "github.com/vetted/companion/internal/services/chat/models"
)

type chatRelay struct {
	*httptest.Server
	mu       sync.Mutex
	requests []chatModels.ChatRequest
}

func newChatRelay(t *testing.T, stream string) *chatRelay {
	relay := &chatRelay{}
	relay.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat", r.URL.Path)

		var req chatModels.ChatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		relay.mu.Lock()
		relay.requests = append(relay.requests, req)
		relay.mu.Unlock()

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, stream)
	}))
	t.Cleanup(relay.Close)
	return relay
}

func (r *chatRelay) recorded() []chatModels.ChatRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]chatModels.ChatRequest(nil), r.requests...)
}

func TestTextControllerStreamsReply(t *testing.T) {
	relay := newChatRelay(t, "data: {\"text\":\"You're \"}\n\ndata: {\"text\":\"not alone.\"}\n\ndata: [DONE]\n\n")

	var out bytes.Buffer
	c := NewTextController(relay.Client(), relay.URL+"/", &out)
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	require.NoError(t, c.Send(context.Background(), "I feel lost"))
	assert.Equal(t, "You're not alone.\n", out.String())

	require.NoError(t, c.Send(context.Background(), "  thanks  "))

	requests := relay.recorded()
	require.Len(t, requests, 2)
	first, second := requests[0], requests[1]
	assert.Equal(t, "I feel lost", first.Message)
	assert.Empty(t, first.ConversationHistory)
	assert.NotEmpty(t, first.SessionID)
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Equal(t, "thanks", second.Message)
	assert.Equal(t, []chatModels.ChatTurn{
		{Sender: "user", Text: "I feel lost"},
		{Sender: "assistant", Text: "You're not alone."},
	}, second.ConversationHistory)

	assert.Len(t, c.History(), 4)
}

func TestTextControllerTrimsHistory(t *testing.T) {
	relay := newChatRelay(t, "data: {\"text\":\"ok\"}\n\ndata: [DONE]\n\n")

	c := NewTextController(relay.Client(), relay.URL, io.Discard)
	require.NoError(t, c.Start(context.Background()))

	for i := 0; i < 15; i++ {
		require.NoError(t, c.Send(context.Background(), "message"))
	}

	requests := relay.recorded()
	last := requests[len(requests)-1]
	assert.Len(t, last.ConversationHistory, clientHistory)
	assert.Len(t, c.History(), 30)
}

func TestTextControllerNewSessionOnRestart(t *testing.T) {
	relay := newChatRelay(t, "data: [DONE]\n\n")

	c := NewTextController(relay.Client(), relay.URL, io.Discard)
	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Send(context.Background(), "one"))
	c.Stop()

	require.NoError(t, c.Start(context.Background()))
	require.NoError(t, c.Send(context.Background(), "two"))

	requests := relay.recorded()
	require.Len(t, requests, 2)
	assert.NotEqual(t, requests[0].SessionID, requests[1].SessionID)
	assert.Empty(t, requests[1].ConversationHistory)
}

func TestTextControllerErrorEvent(t *testing.T) {
	relay := newChatRelay(t, "data: {\"text\":\"part\"}\n\ndata: {\"error\":true,\"message\":\"An error occurred. Please try again.\"}\n\ndata: [DONE]\n\n")

	c := NewTextController(relay.Client(), relay.URL, io.Discard)
	require.NoError(t, c.Start(context.Background()))

	err := c.Send(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrReply)
	assert.Empty(t, c.History())
}

func TestTextControllerRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"Message is required"}`)
	}))
	defer server.Close()

	c := NewTextController(server.Client(), server.URL, io.Discard)
	require.NoError(t, c.Start(context.Background()))

	err := c.Send(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Message is required")
}

func TestTextControllerRequiresStart(t *testing.T) {
	c := NewTextController(http.DefaultClient, "http://127.0.0.1:1", io.Discard)
	assert.ErrorIs(t, c.Send(context.Background(), "hi"), errNotStarted)
}

func TestTextControllerStopCancelsRequest(t *testing.T) {
	entered := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"text\":\"thinking\"}\n\n")
		w.(http.Flusher).Flush()
		close(entered)
		<-r.Context().Done()
	}))
	defer server.Close()

	c := NewTextController(server.Client(), server.URL, io.Discard)
	require.NoError(t, c.Start(context.Background()))

	result := make(chan error, 1)
	go func() { result <- c.Send(context.Background(), "hi") }()

	<-entered
	c.Stop()

	select {
	case err := <-result:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Send did not return after Stop")
	}
}

func TestVoiceControllerSavesAudio(t *testing.T) {
	audio := []byte{0x49, 0x44, 0x33, 0x04}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voice", r.URL.Path)

		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello", body["text"])

		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(audio)
	}))
	defer server.Close()

	dir := filepath.Join(t.TempDir(), "clips")
	var out bytes.Buffer
	c := NewVoiceController(server.Client(), server.URL, dir, &out)
	assert.Equal(t, ModeVoice, c.Mode())
	require.NoError(t, c.Start(context.Background()))
	defer c.Stop()

	require.NoError(t, c.Send(context.Background(), "hello"))

	saved, err := os.ReadFile(filepath.Join(dir, "reply-001.mp3"))
	require.NoError(t, err)
	assert.Equal(t, audio, saved)
	assert.Contains(t, out.String(), "reply-001.mp3")
}

func TestVoiceControllerRelayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"ElevenLabs API key not configured"}`)
	}))
	defer server.Close()

	c := NewVoiceController(server.Client(), server.URL, t.TempDir(), io.Discard)
	require.NoError(t, c.Start(context.Background()))

	err := c.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ElevenLabs API key not configured")
}
