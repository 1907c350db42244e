package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMessageStream(t *testing.T) {
	var captured MessagesRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, APIVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	}))
	defer server.Close()

	s := NewService("test-key", server.URL+"/")
	body, err := s.CreateMessageStream(context.Background(), MessagesRequest{
		Model:     "claude-test",
		MaxTokens: 512,
		System:    "be kind",
		Messages:  []Message{{Role: "user", Content: "hi"}},
	})
	require.NoError(t, err)
	defer body.Close()

	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "message_stop")

	assert.True(t, captured.Stream)
	assert.Equal(t, 512, captured.MaxTokens)
	assert.Equal(t, "be kind", captured.System)
	assert.Equal(t, []Message{{Role: "user", Content: "hi"}}, captured.Messages)
}

func TestCreateMessageStreamAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"type":"error","error":{"type":"rate_limit_error"}}`)
	}))
	defer server.Close()

	s := NewService("test-key", server.URL)
	_, err := s.CreateMessageStream(context.Background(), MessagesRequest{Model: "m"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "rate_limit_error")
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewService("", "http://localhost").Configured())
	assert.True(t, NewService("k", "http://localhost").Configured())
}
