package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"github.com/vetted/companion/internal/connections"
	"github.com/vetted/companion/internal/infrastructure/anthropic"
	"github.com/vetted/companion/internal/infrastructure/elevenlabs"
	"github.com/vetted/companion/internal/services"
	"github.com/vetted/companion/internal/services/chat"
	"github.com/vetted/companion/internal/services/proxy"
	"github.com/vetted/companion/internal/services/voice"
)

type testUpstreams struct {
	chatURL   string
	chatKey   string
	voiceURL  string
	agentURL  string
	voiceKey  string
	chatSvc   chat.Service
}

// newTestRouter wires the real services against fake upstream servers
func newTestRouter(t *testing.T, u testUpstreams) (*mux.Router, *services.Services) {
	t.Helper()

	chatService := u.chatSvc
	if chatService == nil {
		provider := chat.NewAnthropicProvider(anthropic.NewService(u.chatKey, u.chatURL), "claude-test")
		impl, err := chat.NewService(provider, chat.DefaultSystemPrompt, 512)
		require.NoError(t, err)
		chatService = impl
	}

	elevenLabs := elevenlabs.NewService(u.voiceKey, u.voiceURL, u.agentURL, 5*time.Second)
	voiceService := voice.NewService(elevenLabs, nil, "voice-test", "model-test")
	agentService := proxy.NewAgentService(elevenLabs, "agent-test", connections.NewManager(connections.DefaultTimeouts))

	container := services.New(chatService, voiceService, agentService)

	router := mux.NewRouter()
	RegisterRoutes(router, container)
	return router, container
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// sseData returns the payload of every data record in body
func sseData(body string) []string {
	var payloads []string
	for _, record := range strings.Split(body, "\n\n") {
		if strings.HasPrefix(record, "data: ") {
			payloads = append(payloads, strings.TrimPrefix(record, "data: "))
		}
	}
	return payloads
}
