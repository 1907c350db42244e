package handlers

import (
	"net/http"

	"github.com/vetted/companion/internal/services"
	"github.com/vetted/companion/pkg/httpext"
)

type HealthResponse struct {
	Status           string `json:"status"`
	ChatProvider     string `json:"chat_provider"`
	ChatConfigured   bool   `json:"chat_configured"`
	VoiceConfigured  bool   `json:"voice_configured"`
	AudioCache       bool   `json:"audio_cache"`
	AgentConnections int    `json:"agent_connections"`
}

func HandleHealth(s *services.Services, w http.ResponseWriter, r *http.Request) {
	httpext.JsonResponse(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		ChatProvider:     s.GetChatService().Provider(),
		ChatConfigured:   s.GetChatService().Configured(),
		VoiceConfigured:  s.GetVoiceService().Configured(),
		AudioCache:       s.GetVoiceService().Cached(),
		AgentConnections: s.GetAgentService().ActiveConnections(),
	})
}
