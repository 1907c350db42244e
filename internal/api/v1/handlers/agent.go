package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/vetted/companion/internal/api/v1/middleware"
	"github.com/vetted/companion/internal/services/proxy"
	"github.com/vetted/companion/pkg/httpext"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleAgentWebSocket proxies a browser websocket to the hosted voice agent
func HandleAgentWebSocket(agentService *proxy.Service, w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestIDFromContext(r.Context())

	if !agentService.Configured() {
		log.Error().Str("request_id", requestID).Msg("ElevenLabs API key not configured")
		httpext.JsonError(w, "ElevenLabs API key not configured", http.StatusInternalServerError)
		return
	}

	agentConn, err := agentService.Connect(r.Context())
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Failed to reach voice agent")
		httpext.JsonError(w, "Failed to connect to voice agent", http.StatusBadGateway)
		return
	}

	clientConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client
		log.Error().Err(err).Str("request_id", requestID).Msg("Failed to upgrade client connection")
		agentConn.Close()
		return
	}

	if err := agentService.Proxy(clientConn, agentConn, proxy.TranscriptLogger); err != nil {
		log.Debug().Err(err).Str("request_id", requestID).Msg("Voice agent proxy ended with error")
	}
}
