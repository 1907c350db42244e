package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	v1mware "github.com/vetted/companion/internal/api/v1/middleware"
	"github.com/vetted/companion/internal/services"
)

// RegisterRoutes mounts every relay on router
func RegisterRoutes(router *mux.Router, services *services.Services) {
	router.Use(v1mware.RequestID, v1mware.RequestLogger)

	// Chat relay owns its method handling so CORS headers reach every response
	router.Handle("/chat", chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleChat(services.GetChatService(), w, r)
	}),
		v1mware.CORS("POST, OPTIONS"),
		v1mware.RequirePost("Method not allowed"),
		v1mware.Recover("An error occurred. Please try again."),
	))

	router.Handle("/voice", chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		HandleVoice(services.GetVoiceService(), w, r)
	}),
		v1mware.RequirePost("Method Not Allowed"),
		v1mware.Recover("Internal server error"),
	))

	router.HandleFunc("/voice/agent", func(w http.ResponseWriter, r *http.Request) {
		HandleAgentWebSocket(services.GetAgentService(), w, r)
	}).Methods(http.MethodGet)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		HandleHealth(services, w, r)
	}).Methods(http.MethodGet)
}

// chain applies middleware so the first one listed runs first
func chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
