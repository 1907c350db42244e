package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vetted/companion/internal/api/v1/middleware"
	"github.com/vetted/companion/internal/infrastructure/anthropic"
	"github.com/vetted/companion/internal/services/chat"
	chatModels "github.com/vetted/companion/internal/services/chat/models"
	"github.com/vetted/companion/pkg/httpext"
	"github.com/vetted/companion/pkg/sse"
)

const maxChatBodyBytes = 1 << 20

var validate = validator.New()

// chatEnvelope defers decoding so a non-string message can be told apart from malformed JSON
type chatEnvelope struct {
	Message             json.RawMessage `json:"message"`
	ConversationHistory json.RawMessage `json:"conversationHistory"`
	SessionID           json.RawMessage `json:"sessionId"`
}

var errInvalidMessage = errors.New("message is not a non-empty string")

// HandleChat relays a conversation to the chat provider and streams the
// reply as server-sent events. Once validation passes the response is
// always 200 and always ends with a single [DONE] event.
func HandleChat(chatService chat.Service, w http.ResponseWriter, r *http.Request) {
	requestID := middleware.RequestIDFromContext(r.Context())

	req, err := decodeChatRequest(r)
	if errors.Is(err, errInvalidMessage) {
		log.Debug().Str("request_id", requestID).Msg("Rejected chat request without message")
		httpext.JsonError(w, "Message is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	events := sse.NewWriter(w)
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("request_id", requestID).Msg("Recovered from chat relay panic")
			writeStreamFailure(events)
		}
	}()

	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Failed to decode chat request")
		writeStreamFailure(events)
		return
	}

	messages := chat.BuildMessages(req.ConversationHistory, req.Message)

	log.Info().
		Str("request_id", requestID).
		Str("session_id", req.SessionID).
		Str("provider", chatService.Provider()).
		Int("history", len(req.ConversationHistory)).
		Int("forwarded", len(messages)).
		Msg("Relaying chat request")

	stream, err := chatService.StreamReply(r.Context(), messages)
	if err != nil {
		logUpstreamError(err, requestID)
		writeStreamFailure(events)
		return
	}
	defer stream.Close()

	for frame := range stream.Frames() {
		switch frame.Kind {
		case chatModels.FrameContentDelta:
			if err := events.WriteJSON(chatModels.TextEvent{Text: frame.Text}); err != nil {
				log.Debug().Err(err).Str("request_id", requestID).Msg("Client went away mid-stream")
				return
			}
		case chatModels.FrameStreamEnd:
			if err := events.WriteDone(); err != nil {
				log.Debug().Err(err).Str("request_id", requestID).Msg("Failed to write stream end")
				return
			}
		}
	}

	if err := stream.Err(); err != nil {
		if r.Context().Err() != nil {
			log.Debug().Str("request_id", requestID).Msg("Client disconnected before stream end")
			return
		}
		log.Error().Err(err).Str("request_id", requestID).Msg("Upstream stream failed")
		writeStreamFailure(events)
		return
	}

	if err := events.WriteDone(); err != nil {
		log.Debug().Err(err).Str("request_id", requestID).Msg("Failed to write stream end")
	}
}

func decodeChatRequest(r *http.Request) (chatModels.ChatRequest, error) {
	var req chatModels.ChatRequest

	body, err := io.ReadAll(io.LimitReader(r.Body, maxChatBodyBytes))
	if err != nil {
		return req, err
	}

	var envelope chatEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return req, errInvalidMessage
		}
		return req, err
	}

	if len(envelope.Message) == 0 || json.Unmarshal(envelope.Message, &req.Message) != nil {
		return req, errInvalidMessage
	}
	if err := validate.Struct(req); err != nil {
		return req, errInvalidMessage
	}

	if len(envelope.ConversationHistory) > 0 {
		if err := json.Unmarshal(envelope.ConversationHistory, &req.ConversationHistory); err != nil {
			return req, err
		}
	}
	if len(envelope.SessionID) > 0 {
		// sessionId is informational only
		_ = json.Unmarshal(envelope.SessionID, &req.SessionID)
	}

	return req, nil
}

// writeStreamFailure reports a failure in-band. Nothing is written once [DONE] went out.
func writeStreamFailure(events *sse.Writer) {
	if events.Done() {
		return
	}
	if err := events.WriteJSON(chatModels.NewErrorEvent()); err != nil {
		log.Debug().Err(err).Msg("Failed to write error event")
		return
	}
	if err := events.WriteDone(); err != nil {
		log.Debug().Err(err).Msg("Failed to write stream end")
	}
}

func logUpstreamError(err error, requestID string) {
	var apiErr *anthropic.APIError
	switch {
	case errors.Is(err, chat.ErrMissingCredential):
		log.Error().Str("request_id", requestID).Msg("Chat provider API key not configured")
	case errors.As(err, &apiErr):
		log.Error().
			Int("status", apiErr.StatusCode).
			Str("body", apiErr.Body).
			Str("request_id", requestID).
			Msg("Chat provider returned an error")
	default:
		log.Error().Err(err).Str("request_id", requestID).Msg("Failed to open chat stream")
	}
}
