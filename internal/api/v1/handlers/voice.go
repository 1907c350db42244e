package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/vetted/companion/internal/api/v1/middleware"
	"github.com/vetted/companion/internal/infrastructure/elevenlabs"
	"github.com/vetted/companion/internal/services/voice"
	"github.com/vetted/companion/pkg/httpext"
)

const maxVoiceBodyBytes = 64 * 1024

type voiceRequest struct {
	Text string `json:"text" validate:"required"`
}

// HandleVoice synthesizes speech for the posted text
func HandleVoice(voiceService *voice.Service, w http.ResponseWriter, r *http.Request) {
	result := Synthesize(voiceService, r)
	if err := result.Write(w); err != nil {
		log.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("Failed to write voice response")
	}
}

// Synthesize produces the function result for a voice request. Audio
// results carry the MPEG payload base64-encoded.
func Synthesize(voiceService *voice.Service, r *http.Request) httpext.Result {
	requestID := middleware.RequestIDFromContext(r.Context())

	body, err := io.ReadAll(io.LimitReader(r.Body, maxVoiceBodyBytes))
	if err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Failed to read voice request")
		return httpext.ErrorResult(http.StatusInternalServerError, "Internal server error")
	}

	var req voiceRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Error().Err(err).Str("request_id", requestID).Msg("Failed to decode voice request")
		return httpext.ErrorResult(http.StatusInternalServerError, "Internal server error")
	}

	if err := validate.Struct(req); err != nil {
		return httpext.ErrorResult(http.StatusBadRequest, "Text is required")
	}

	audio, err := voiceService.Synthesize(r.Context(), req.Text)
	if err != nil {
		var apiErr *elevenlabs.APIError
		switch {
		case errors.Is(err, voice.ErrMissingCredential):
			log.Error().Str("request_id", requestID).Msg("ElevenLabs API key not configured")
			return httpext.ErrorResult(http.StatusInternalServerError, "ElevenLabs API key not configured")
		case errors.As(err, &apiErr):
			log.Error().
				Int("status", apiErr.StatusCode).
				Str("body", apiErr.Body).
				Str("request_id", requestID).
				Msg("ElevenLabs returned an error")
			return httpext.ErrorResult(apiErr.StatusCode, "Failed to generate speech")
		default:
			log.Error().Err(err).Str("request_id", requestID).Msg("Voice synthesis failed")
			return httpext.ErrorResult(http.StatusInternalServerError, "Internal server error")
		}
	}

	log.Info().
		Int("text_length", len(req.Text)).
		Int("audio_bytes", len(audio)).
		Str("request_id", requestID).
		Msg("Synthesized speech")

	return httpext.Base64Result(http.StatusOK, "audio/mpeg", audio)
}
