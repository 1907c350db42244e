package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	textToSpeechPath = "/v1/text-to-speech/"
	conversationPath = "/v1/convai/conversation"
)

// VoiceSettings tunes a synthesis call
type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// SpeechRequest is the body of a text-to-speech call
type SpeechRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// APIError is returned when ElevenLabs answers with a non-success status
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("elevenlabs API error: %d", e.StatusCode)
}

type Service struct {
	mu        sync.RWMutex
	Client    *http.Client
	Dialer    *websocket.Dialer
	RestURL   string
	SocketURL string
	apiKey    string
}

func NewService(apiKey, restURL, socketURL string, timeout time.Duration) *Service {
	if apiKey == "" {
		log.Warn().Msg("ElevenLabs API key not configured - voice relay will be unavailable")
	}

	s := &Service{
		Client: &http.Client{Timeout: timeout},
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		RestURL:   strings.TrimSuffix(restURL, "/"),
		SocketURL: strings.TrimSuffix(socketURL, "/"),
		apiKey:    apiKey,
	}

	log.Info().
		Str("rest_url", s.RestURL).
		Str("socket_url", s.SocketURL).
		Bool("configured", apiKey != "").
		Msg("ElevenLabs service initialized")

	return s
}

// Configured reports whether a credential is available
func (s *Service) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey != ""
}

func (s *Service) headers() http.Header {
	s.mu.RLock()
	defer s.mu.RUnlock()

	headers := http.Header{}
	headers.Set("xi-api-key", s.apiKey)
	return headers
}

// TextToSpeech synthesizes text with the given voice and returns the MPEG audio
func (s *Service) TextToSpeech(ctx context.Context, voiceID string, speech SpeechRequest) ([]byte, error) {
	body, err := json.Marshal(speech)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal speech request: %w", err)
	}

	s.mu.RLock()
	restURL := s.RestURL
	s.mu.RUnlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, restURL+textToSpeechPath+url.PathEscape(voiceID), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create speech request: %w", err)
	}
	req.Header = s.headers()
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read speech audio: %w", err)
	}

	return audio, nil
}

// ConnectAgent opens a conversation websocket with the given voice agent
func (s *Service) ConnectAgent(ctx context.Context, agentID string) (*websocket.Conn, error) {
	s.mu.RLock()
	socketURL := s.SocketURL
	s.mu.RUnlock()

	// error if trying to connect without url
	if socketURL == "" {
		return nil, fmt.Errorf("socket URL is required before connecting to the voice agent")
	}

	u, err := url.Parse(socketURL + conversationPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse voice agent URL")
		return nil, err
	}

	query := u.Query()
	query.Set("agent_id", agentID)
	u.RawQuery = query.Encode()

	conn, resp, err := s.Dialer.DialContext(ctx, u.String(), s.headers())
	if err != nil {
		event := log.Error().Err(err)
		if resp != nil {
			event = event.Int("status", resp.StatusCode)
		}
		event.Msg("Failed to connect to voice agent")
		return nil, err
	}

	return conn, nil
}
