package voice

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vetted/companion/internal/infrastructure/elevenlabs"
)

// ErrMissingCredential is returned when no ElevenLabs API key is configured
var ErrMissingCredential = errors.New("elevenlabs API key not configured")

// DefaultVoiceSettings are the fixed synthesis parameters for the companion voice
var DefaultVoiceSettings = elevenlabs.VoiceSettings{
	Stability:       0.5,
	SimilarityBoost: 0.75,
	Style:           0.0,
	UseSpeakerBoost: true,
}

// Synthesizer is the upstream text-to-speech API
type Synthesizer interface {
	Configured() bool
	TextToSpeech(ctx context.Context, voiceID string, speech elevenlabs.SpeechRequest) ([]byte, error)
}

type Service struct {
	synth   Synthesizer
	cache   AudioCache
	voiceID string
	modelID string
}

func NewService(synth Synthesizer, cache AudioCache, voiceID, modelID string) *Service {
	if cache == nil {
		cache = NoopCache{}
	}

	return &Service{
		synth:   synth,
		cache:   cache,
		voiceID: voiceID,
		modelID: modelID,
	}
}

// Configured reports whether the upstream credential is present
func (s *Service) Configured() bool {
	return s.synth != nil && s.synth.Configured()
}

// Cached reports whether synthesized audio is kept between requests
func (s *Service) Cached() bool {
	_, noop := s.cache.(NoopCache)
	return !noop
}

// Synthesize returns the MPEG audio for text. Cache failures are logged and
// never fail the call.
func (s *Service) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !s.Configured() {
		return nil, ErrMissingCredential
	}

	key := CacheKey(s.voiceID, s.modelID, text)

	audio, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Audio cache lookup failed")
	} else if hit {
		log.Debug().Str("key", key).Int("bytes", len(audio)).Msg("Serving synthesized audio from cache")
		return audio, nil
	}

	audio, err = s.synth.TextToSpeech(ctx, s.voiceID, elevenlabs.SpeechRequest{
		Text:          text,
		ModelID:       s.modelID,
		VoiceSettings: DefaultVoiceSettings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	if err := s.cache.Set(ctx, key, audio); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Failed to cache synthesized audio")
	}

	return audio, nil
}
