package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultElevenLabsBaseURL   = "https://api.elevenlabs.io"
	DefaultElevenLabsSocketURL = "wss://api.elevenlabs.io"
	DefaultElevenLabsVoiceID   = "V29GY2zuvq6wrmfe46Vo"
	DefaultElevenLabsModelID   = "eleven_multilingual_v2"
	DefaultElevenLabsAgentID   = "agent_5101kcj7251heaztvnmz2hbjk1ra"
	DefaultElevenLabsTimeout   = 30 * time.Second
)

func GetElevenLabsAPIKey() string {
	value := GetEnvOrDefault("ELEVENLABS_API_KEY", "")
	if value == "" {
		log.Warn().Msg("ELEVENLABS_API_KEY environment variable not set")
		return value
	}
	log.Debug().Msg("ElevenLabs API key successfully loaded")
	return value
}

func GetElevenLabsBaseURL() string {
	return GetEnvOrDefault("ELEVENLABS_BASE_URL", DefaultElevenLabsBaseURL)
}

func GetElevenLabsSocketURL() string {
	return GetEnvOrDefault("ELEVENLABS_SOCKET_URL", DefaultElevenLabsSocketURL)
}

func GetElevenLabsVoiceID() string {
	return GetEnvOrDefault("ELEVENLABS_VOICE_ID", DefaultElevenLabsVoiceID)
}

func GetElevenLabsModelID() string {
	return GetEnvOrDefault("ELEVENLABS_MODEL_ID", DefaultElevenLabsModelID)
}

func GetElevenLabsAgentID() string {
	return GetEnvOrDefault("ELEVENLABS_AGENT_ID", DefaultElevenLabsAgentID)
}

func GetElevenLabsTimeout() time.Duration {
	return parseEnvDuration("ELEVENLABS_TIMEOUT", DefaultElevenLabsTimeout)
}
