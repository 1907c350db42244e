package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the process configuration, read once at startup
type Config struct {
	Port string

	ChatProvider  string
	ChatMaxTokens int

	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	ElevenLabsAPIKey    string
	ElevenLabsBaseURL   string
	ElevenLabsSocketURL string
	ElevenLabsVoiceID   string
	ElevenLabsModelID   string
	ElevenLabsAgentID   string
	ElevenLabsTimeout   time.Duration

	RedisURL      string
	RedisPassword string
	TTSCacheTTL   time.Duration
}

// Load reads an optional .env file and then the process environment
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("No .env file loaded")
	}

	return Config{
		Port:                GetPort(),
		ChatProvider:        GetChatProvider(),
		ChatMaxTokens:       GetChatMaxTokens(),
		AnthropicAPIKey:     GetAnthropicAPIKey(),
		AnthropicBaseURL:    GetAnthropicBaseURL(),
		AnthropicModel:      GetAnthropicModel(),
		OpenAIKey:           GetOpenAIKey(),
		OpenAIBaseURL:       GetOpenAIBaseURL(),
		OpenAIModel:         GetOpenAIModel(),
		ElevenLabsAPIKey:    GetElevenLabsAPIKey(),
		ElevenLabsBaseURL:   GetElevenLabsBaseURL(),
		ElevenLabsSocketURL: GetElevenLabsSocketURL(),
		ElevenLabsVoiceID:   GetElevenLabsVoiceID(),
		ElevenLabsModelID:   GetElevenLabsModelID(),
		ElevenLabsAgentID:   GetElevenLabsAgentID(),
		ElevenLabsTimeout:   GetElevenLabsTimeout(),
		RedisURL:            GetRedisURL(),
		RedisPassword:       GetRedisPassword(),
		TTSCacheTTL:         GetTTSCacheTTL(),
	}
}
