package config

import (
	"github.com/rs/zerolog/log"
)

const (
	DefaultAnthropicBaseURL = "https://api.anthropic.com"
	DefaultAnthropicModel   = "claude-haiku-4-5-20251001"
)

// GetAnthropicAPIKey returns the Anthropic API key, or an empty string when unset
func GetAnthropicAPIKey() string {
	value := GetEnvOrDefault("ANTHROPIC_API_KEY", "")
	if value == "" {
		log.Warn().Msg("ANTHROPIC_API_KEY environment variable not set")
		return value
	}
	log.Debug().Msg("Anthropic API key successfully loaded")
	return value
}

func GetAnthropicBaseURL() string {
	return GetEnvOrDefault("ANTHROPIC_BASE_URL", DefaultAnthropicBaseURL)
}

func GetAnthropicModel() string {
	return GetEnvOrDefault("ANTHROPIC_MODEL", DefaultAnthropicModel)
}
