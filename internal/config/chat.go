package config

import (
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	ChatProviderAnthropic = "anthropic"
	ChatProviderOpenAI    = "openai"

	DefaultChatMaxTokens = 512
)

// GetChatProvider returns the upstream used by the chat relay
func GetChatProvider() string {
	value := strings.ToLower(GetEnvOrDefault("CHAT_PROVIDER", ChatProviderAnthropic))
	switch value {
	case ChatProviderAnthropic, ChatProviderOpenAI:
		return value
	default:
		log.Warn().Str("chat_provider", value).Msg("Unknown CHAT_PROVIDER, falling back to anthropic")
		return ChatProviderAnthropic
	}
}

// GetChatMaxTokens returns the bound on generated output per reply
func GetChatMaxTokens() int {
	return parseEnvInt("CHAT_MAX_TOKENS", DefaultChatMaxTokens)
}
