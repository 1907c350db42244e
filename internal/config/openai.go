package config

import "github.com/rs/zerolog/log"

const DefaultOpenAIModel = "gpt-4o-mini"

// GetOpenAIKey returns the current OpenAI key
func GetOpenAIKey() string {
	value := GetEnvOrDefault("OPENAI_KEY", "")
	if value == "" {
		log.Warn().Msg("OPENAI_KEY environment variable not set")
	}
	return value
}

// GetOpenAIBaseURL returns an override for the OpenAI API base URL, empty for the library default
func GetOpenAIBaseURL() string {
	return GetEnvOrDefault("OPENAI_BASE_URL", "")
}

func GetOpenAIModel() string {
	return GetEnvOrDefault("OPENAI_MODEL", DefaultOpenAIModel)
}
