package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultTTSCacheTTL = 24 * time.Hour

func GetRedisURL() string {
	log.Debug().Msg("Attempting to retrieve Redis URL from environment")
	value := GetEnvOrDefault("REDIS_URL", "")
	if value == "" {
		log.Info().Msg("REDIS_URL not set - audio cache disabled")
	} else {
		log.Info().Msg("Redis URL successfully loaded")
	}
	return value
}

func GetRedisPassword() string {
	return GetEnvOrDefault("REDIS_PASSWORD", "")
}

// GetTTSCacheTTL returns how long synthesized audio stays cached
func GetTTSCacheTTL() time.Duration {
	return parseEnvDuration("TTS_CACHE_TTL", DefaultTTSCacheTTL)
}
