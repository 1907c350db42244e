package voice

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/vetted/companion/internal/infrastructure/redis"
)

const cacheKeyPrefix = "tts:"

// AudioCache is a disposable lookaside store for synthesized audio
type AudioCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, audio []byte) error
}

// CacheKey identifies the audio for text spoken by one voice and model
func CacheKey(voiceID, modelID, text string) string {
	sum := sha256.Sum256([]byte(voiceID + "|" + modelID + "|" + text))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// NoopCache never stores anything
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopCache) Set(context.Context, string, []byte) error {
	return nil
}

type RedisCache struct {
	redis *redis.Service
	ttl   time.Duration
}

// NewRedisCache returns a no-op cache when redisService is nil
func NewRedisCache(redisService *redis.Service, ttl time.Duration) AudioCache {
	if redisService == nil {
		return NoopCache{}
	}
	return &RedisCache{redis: redisService, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	audio, err := c.redis.GetBytes(ctx, key)
	if redis.IsMiss(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return audio, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, audio []byte) error {
	return c.redis.Set(ctx, key, audio, c.ttl)
}
