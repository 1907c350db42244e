package voice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetted/companion/internal/infrastructure/elevenlabs"
)

type fakeSynth struct {
	configured bool
	audio      []byte
	err        error
	calls      []elevenlabs.SpeechRequest
	voiceIDs   []string
}

func (f *fakeSynth) Configured() bool { return f.configured }

func (f *fakeSynth) TextToSpeech(_ context.Context, voiceID string, speech elevenlabs.SpeechRequest) ([]byte, error) {
	f.calls = append(f.calls, speech)
	f.voiceIDs = append(f.voiceIDs, voiceID)
	return f.audio, f.err
}

type memoryCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	audio, ok := c.entries[key]
	return audio, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, audio []byte) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = audio
	return nil
}

func TestSynthesize(t *testing.T) {
	synth := &fakeSynth{configured: true, audio: []byte("ID3mpeg")}
	s := NewService(synth, nil, "voice-1", "model-1")

	audio, err := s.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3mpeg"), audio)

	require.Len(t, synth.calls, 1)
	assert.Equal(t, "voice-1", synth.voiceIDs[0])
	assert.Equal(t, elevenlabs.SpeechRequest{
		Text:    "hello",
		ModelID: "model-1",
		VoiceSettings: elevenlabs.VoiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Style:           0.0,
			UseSpeakerBoost: true,
		},
	}, synth.calls[0])
	assert.False(t, s.Cached())
}

func TestSynthesizeMissingCredential(t *testing.T) {
	cache := newMemoryCache()
	cache.entries[CacheKey("v", "m", "hello")] = []byte("cached")

	s := NewService(&fakeSynth{}, cache, "v", "m")
	_, err := s.Synthesize(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrMissingCredential)

	s = NewService(nil, nil, "v", "m")
	assert.False(t, s.Configured())
}

func TestSynthesizeUpstreamError(t *testing.T) {
	synth := &fakeSynth{configured: true, err: &elevenlabs.APIError{StatusCode: 401, Body: "unauthorized"}}
	cache := newMemoryCache()
	s := NewService(synth, cache, "v", "m")

	_, err := s.Synthesize(context.Background(), "hello")

	var apiErr *elevenlabs.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Empty(t, cache.entries)
}

func TestSynthesizeCaches(t *testing.T) {
	synth := &fakeSynth{configured: true, audio: []byte("mpeg")}
	cache := newMemoryCache()
	s := NewService(synth, cache, "v", "m")
	assert.True(t, s.Cached())

	for i := 0; i < 3; i++ {
		audio, err := s.Synthesize(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, []byte("mpeg"), audio)
	}

	assert.Len(t, synth.calls, 1)
	assert.Contains(t, cache.entries, CacheKey("v", "m", "hello"))
}

func TestSynthesizeIgnoresCacheFailures(t *testing.T) {
	synth := &fakeSynth{configured: true, audio: []byte("mpeg")}
	cache := newMemoryCache()
	cache.getErr = errors.New("connection refused")
	cache.setErr = errors.New("connection refused")
	s := NewService(synth, cache, "v", "m")

	audio, err := s.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("mpeg"), audio)
	assert.Len(t, synth.calls, 1)
}

func TestCacheKey(t *testing.T) {
	key := CacheKey("v", "m", "hello")
	assert.Regexp(t, `^tts:[0-9a-f]{64}$`, key)
	assert.Equal(t, key, CacheKey("v", "m", "hello"))
	assert.NotEqual(t, key, CacheKey("v2", "m", "hello"))
	assert.NotEqual(t, key, CacheKey("v", "m2", "hello"))
	assert.NotEqual(t, key, CacheKey("v", "m", "hello!"))
}

func TestNewRedisCacheWithoutRedis(t *testing.T) {
	cache := NewRedisCache(nil, time.Hour)
	assert.IsType(t, NoopCache{}, cache)

	audio, hit, err := cache.Get(context.Background(), "tts:x")
	assert.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, audio)
	assert.NoError(t, cache.Set(context.Background(), "tts:x", []byte("a")))
}
