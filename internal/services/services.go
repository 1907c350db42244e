package services

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/vetted/companion/internal/config"
	"github.com/vetted/companion/internal/connections"
	"github.com/vetted/companion/internal/infrastructure/anthropic"
	"github.com/vetted/companion/internal/infrastructure/elevenlabs"
	"github.com/vetted/companion/internal/infrastructure/openai"
	"github.com/vetted/companion/internal/infrastructure/redis"
	"github.com/vetted/companion/internal/services/chat"
	"github.com/vetted/companion/internal/services/proxy"
	"github.com/vetted/companion/internal/services/voice"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	chatService  chat.Service
	voiceService *voice.Service
	agentService *proxy.Service
	redisService *redis.Service
}

// New assembles a container from already-built services
func New(chatService chat.Service, voiceService *voice.Service, agentService *proxy.Service) *Services {
	return &Services{
		chatService:  chatService,
		voiceService: voiceService,
		agentService: agentService,
	}
}

// InitializeServices builds every service from cfg. Missing credentials are
// logged and reported per request; they never stop the server.
func InitializeServices(cfg config.Config) (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	provider, err := newChatProvider(cfg)
	if err != nil {
		return nil, err
	}

	chatService, err := chat.NewService(provider, chat.DefaultSystemPrompt, cfg.ChatMaxTokens)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chat service: %w", err)
	}
	log.Info().Str("provider", provider.Name()).Bool("configured", provider.Configured()).Msg("Initialized chat service")

	// Redis is optional and only backs the audio cache
	redisService := redis.NewService(cfg.RedisURL, cfg.RedisPassword)

	elevenLabsService := elevenlabs.NewService(cfg.ElevenLabsAPIKey, cfg.ElevenLabsBaseURL, cfg.ElevenLabsSocketURL, cfg.ElevenLabsTimeout)

	voiceService := voice.NewService(
		elevenLabsService,
		voice.NewRedisCache(redisService, cfg.TTSCacheTTL),
		cfg.ElevenLabsVoiceID,
		cfg.ElevenLabsModelID,
	)
	log.Info().Bool("cached", voiceService.Cached()).Msg("Initialized voice service")

	agentService := proxy.NewAgentService(elevenLabsService, cfg.ElevenLabsAgentID, connections.NewManager(connections.DefaultTimeouts))

	log.Info().Msg("All services initialized successfully")

	return &Services{
		chatService:  chatService,
		voiceService: voiceService,
		agentService: agentService,
		redisService: redisService,
	}, nil
}

func newChatProvider(cfg config.Config) (chat.Provider, error) {
	switch cfg.ChatProvider {
	case config.ChatProviderAnthropic:
		return chat.NewAnthropicProvider(anthropic.NewService(cfg.AnthropicAPIKey, cfg.AnthropicBaseURL), cfg.AnthropicModel), nil
	case config.ChatProviderOpenAI:
		return chat.NewOpenAIProvider(openai.NewService(cfg.OpenAIKey, cfg.OpenAIBaseURL), cfg.OpenAIModel), nil
	default:
		return nil, fmt.Errorf("unknown chat provider %q", cfg.ChatProvider)
	}
}

// GetChatService returns the chat service
func (s *Services) GetChatService() chat.Service {
	return s.chatService
}

// GetVoiceService returns the voice service
func (s *Services) GetVoiceService() *voice.Service {
	return s.voiceService
}

// GetAgentService returns the voice agent proxy
func (s *Services) GetAgentService() *proxy.Service {
	return s.agentService
}

// Close releases connections held by the services
func (s *Services) Close() error {
	if s.redisService != nil {
		return s.redisService.Close()
	}
	return nil
}
