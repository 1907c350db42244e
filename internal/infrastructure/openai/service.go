package openai

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

type Service struct {
	mu     sync.RWMutex
	client *openai.Client
}

// NewService returns a service with a nil client when key is empty so the
// chat relay can report the missing credential per request.
func NewService(key, baseURL string) *Service {
	log.Info().Msg("Initialising OpenAI service")

	if key == "" {
		log.Warn().Msg("OpenAI service not configured - OPENAI_KEY missing")
		return &Service{}
	}

	cfg := openai.DefaultConfig(key)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Service{
		client: openai.NewClientWithConfig(cfg),
	}
}

func (s *Service) GetClient() *openai.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Configured reports whether a credential is available
func (s *Service) Configured() bool {
	return s.GetClient() != nil
}
