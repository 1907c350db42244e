package chat

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vetted/companion/internal/services/chat/models"
)

type Implementation struct {
	provider     Provider
	systemPrompt string
	maxTokens    int
}

func NewService(provider Provider, systemPrompt string, maxTokens int) (*Implementation, error) {
	if provider == nil {
		return nil, fmt.Errorf("chat provider is required")
	}
	if maxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", maxTokens)
	}

	return &Implementation{
		provider:     provider,
		systemPrompt: systemPrompt,
		maxTokens:    maxTokens,
	}, nil
}

func (s *Implementation) Provider() string {
	return s.provider.Name()
}

func (s *Implementation) Configured() bool {
	return s.provider.Configured()
}

// StreamReply opens the upstream completion and starts the reader goroutine.
// The upstream request is bound to ctx: cancelling it, or closing the
// returned Stream, aborts the upstream read.
func (s *Implementation) StreamReply(ctx context.Context, messages []models.OutboundMessage) (*Stream, error) {
	if !s.provider.Configured() {
		return nil, ErrMissingCredential
	}

	log.Debug().
		Str("provider", s.provider.Name()).
		Int("message_count", len(messages)).
		Msg("Opening upstream chat stream")

	ctx, cancel := context.WithCancel(ctx)

	src, err := s.provider.Open(ctx, UpstreamRequest{
		System:    s.systemPrompt,
		MaxTokens: s.maxTokens,
		Messages:  messages,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to open %s stream: %w", s.provider.Name(), err)
	}

	stream := newStream(cancel)
	go stream.pump(ctx, src)

	return stream, nil
}
