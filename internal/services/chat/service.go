package chat

import (
	"context"
	"errors"

	"github.com/vetted/companion/internal/services/chat/models"
)

// ErrMissingCredential is returned when the selected provider has no API key
var ErrMissingCredential = errors.New("chat provider credential not configured")

// Service defines the interface for chat relay operations
type Service interface {
	// StreamReply starts an upstream completion for messages and returns its decoded frames
	StreamReply(ctx context.Context, messages []models.OutboundMessage) (*Stream, error)
	// Provider names the upstream in use
	Provider() string
	// Configured reports whether the upstream credential is present
	Configured() bool
}

// Provider adapts one hosted chat-completion API to the frame vocabulary
type Provider interface {
	Name() string
	Configured() bool
	Open(ctx context.Context, req UpstreamRequest) (FrameSource, error)
}

// UpstreamRequest is the provider-neutral shape of one completion call
type UpstreamRequest struct {
	System    string
	MaxTokens int
	Messages  []models.OutboundMessage
}

// FrameSource yields decoded frames in arrival order and io.EOF when the upstream ends
type FrameSource interface {
	Next() (models.Frame, error)
	Close() error
}
