package chat

import (
	"context"
	"encoding/json"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/vetted/companion/internal/infrastructure/anthropic"
	"github.com/vetted/companion/internal/services/chat/models"
	"github.com/vetted/companion/pkg/sse"
)

const (
	anthropicContentBlockDelta = "content_block_delta"
	anthropicTextDelta         = "text_delta"
	anthropicMessageStop       = "message_stop"
)

// anthropicEvent holds the fields of a messages stream event that matter to the relay
type anthropicEvent struct {
	Type  string `json:"type"`
	Delta *struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta,omitempty"`
}

// AnthropicProvider streams replies from the Anthropic messages API
type AnthropicProvider struct {
	service *anthropic.Service
	model   string
}

func NewAnthropicProvider(service *anthropic.Service, model string) *AnthropicProvider {
	return &AnthropicProvider{service: service, model: model}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Configured() bool {
	return p.service != nil && p.service.Configured()
}

func (p *AnthropicProvider) Open(ctx context.Context, req UpstreamRequest) (FrameSource, error) {
	messages := make([]anthropic.Message, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = anthropic.Message{Role: msg.Role, Content: msg.Content}
	}

	body, err := p.service.CreateMessageStream(ctx, anthropic.MessagesRequest{
		Model:     p.model,
		MaxTokens: req.MaxTokens,
		System:    req.System,
		Messages:  messages,
	})
	if err != nil {
		return nil, err
	}

	return newAnthropicSource(body), nil
}

type anthropicSource struct {
	body   io.ReadCloser
	reader *sse.Reader
}

func newAnthropicSource(body io.ReadCloser) *anthropicSource {
	return &anthropicSource{body: body, reader: sse.NewReader(body)}
}

// Next returns the next decodable frame. Records that are not valid JSON are skipped.
func (s *anthropicSource) Next() (models.Frame, error) {
	for {
		payload, err := s.reader.ReadData()
		if err != nil {
			return models.Frame{}, err
		}

		if payload == sse.Done {
			continue
		}

		frame, err := decodeAnthropicFrame([]byte(payload))
		if err != nil {
			log.Debug().Err(err).Str("payload", payload).Msg("Skipping malformed upstream frame")
			continue
		}
		return frame, nil
	}
}

func (s *anthropicSource) Close() error {
	return s.body.Close()
}

func decodeAnthropicFrame(data []byte) (models.Frame, error) {
	var event anthropicEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return models.Frame{}, err
	}

	switch event.Type {
	case anthropicContentBlockDelta:
		if event.Delta != nil && event.Delta.Type == anthropicTextDelta {
			return models.ContentDelta(event.Delta.Text), nil
		}
	case anthropicMessageStop:
		return models.StreamEnd(), nil
	}

	return models.Unknown(), nil
}
