package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
	openaiService "github.com/vetted/companion/internal/infrastructure/openai"
	"github.com/vetted/companion/internal/services/chat/models"
)

// OpenAIProvider streams replies from an OpenAI-compatible chat completions API
type OpenAIProvider struct {
	service *openaiService.Service
	model   string
}

func NewOpenAIProvider(service *openaiService.Service, model string) *OpenAIProvider {
	return &OpenAIProvider{service: service, model: model}
}

func (p *OpenAIProvider) Name() string {
	return "openai"
}

func (p *OpenAIProvider) Configured() bool {
	return p.service != nil && p.service.Configured()
}

func (p *OpenAIProvider) Open(ctx context.Context, req UpstreamRequest) (FrameSource, error) {
	client := p.service.GetClient()
	if client == nil {
		return nil, ErrMissingCredential
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	for _, msg := range req.Messages {
		role := openai.ChatMessageRoleAssistant
		if msg.Role == models.RoleUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	stream, err := client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:     p.model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
		Stream:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion stream: %w", err)
	}

	return &openaiSource{stream: stream}, nil
}

type openaiSource struct {
	stream *openai.ChatCompletionStream
	ended  bool
}

// Next maps completion chunks to frames. The end of the completion stream
// becomes a single StreamEnd frame followed by io.EOF.
func (s *openaiSource) Next() (models.Frame, error) {
	if s.ended {
		return models.Frame{}, io.EOF
	}

	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			s.ended = true
			return models.StreamEnd(), nil
		}
		if err != nil {
			if isMalformedFrame(err) {
				log.Debug().Err(err).Msg("Skipping malformed upstream frame")
				continue
			}
			return models.Frame{}, err
		}

		if len(resp.Choices) == 0 || resp.Choices[0].Delta.Content == "" {
			return models.Unknown(), nil
		}
		return models.ContentDelta(resp.Choices[0].Delta.Content), nil
	}
}

func (s *openaiSource) Close() error {
	return s.stream.Close()
}

func isMalformedFrame(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}
