package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	APIVersion   = "2023-06-01"
	messagesPath = "/v1/messages"
)

// Message is a single turn in a messages request
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MessagesRequest is the body of a messages API call
type MessagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Stream    bool      `json:"stream"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
}

// APIError is returned when the messages API answers with a non-success status
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anthropic API error: %d", e.StatusCode)
}

type Service struct {
	mu      sync.RWMutex
	Client  *http.Client
	BaseURL string
	apiKey  string
}

func NewService(apiKey, baseURL string) *Service {
	if apiKey == "" {
		log.Warn().Msg("Anthropic service not configured - ANTHROPIC_API_KEY missing")
	}

	return &Service{
		Client:  &http.Client{},
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Configured reports whether a credential is available
func (s *Service) Configured() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.apiKey != ""
}

// CreateMessageStream starts a streaming messages call and returns the raw
// event stream. The caller closes the returned body; cancelling ctx aborts
// any pending read on it.
func (s *Service) CreateMessageStream(ctx context.Context, req MessagesRequest) (io.ReadCloser, error) {
	s.mu.RLock()
	apiKey := s.apiKey
	s.mu.RUnlock()

	req.Stream = true

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("x-api-key", apiKey)
	httpReq.Header.Set("anthropic-version", APIVersion)

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	return resp.Body, nil
}
