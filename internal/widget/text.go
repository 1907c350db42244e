package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	chatModels "github.com/vetted/companion/internal/services/chat/models"
	"github.com/vetted/companion/pkg/httpext"
	"github.com/vetted/companion/pkg/sse"
)

// clientHistory caps the history sent with each message. The relay applies
// its own window, so this only keeps requests small.
const clientHistory = 20

// ErrReply is returned when the relay reports a failure inside the stream
var ErrReply = errors.New(chatModels.GenericErrorMessage)

// chatEvent is either a text fragment or an error report
type chatEvent struct {
	Text    string `json:"text"`
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// TextController chats with the relay and streams replies to out
type TextController struct {
	lifecycle

	client   *http.Client
	endpoint string
	out      io.Writer

	mu        sync.Mutex
	sessionID string
	history   []chatModels.ChatTurn
}

func NewTextController(client *http.Client, baseURL string, out io.Writer) *TextController {
	return &TextController{
		client:   client,
		endpoint: strings.TrimSuffix(baseURL, "/") + "/chat",
		out:      out,
	}
}

func (c *TextController) Mode() Mode {
	return ModeText
}

// Start begins a new session with an empty history
func (c *TextController) Start(ctx context.Context) error {
	sessionID := uuid.NewString()

	c.mu.Lock()
	c.sessionID = sessionID
	c.history = nil
	c.mu.Unlock()

	c.start(ctx)
	log.Debug().Str("session_id", sessionID).Msg("Text controller started")
	return nil
}

func (c *TextController) Stop() error {
	c.stop()
	return nil
}

// History returns a copy of the turns exchanged in this session
func (c *TextController) History() []chatModels.ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chatModels.ChatTurn(nil), c.history...)
}

// Send posts input and writes the reply to out as it streams in
func (c *TextController) Send(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	ctx, cancel, err := c.bind(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	c.mu.Lock()
	history := c.history
	if len(history) > clientHistory {
		history = history[len(history)-clientHistory:]
	}
	body, err := json.Marshal(chatModels.ChatRequest{
		Message:             input,
		ConversationHistory: history,
		SessionID:           c.sessionID,
	})
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach chat relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return relayError(resp)
	}

	reply, err := c.readReply(resp.Body)
	fmt.Fprintln(c.out)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.history = append(c.history,
		chatModels.ChatTurn{Sender: chatModels.SenderUser, Text: input},
		chatModels.ChatTurn{Sender: "assistant", Text: reply},
	)
	c.mu.Unlock()

	return nil
}

func (c *TextController) readReply(body io.Reader) (string, error) {
	var reply strings.Builder
	reader := sse.NewReader(body)

	for {
		payload, err := reader.ReadData()
		if errors.Is(err, io.EOF) {
			return reply.String(), nil
		}
		if err != nil {
			return reply.String(), fmt.Errorf("failed to read reply: %w", err)
		}

		if payload == sse.Done {
			return reply.String(), nil
		}

		var event chatEvent
		if err := json.Unmarshal([]byte(payload), &event); err != nil {
			continue
		}
		if event.Error {
			return reply.String(), ErrReply
		}

		reply.WriteString(event.Text)
		fmt.Fprint(c.out, event.Text)
	}
}

// relayError turns a JSON error response into an error
func relayError(resp *http.Response) error {
	var body httpext.ErrorResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&body); err != nil || body.Error == "" {
		return fmt.Errorf("relay answered %d", resp.StatusCode)
	}
	return fmt.Errorf("relay answered %d: %s", resp.StatusCode, body.Error)
}
