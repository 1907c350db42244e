package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// VoiceController speaks input through the voice relay and saves each clip to dir
type VoiceController struct {
	lifecycle

	client   *http.Client
	endpoint string
	dir      string
	out      io.Writer

	mu    sync.Mutex
	clips int
}

func NewVoiceController(client *http.Client, baseURL, dir string, out io.Writer) *VoiceController {
	return &VoiceController{
		client:   client,
		endpoint: strings.TrimSuffix(baseURL, "/") + "/voice",
		dir:      dir,
		out:      out,
	}
}

func (c *VoiceController) Mode() Mode {
	return ModeVoice
}

func (c *VoiceController) Start(ctx context.Context) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create audio directory: %w", err)
	}
	c.start(ctx)
	return nil
}

func (c *VoiceController) Stop() error {
	c.stop()
	return nil
}

// Send synthesizes input and writes the MPEG clip to a new file
func (c *VoiceController) Send(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	ctx, cancel, err := c.bind(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	body, err := json.Marshal(map[string]string{"text": input})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach voice relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return relayError(resp)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read audio: %w", err)
	}

	c.mu.Lock()
	c.clips++
	path := filepath.Join(c.dir, fmt.Sprintf("reply-%03d.mp3", c.clips))
	c.mu.Unlock()

	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("failed to save audio: %w", err)
	}

	log.Debug().Str("path", path).Int("bytes", len(audio)).Msg("Saved synthesized audio")
	fmt.Fprintf(c.out, "[audio saved to %s]\n", path)
	return nil
}
