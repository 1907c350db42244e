package chat

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/vetted/companion/internal/services/chat/models"
)

// streamBuffer bounds how far the upstream reader may run ahead of the client
const streamBuffer = 16

// Stream carries decoded frames from one upstream reader goroutine to a
// single consumer. Unknown frames are dropped; a StreamEnd frame is the last
// one delivered.
type Stream struct {
	frames    chan models.Frame
	err       error
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newStream(cancel context.CancelFunc) *Stream {
	return &Stream{
		frames: make(chan models.Frame, streamBuffer),
		cancel: cancel,
	}
}

// Frames is closed once the upstream is exhausted, fails or the stream is closed
func (s *Stream) Frames() <-chan models.Frame {
	return s.frames
}

// Err returns the read error that ended the stream, if any. Only valid after Frames is closed.
func (s *Stream) Err() error {
	return s.err
}

// Close cancels the upstream request, aborting a pending read
func (s *Stream) Close() {
	s.closeOnce.Do(s.cancel)
}

func (s *Stream) pump(ctx context.Context, src FrameSource) {
	defer close(s.frames)
	defer func() {
		if err := src.Close(); err != nil {
			log.Debug().Err(err).Msg("Failed to close upstream stream")
		}
	}()

	for {
		frame, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			if ctx.Err() != nil {
				s.err = ctx.Err()
				return
			}
			s.err = err
			return
		}

		if frame.Kind == models.FrameUnknown {
			continue
		}

		select {
		case s.frames <- frame:
		case <-ctx.Done():
			s.err = ctx.Err()
			return
		}

		if frame.Kind == models.FrameStreamEnd {
			return
		}
	}
}
