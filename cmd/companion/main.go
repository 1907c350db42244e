// Command companion is a terminal rendition of the chat widget
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/vetted/companion/internal/logger"
	"github.com/vetted/companion/internal/widget"
)

const help = `Commands:
  /open [text|voice]  open the widget (voice by default)
  /close              close the widget
  /text, /voice       switch mode
  /quit               exit
Anything else is sent to the open widget.`

func main() {
	serverURL := flag.String("url", "http://localhost:8080", "relay base URL")
	audioDir := flag.String("audio-dir", "companion-audio", "directory for synthesized replies")
	flag.Parse()

	logger.Setup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := &http.Client{}
	w := widget.New(func(mode widget.Mode) widget.Controller {
		if mode == widget.ModeText {
			return widget.NewTextController(client, *serverURL, os.Stdout)
		}
		return widget.NewVoiceController(client, *serverURL, *audioDir, os.Stdout)
	})
	defer w.Shutdown()

	fmt.Println(help)
	if err := run(ctx, os.Stdin, os.Stdout, w); err != nil {
		log.Fatal().Err(err).Msg("Companion exited")
	}
}

// run reads commands from in until /quit, EOF or ctx is cancelled
func run(ctx context.Context, in io.Reader, out io.Writer, w *widget.Widget) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprintf(out, "%s> ", w.State())

		var line string
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line = <-lines:
		}

		quit, err := handleLine(ctx, out, w, line)
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func handleLine(ctx context.Context, out io.Writer, w *widget.Widget, line string) (bool, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return false, nil
	}

	if !strings.HasPrefix(line, "/") {
		err := w.Send(ctx, line)
		if errors.Is(err, widget.ErrClosed) {
			return false, errors.New("widget is closed, use /open")
		}
		return false, err
	}

	fields := strings.Fields(line)
	var event widget.Event

	switch fields[0] {
	case "/quit":
		return true, nil
	case "/help":
		fmt.Fprintln(out, help)
		return false, nil
	case "/open":
		mode := widget.ModeVoice
		if len(fields) > 1 {
			parsed, err := widget.ParseMode(fields[1])
			if err != nil {
				return false, err
			}
			mode = parsed
		}
		event = widget.Open(mode)
	case "/close":
		event = widget.Close()
	case "/text":
		event = widget.SwitchMode(widget.ModeText)
	case "/voice":
		event = widget.SwitchMode(widget.ModeVoice)
	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}

	_, err := w.Dispatch(ctx, event)
	return false, err
}
