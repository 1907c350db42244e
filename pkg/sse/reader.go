package sse

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// Done is the payload that terminates a stream
const Done = "[DONE]"

const dataField = "data:"

// Reader splits an event stream into complete lines. Bytes after the last
// newline are held until the rest of the line arrives; a line still
// unterminated when the stream ends is discarded.
type Reader struct {
	br *bufio.Reader
}

func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 32*1024)}
}

// ReadLine returns the next complete line without its line terminator
func (r *Reader) ReadLine() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line != "" {
				log.Debug().Int("bytes", len(line)).Msg("Discarding unterminated trailing line")
			}
			return "", io.EOF
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadData returns the payload of the next data record, skipping event,
// id, comment and blank lines.
func (r *Reader) ReadData() (string, error) {
	for {
		line, err := r.ReadLine()
		if err != nil {
			return "", err
		}

		if payload, ok := DataPayload(line); ok {
			return payload, nil
		}
	}
}

// DataPayload reports whether line is a data record and returns its payload
func DataPayload(line string) (string, bool) {
	if !strings.HasPrefix(line, dataField) {
		return "", false
	}
	return strings.TrimPrefix(line[len(dataField):], " "), true
}
