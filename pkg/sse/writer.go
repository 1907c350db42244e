package sse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Writer emits data records and flushes each one to the client
type Writer struct {
	w       io.Writer
	flusher http.Flusher
	done    bool
}

func NewWriter(w io.Writer) *Writer {
	flusher, _ := w.(http.Flusher)
	return &Writer{w: w, flusher: flusher}
}

// WriteJSON writes v as a single data record
func (w *Writer) WriteJSON(v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return w.writeData(bytes.TrimRight(buf.Bytes(), "\n"))
}

// WriteDone writes the terminating sentinel. Only the first call writes.
func (w *Writer) WriteDone() error {
	if w.done {
		return nil
	}
	w.done = true
	return w.writeData([]byte(Done))
}

// Done reports whether the sentinel has been written
func (w *Writer) Done() bool {
	return w.done
}

func (w *Writer) writeData(payload []byte) error {
	if _, err := fmt.Fprintf(w.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	if w.flusher != nil {
		w.flusher.Flush()
	}
	return nil
}
