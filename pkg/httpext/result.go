package httpext

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// Result is a serverless-style function result. Binary payloads travel
// base64-encoded in Body with IsBase64Encoded set; Write decodes them before
// they reach the wire.
type Result struct {
	StatusCode      int
	Headers         map[string]string
	Body            string
	IsBase64Encoded bool
}

// Base64Result wraps a binary payload, recording its decoded length in Content-Length
func Base64Result(code int, contentType string, payload []byte) Result {
	return Result{
		StatusCode: code,
		Headers: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": strconv.Itoa(len(payload)),
		},
		Body:            base64.StdEncoding.EncodeToString(payload),
		IsBase64Encoded: true,
	}
}

// ErrorResult is the JSON error counterpart of JsonError
func ErrorResult(code int, message string) Result {
	body, _ := json.Marshal(ErrorResponse{Error: message})
	return Result{
		StatusCode: code,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

// Decode returns the wire bytes of the result body
func (r Result) Decode() ([]byte, error) {
	if !r.IsBase64Encoded {
		return []byte(r.Body), nil
	}

	payload, err := base64.StdEncoding.DecodeString(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 body: %w", err)
	}
	return payload, nil
}

// Write sends the result to w
func (r Result) Write(w http.ResponseWriter) error {
	payload, err := r.Decode()
	if err != nil {
		JsonError(w, "Internal server error", http.StatusInternalServerError)
		return err
	}

	for key, value := range r.Headers {
		w.Header().Set(key, value)
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))

	code := r.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("failed to write result body: %w", err)
	}
	return nil
}
