package models

// GenericErrorMessage is the only failure text the browser ever sees
const GenericErrorMessage = "An error occurred. Please try again."

// TextEvent carries one incremental fragment to the browser
type TextEvent struct {
	Text string `json:"text"`
}

// ErrorEvent reports a failure inside the event stream
type ErrorEvent struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func NewErrorEvent() ErrorEvent {
	return ErrorEvent{Error: true, Message: GenericErrorMessage}
}
