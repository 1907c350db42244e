package models

const (
	SenderUser = "user"

	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one entry of the conversation history supplied by the caller
type ChatTurn struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// OutboundMessage is a ChatTurn projected onto the upstream message shape
type OutboundMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of a chat relay request
type ChatRequest struct {
	Message             string     `json:"message" validate:"required"`
	ConversationHistory []ChatTurn `json:"conversationHistory,omitempty"`
	SessionID           string     `json:"sessionId,omitempty"`
}
