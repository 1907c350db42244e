package chat

import (
	"strings"

	"github.com/vetted/companion/internal/services/chat/models"
)

// HistoryWindow bounds how many prior turns are forwarded upstream
const HistoryWindow = 20

// BuildMessages keeps the most recent HistoryWindow turns, drops blank ones,
// maps senders to roles and appends message as the final user turn.
func BuildMessages(history []models.ChatTurn, message string) []models.OutboundMessage {
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}

	messages := make([]models.OutboundMessage, 0, len(history)+1)
	for _, turn := range history {
		if strings.TrimSpace(turn.Text) == "" {
			continue
		}
		messages = append(messages, models.OutboundMessage{
			Role:    roleFor(turn.Sender),
			Content: turn.Text,
		})
	}

	return append(messages, models.OutboundMessage{Role: models.RoleUser, Content: message})
}

func roleFor(sender string) string {
	if sender == models.SenderUser {
		return models.RoleUser
	}
	return models.RoleAssistant
}
