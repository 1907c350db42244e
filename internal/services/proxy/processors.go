package proxy

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

const (
	eventUserTranscript = "user_transcript"
	eventAgentResponse  = "agent_response"
)

type agentEvent struct {
	Type                   string `json:"type"`
	UserTranscriptionEvent *struct {
		UserTranscript string `json:"user_transcript"`
	} `json:"user_transcription_event,omitempty"`
	AgentResponseEvent *struct {
		AgentResponse string `json:"agent_response"`
	} `json:"agent_response_event,omitempty"`
}

// TranscriptLogger logs conversation transcripts at debug level and forwards
// every frame unchanged
func TranscriptLogger(direction string, message []byte) (bool, []byte, error) {
	if direction != DirectionOutbound {
		return true, nil, nil
	}

	var event agentEvent
	if err := json.Unmarshal(message, &event); err != nil {
		return true, nil, nil
	}

	switch {
	case event.Type == eventUserTranscript && event.UserTranscriptionEvent != nil:
		log.Debug().Str("speaker", "user").Str("text", event.UserTranscriptionEvent.UserTranscript).Msg("Voice agent transcript")
	case event.Type == eventAgentResponse && event.AgentResponseEvent != nil:
		log.Debug().Str("speaker", "agent").Str("text", event.AgentResponseEvent.AgentResponse).Msg("Voice agent transcript")
	default:
		return true, nil, nil
	}

	return false, message, nil
}
