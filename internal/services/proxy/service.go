package proxy

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/vetted/companion/internal/connections"
)

const (
	DirectionInbound  = "inbound"
	DirectionOutbound = "outbound"
)

// ErrMissingCredential is returned when the agent upstream has no API key
var ErrMissingCredential = errors.New("voice agent credential not configured")

// MessageProcessor inspects a text frame travelling in direction. It returns
// true if it skipped the frame. A processor that handles the frame returns
// the bytes to forward; nil drops the frame.
type MessageProcessor func(direction string, message []byte) (bool, []byte, error)

// AgentDialer opens conversations with the hosted voice agent
type AgentDialer interface {
	Configured() bool
	ConnectAgent(ctx context.Context, agentID string) (*websocket.Conn, error)
}

type Service struct {
	dialer  AgentDialer
	agentID string
	manager *connections.Manager
}

func NewAgentService(dialer AgentDialer, agentID string, manager *connections.Manager) *Service {
	if manager == nil {
		manager = connections.NewManager(connections.DefaultTimeouts)
	}

	log.Info().Str("agent_id", agentID).Msg("Voice agent proxy initialized")

	return &Service{
		dialer:  dialer,
		agentID: agentID,
		manager: manager,
	}
}

// Configured reports whether the upstream credential is present
func (s *Service) Configured() bool {
	return s.dialer != nil && s.dialer.Configured()
}

// ActiveConnections is the number of browser connections currently proxied
func (s *Service) ActiveConnections() int {
	return s.manager.GetConnectionCount()
}

// Connect dials the voice agent. There are no retries.
func (s *Service) Connect(ctx context.Context) (*websocket.Conn, error) {
	if !s.Configured() {
		return nil, ErrMissingCredential
	}

	conn, err := s.dialer.ConnectAgent(ctx, s.agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to voice agent: %w", err)
	}

	log.Info().Str("agent_id", s.agentID).Msg("Connected to voice agent")
	return conn, nil
}

// Proxy copies frames between clientConn and agentConn until either side
// closes. Both connections are closed on return. A normal closure returns nil.
func (s *Service) Proxy(clientConn, agentConn *websocket.Conn, processors ...MessageProcessor) error {
	s.manager.AddConnection(clientConn)
	defer func() {
		duration := s.manager.RemoveConnection(clientConn)
		log.Info().Dur("duration", duration).Msg("Voice agent session ended")
	}()

	timeouts := s.manager.GetTimeouts()

	errChan := make(chan error, 2)
	done := make(chan struct{})
	var closeOnce sync.Once

	cleanup := func() {
		closeOnce.Do(func() {
			close(done)
			clientConn.Close()
			agentConn.Close()
		})
	}
	defer cleanup()

	clientConn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	clientConn.SetPongHandler(func(string) error {
		return clientConn.SetReadDeadline(time.Now().Add(timeouts.PongWait))
	})

	log.Info().
		Str("client_remote_addr", clientConn.RemoteAddr().String()).
		Str("agent_remote_addr", agentConn.RemoteAddr().String()).
		Int("processor_count", len(processors)).
		Int("active_connections", s.manager.GetConnectionCount()).
		Msg("Starting voice agent proxy")

	go s.keepAlive(clientConn, timeouts, done)
	go s.proxyMessages(clientConn, agentConn, DirectionInbound, processors, timeouts, errChan)
	go s.proxyMessages(agentConn, clientConn, DirectionOutbound, processors, timeouts, errChan)

	err := <-errChan
	if isNormalClosure(err) {
		log.Info().Msg("Voice agent proxy closed normally")
		return nil
	}

	log.Warn().Err(err).Msg("Voice agent proxy closed unexpectedly")
	return err
}

func (s *Service) keepAlive(conn *websocket.Conn, timeouts connections.TimeoutConfig, done chan struct{}) {
	ticker := time.NewTicker(timeouts.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(timeouts.WriteWait)); err != nil {
				log.Debug().Err(err).Msg("Failed to ping client connection")
				return
			}
		}
	}
}

func (s *Service) proxyMessages(src, dst *websocket.Conn, direction string, processors []MessageProcessor, timeouts connections.TimeoutConfig, errChan chan<- error) {
	for {
		messageType, message, err := src.ReadMessage()
		if err != nil {
			errChan <- err
			return
		}

		if messageType == websocket.TextMessage {
			message, err = processMessage(direction, message, processors)
			if err != nil {
				errChan <- err
				return
			}
			if message == nil {
				continue
			}
		}

		dst.SetWriteDeadline(time.Now().Add(timeouts.WriteWait))
		if err := dst.WriteMessage(messageType, message); err != nil {
			errChan <- err
			return
		}
	}
}

// processMessage runs message through processors until one handles it
func processMessage(direction string, message []byte, processors []MessageProcessor) ([]byte, error) {
	for _, processor := range processors {
		skipped, processed, err := processor(direction, message)
		if skipped {
			continue
		}
		if err != nil {
			return nil, err
		}
		return processed, nil
	}
	return message, nil
}

func isNormalClosure(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}
