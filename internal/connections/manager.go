package connections

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// TimeoutConfig holds the keep-alive settings for proxied websocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

var DefaultTimeouts = TimeoutConfig{
	PongWait:   60 * time.Second,
	PingPeriod: 54 * time.Second,
	WriteWait:  10 * time.Second,
}

// Manager tracks live websocket connections so they can be counted
type Manager struct {
	mu          sync.RWMutex
	connections map[*websocket.Conn]time.Time
	timeouts    TimeoutConfig
}

func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		connections: make(map[*websocket.Conn]time.Time),
		timeouts:    normalize(timeouts),
	}
}

// normalize fills unset values from DefaultTimeouts and keeps pings inside the pong window
func normalize(t TimeoutConfig) TimeoutConfig {
	if t.PongWait <= 0 {
		t.PongWait = DefaultTimeouts.PongWait
	}
	if t.WriteWait <= 0 {
		t.WriteWait = DefaultTimeouts.WriteWait
	}
	if t.PingPeriod <= 0 || t.PingPeriod >= t.PongWait {
		t.PingPeriod = (t.PongWait * 9) / 10
	}
	return t
}

func (m *Manager) AddConnection(conn *websocket.Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connections[conn] = time.Now()
}

// RemoveConnection forgets conn and returns how long it was tracked
func (m *Manager) RemoveConnection(conn *websocket.Conn) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	since, ok := m.connections[conn]
	if !ok {
		return 0
	}
	delete(m.connections, conn)
	return time.Since(since)
}

func (m *Manager) GetConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.connections)
}

func (m *Manager) HasConnection(conn *websocket.Conn) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.connections[conn]
	return exists
}

func (m *Manager) GetTimeouts() TimeoutConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timeouts
}

func (m *Manager) SetTimeouts(timeouts TimeoutConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeouts = normalize(timeouts)
}
