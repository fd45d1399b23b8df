package conn

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Manager tracks open connections by generated id, so callers can hold
// several databases open at once and address them by handle.
type Manager struct {
	mu     sync.RWMutex
	conns  map[string]*Conn
	logger *slog.Logger
}

// NewManager creates an empty connection manager. If logger is nil, a
// discard logger is used.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{conns: make(map[string]*Conn), logger: logger}
}

// Open connects with cfg, registers the connection and returns its id.
func (m *Manager) Open(ctx context.Context, cfg Config) (string, error) {
	c, err := Open(ctx, cfg, m.logger)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	m.mu.Lock()
	m.conns[id] = c
	m.mu.Unlock()

	m.logger.Debug("registered connection",
		slog.String("id", id), slog.String("dialect", cfg.Dialect))
	return id, nil
}

// Get returns the connection registered under id.
func (m *Manager) Get(id string) (*Conn, error) {
	m.mu.RLock()
	c, ok := m.conns[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no connection with id %q", id)
	}
	return c, nil
}

// Close closes and forgets the connection registered under id.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	c, ok := m.conns[id]
	delete(m.conns, id)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("no connection with id %q", id)
	}
	return c.Close()
}

// CloseAll closes every registered connection, returning the first
// error encountered.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	conns := m.conns
	m.conns = make(map[string]*Conn)
	m.mu.Unlock()

	var firstErr error
	for id, c := range conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing connection %s: %w", id, err)
		}
	}
	return firstErr
}

// IDs returns the ids of all registered connections.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.conns))
	for id := range m.conns {
		ids = append(ids, id)
	}
	return ids
}
