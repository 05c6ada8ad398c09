package session

import (
	"fmt"
	"sort"
	"sync"

	"github.com/fractalmind-ai/wordtok/internal/config"
	"github.com/fractalmind-ai/wordtok/internal/tokenizer"
	"github.com/fractalmind-ai/wordtok/pkg/protocol"
)

type entry struct {
	tokenizer *tokenizer.Tokenizer
	clients   int
}

// Manager owns one tokenizer per session. A session's tokenizer lives while
// at least one client holds it.
type Manager struct {
	config   *config.TokenizerConfig
	mu       sync.RWMutex
	sessions map[string]*entry
}

// NewManager creates a new session manager.
func NewManager(cfg *config.TokenizerConfig) *Manager {
	return &Manager{
		config:   cfg,
		sessions: make(map[string]*entry),
	}
}

// NewTokenizer builds a tokenizer with the configured extra tokens registered.
func (m *Manager) NewTokenizer() (*tokenizer.Tokenizer, error) {
	tk := tokenizer.New()
	if m.config == nil {
		return tk, nil
	}
	for i, token := range m.config.ExtraTokens {
		if err := tk.AddToken(token); err != nil {
			return nil, fmt.Errorf("extra token %d: %w", i, err)
		}
	}
	return tk, nil
}

// Acquire returns the tokenizer for id, creating it on first use.
func (m *Manager) Acquire(id string) (*tokenizer.Tokenizer, error) {
	if id == "" {
		return nil, fmt.Errorf("session id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.sessions[id]; ok {
		e.clients++
		return e.tokenizer, nil
	}

	tk, err := m.NewTokenizer()
	if err != nil {
		return nil, err
	}
	m.sessions[id] = &entry{tokenizer: tk, clients: 1}
	return tk, nil
}

// Release drops one client from id and discards the tokenizer once no
// clients remain.
func (m *Manager) Release(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return
	}
	e.clients--
	if e.clients <= 0 {
		delete(m.sessions, id)
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// List returns live sessions ordered by id.
func (m *Manager) List() []protocol.SessionInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sessions := make([]protocol.SessionInfo, 0, len(m.sessions))
	for id, e := range m.sessions {
		sessions = append(sessions, protocol.SessionInfo{
			ID:             id,
			Clients:        e.clients,
			VocabularySize: e.tokenizer.VocabularySize(),
		})
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions
}
