package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fractalmind-ai/wordtok/internal/config"
	"github.com/fractalmind-ai/wordtok/internal/session"
	"github.com/fractalmind-ai/wordtok/internal/tokenizer"
	"github.com/gorilla/websocket"
)

const (
	readLimit  = 1 << 20
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	writeWait  = 10 * time.Second
)

// Server represents the gateway WebSocket server
type Server struct {
	config         *config.Config
	upgrader       websocket.Upgrader
	clients        map[string]*Client
	clientsMutex   sync.RWMutex
	httpServer     *http.Server
	sessionManager *session.Manager
	startTime      time.Time
}

// NewServer creates a new gateway server
func NewServer(cfg *config.Config) (*Server, error) {
	if cfg.Gateway == nil {
		return nil, fmt.Errorf("gateway config is required")
	}

	sessionManager := session.NewManager(cfg.Tokenizer)

	// Fail early on extra tokens the tokenizer would reject.
	if _, err := sessionManager.NewTokenizer(); err != nil {
		return nil, fmt.Errorf("invalid tokenizer config: %w", err)
	}

	return &Server{
		config: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     buildOriginChecker(cfg.Gateway.AllowedOrigins),
		},
		clients:        make(map[string]*Client),
		sessionManager: sessionManager,
	}, nil
}

// Handler returns the HTTP routes served by the gateway.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// WebSocket endpoint
	mux.HandleFunc("/ws", s.handleWebSocket)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	return mux
}

// Start starts the gateway server and blocks until ctx is done
func (s *Server) Start(ctx context.Context) error {
	if s.startTime.IsZero() {
		s.startTime = time.Now()
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.config.Gateway.Bind, s.config.Gateway.Port),
		Handler:           s.Handler(),
		ErrorLog:          log.New(os.Stderr, "HTTP: ", log.LstdFlags),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🌐 HTTP server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// Stop gracefully shuts down the server
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Disconnect all clients
	clients := s.snapshotClients()
	for _, client := range clients {
		client.Close()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	return nil
}

func buildOriginChecker(allowed []string) func(*http.Request) bool {
	configured := len(allowed) > 0
	allowedSet := make(map[string]struct{})
	for _, origin := range allowed {
		normalized, ok := normalizeOrigin(origin)
		if !ok {
			continue
		}
		allowedSet[normalized] = struct{}{}
	}

	return func(r *http.Request) bool {
		if !configured {
			return true
		}
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			return false
		}
		normalized, ok := normalizeOrigin(origin)
		if !ok {
			return false
		}
		_, ok = allowedSet[normalized]
		return ok
	}
}

func normalizeOrigin(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return fmt.Sprintf("%s://%s", strings.ToLower(parsed.Scheme), strings.ToLower(parsed.Host)), true
}

// handleWebSocket handles incoming WebSocket connections
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	sessionID := r.URL.Query().Get("session")
	clientID := generateClientID()
	if sessionID == "" {
		sessionID = clientID
	}

	tk, err := s.sessionManager.Acquire(sessionID)
	if err != nil {
		log.Printf("Session setup failed [%s]: %v", sessionID, err)
		_ = conn.Close()
		return
	}

	client := NewClient(clientID, sessionID, conn, s, tk)

	s.clientsMutex.Lock()
	s.clients[clientID] = client
	s.clientsMutex.Unlock()

	log.Printf("🔌 Client connected: %s (session %s)", clientID, sessionID)

	// Handle client messages
	go client.Handle()
	go client.keepAlive()
}

var clientSeq atomic.Uint64

// generateClientID generates a unique client ID
func generateClientID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), clientSeq.Add(1))
}

// GetSessionManager returns the session manager
func (s *Server) GetSessionManager() *session.Manager {
	return s.sessionManager
}

type statusResponse struct {
	Status        string           `json:"status"`
	ActiveClients int              `json:"active_clients"`
	Sessions      int              `json:"sessions"`
	Uptime        string           `json:"uptime"`
	Tokenizer     *tokenizerStatus `json:"tokenizer"`
}

type tokenizerStatus struct {
	UnknownOffset int      `json:"unknown_offset"`
	SeedSize      int      `json:"seed_size"`
	ExtraTokens   []string `json:"extra_tokens,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	uptime := time.Duration(0)
	if !s.startTime.IsZero() {
		uptime = time.Since(s.startTime)
	}

	resp := statusResponse{
		Status:        "ok",
		ActiveClients: s.activeClients(),
		Sessions:      s.sessionManager.Count(),
		Uptime:        uptime.String(),
		Tokenizer:     s.tokenizerStatus(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) tokenizerStatus() *tokenizerStatus {
	status := &tokenizerStatus{
		UnknownOffset: tokenizer.UnknownOffset,
		SeedSize:      tokenizer.SeedSize(),
	}
	if s.config != nil && s.config.Tokenizer != nil && len(s.config.Tokenizer.ExtraTokens) > 0 {
		status.ExtraTokens = append([]string{}, s.config.Tokenizer.ExtraTokens...)
	}
	return status
}

func (s *Server) activeClients() int {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()
	return len(s.clients)
}

func (s *Server) snapshotClients() []*Client {
	s.clientsMutex.RLock()
	defer s.clientsMutex.RUnlock()

	clients := make([]*Client, 0, len(s.clients))
	for _, client := range s.clients {
		clients = append(clients, client)
	}
	return clients
}

func (s *Server) removeClient(c *Client) {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()

	// Release under the lock so activeClients never reports a client whose
	// session is still held.
	if _, ok := s.clients[c.ID]; ok {
		delete(s.clients, c.ID)
		s.sessionManager.Release(c.SessionID)
	}
}
