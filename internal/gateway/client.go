package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fractalmind-ai/wordtok/internal/tokenizer"
	"github.com/fractalmind-ai/wordtok/pkg/protocol"
	"github.com/gorilla/websocket"
)

// Client represents a connected WebSocket client
type Client struct {
	ID        string
	SessionID string
	Conn      *websocket.Conn
	Server    *Server
	tokenizer *tokenizer.Tokenizer
	sendLock  sync.Mutex
	closeOnce sync.Once
	closeChan chan struct{}
}

// NewClient creates a new client bound to a session tokenizer
func NewClient(id, sessionID string, conn *websocket.Conn, server *Server, tk *tokenizer.Tokenizer) *Client {
	return &Client{
		ID:        id,
		SessionID: sessionID,
		Conn:      conn,
		Server:    server,
		tokenizer: tk,
		closeChan: make(chan struct{}),
	}
}

// Handle processes incoming messages from client
func (c *Client) Handle() {
	defer c.Close()

	for {
		select {
		case <-c.closeChan:
			return

		default:
			var msg protocol.Message
			if err := c.Conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Printf("WebSocket error [%s]: %v", c.ID, err)
				}
				return
			}

			c.ProcessMessage(&msg)
		}
	}
}

// keepAlive pings the peer until the client closes.
func (c *Client) keepAlive() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.closeChan:
			return
		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.Close()
				return
			}
		}
	}
}

// ProcessMessage handles incoming message based on type
func (c *Client) ProcessMessage(msg *protocol.Message) {
	if msg == nil {
		return
	}

	var (
		data interface{}
		err  error
	)

	switch msg.Kind {
	case protocol.MessageKindTokenizer:
		data, err = c.handleTokenizerMessage(msg)
	case protocol.MessageKindSession:
		data, err = c.handleSessionMessage(msg)
	case protocol.MessageKindEvent:
		data, err = c.handleEventMessage(msg)
	default:
		err = fmt.Errorf("unknown message kind: %q", msg.Kind)
	}

	resp := protocol.Message{
		Kind:   msg.Kind,
		Action: msg.Action,
		Data:   data,
	}
	if err != nil {
		log.Printf("Request failed [%s] %s/%s: %v", c.ID, msg.Kind, msg.Action, err)
		resp.Data = nil
		resp.Error = err.Error()
	}

	if err := c.Send(&resp); err != nil {
		log.Printf("Send error [%s]: %v", c.ID, err)
	}
}

// handleEventMessage processes event messages.
func (c *Client) handleEventMessage(msg *protocol.Message) (interface{}, error) {
	switch msg.Action {
	case protocol.ActionEcho:
		return msg.Data, nil
	default:
		return nil, fmt.Errorf("unknown event action: %q", msg.Action)
	}
}

// handleSessionMessage processes session-related messages.
func (c *Client) handleSessionMessage(msg *protocol.Message) (interface{}, error) {
	switch msg.Action {
	case protocol.ActionList:
		return c.Server.GetSessionManager().List(), nil
	default:
		return nil, fmt.Errorf("unknown session action: %q", msg.Action)
	}
}

// handleTokenizerMessage runs a tokenizer operation against the session tokenizer.
func (c *Client) handleTokenizerMessage(msg *protocol.Message) (interface{}, error) {
	tk := c.tokenizer

	switch msg.Action {
	case protocol.ActionEncode:
		var req protocol.EncodeRequest
		if err := decodeData(msg.Data, &req); err != nil {
			return nil, err
		}
		ids, err := tk.Encode(req.Text)
		if err != nil {
			return nil, err
		}
		return protocol.EncodeResult{Tokens: ids}, nil

	case protocol.ActionCount:
		var req protocol.EncodeRequest
		if err := decodeData(msg.Data, &req); err != nil {
			return nil, err
		}
		n, err := tokenizer.Counter{Encoder: tk}.Count(req.Text)
		if err != nil {
			return nil, err
		}
		return protocol.CountResult{Count: n.Total(), Words: n.Words, Runes: n.Runes}, nil

	case protocol.ActionDecode:
		var raw struct {
			Tokens json.RawMessage `json:"tokens"`
		}
		if err := decodeData(msg.Data, &raw); err != nil {
			return nil, err
		}
		trimmed := bytes.TrimSpace(raw.Tokens)
		if len(trimmed) == 0 || trimmed[0] != '[' {
			return nil, fmt.Errorf("decode: tokens must be an array of integers: %w", tokenizer.ErrInvalidInput)
		}
		var req protocol.DecodeRequest
		if err := json.Unmarshal(trimmed, &req.Tokens); err != nil {
			return nil, fmt.Errorf("decode: tokens must be an array of integers: %w", tokenizer.ErrInvalidInput)
		}
		text, err := tk.Decode(req.Tokens)
		if err != nil {
			return nil, err
		}
		return protocol.DecodeResult{Text: text}, nil

	case protocol.ActionAdd:
		var req protocol.TokenRequest
		if err := decodeData(msg.Data, &req); err != nil {
			return nil, err
		}
		if err := tk.AddToken(req.Token); err != nil {
			return nil, err
		}
		return protocol.SizeResult{VocabularySize: tk.VocabularySize()}, nil

	case protocol.ActionHas:
		var req protocol.TokenRequest
		if err := decodeData(msg.Data, &req); err != nil {
			return nil, err
		}
		return protocol.HasResult{Token: req.Token, Present: tk.HasToken(req.Token)}, nil

	case protocol.ActionSize:
		return protocol.SizeResult{VocabularySize: tk.VocabularySize()}, nil

	case protocol.ActionVocabulary:
		return protocol.VocabularyResult{Words: tk.Words()}, nil

	default:
		return nil, fmt.Errorf("unknown tokenizer action: %q", msg.Action)
	}
}

// decodeData converts a generic message payload into v.
func decodeData(data interface{}, v interface{}) error {
	if data == nil {
		return fmt.Errorf("missing data: %w", tokenizer.ErrInvalidInput)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("malformed data: %w", tokenizer.ErrInvalidInput)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("field %q has wrong type: %w", typeErr.Field, tokenizer.ErrInvalidInput)
		}
		return fmt.Errorf("malformed data: %w", tokenizer.ErrInvalidInput)
	}
	return nil
}

// Send sends a message to client
func (c *Client) Send(msg *protocol.Message) error {
	c.sendLock.Lock()
	defer c.sendLock.Unlock()

	_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.Conn.WriteJSON(msg)
}

// Close closes the client connection
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closeChan)
		c.Conn.Close()
		if c.Server != nil {
			c.Server.removeClient(c)
		}
		log.Printf("🔌 Client disconnected: %s", c.ID)
	})
}
