// Package stream broadcasts per-tick scene transforms to websocket
// clients and feeds their interaction events (body selection, viewport
// resizes) back into the animation loop.
package stream

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/echoflaresat/orrery/scene"
)

// Hooks are the interaction callbacks a server invokes on behalf of
// clients. Both run on the reading goroutine of the client that sent
// the event; implementations queue into the loop where needed.
type Hooks struct {
	// Select focuses the named body. False means no such body.
	Select func(name string) bool

	// Resize applies new viewport dimensions.
	Resize func(width, height int)
}

// client wraps a connection with a write lock so broadcasts and
// per-client replies don't interleave frames.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// Server accepts websocket connections, replays the scene as create
// messages, then streams updates each time Broadcast is called.
type Server struct {
	upgrader websocket.Upgrader
	graph    *scene.Graph
	hooks    Hooks
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*client]bool
}

func NewServer(g *scene.Graph, hooks Hooks, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		graph:   g,
		hooks:   hooks,
		logger:  logger,
		clients: make(map[*client]bool),
	}
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// HandleWS upgrades the request, replays the scene, and serves the
// client until it disconnects.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("ws upgrade: %v", err)
		return
	}
	c := &client{conn: conn}

	for _, b := range s.graph.Bodies {
		if err := c.writeJSON(newCreateMessage(b)); err != nil {
			s.logger.Printf("ws create replay: %v", err)
			conn.Close()
			return
		}
	}

	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()

	s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		c.conn.Close()
	}()

	for {
		var msg InboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Printf("ws read: %v", err)
			}
			return
		}
		s.dispatch(c, msg)
	}
}

func (s *Server) dispatch(c *client, msg InboundMessage) {
	switch msg.Type {
	case MessageTypeSelect:
		if s.hooks.Select == nil {
			return
		}
		if !s.hooks.Select(msg.Name) {
			_ = c.writeJSON(InfoMessage{Type: MessageTypeInfo, Message: "unknown body: " + msg.Name})
		}
	case MessageTypeResize:
		if s.hooks.Resize != nil && msg.Width > 0 && msg.Height > 0 {
			s.hooks.Resize(msg.Width, msg.Height)
		}
	case MessageTypePing:
		_ = c.writeJSON(PongMessage{
			Type:       MessageTypePong,
			ClientTime: msg.ClientTime,
			ServerTime: serverTime(),
		})
	default:
		s.logger.Printf("ws: unknown message type %q", msg.Type)
	}
}

// Broadcast sends every body's current transform to every client.
// Clients that fail to take the write are dropped.
func (s *Server) Broadcast(tick uint64) {
	now := serverTime()
	updates := make([]UpdateMessage, 0, len(s.graph.Bodies))
	for _, b := range s.graph.Bodies {
		updates = append(updates, newUpdateMessage(b, now))
	}

	s.mu.Lock()
	conns := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		for i := range updates {
			if err := c.writeJSON(&updates[i]); err != nil {
				s.mu.Lock()
				delete(s.clients, c)
				s.mu.Unlock()
				c.conn.Close()
				break
			}
		}
	}
}
