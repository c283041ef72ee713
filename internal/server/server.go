package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/muurk/hublink/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Per-client send queue; slow clients that fall this far behind
	// are disconnected
	sendQueueSize = 16
)

// Server pushes device status snapshots to WebSocket subscribers.
//
// Subscribers connect to /ws and receive one JSON StatusMessage per
// status poll, starting with the most recent snapshot if one exists.
// The server never reads application messages from clients.
type Server struct {
	addr     string
	httpSrv  *http.Server
	listener net.Listener
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte // most recent snapshot, replayed to new subscribers

	wg sync.WaitGroup
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a status server listening on addr (e.g. ":8080").
func New(addr string) *Server {
	s := &Server{
		addr:    addr,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Local-network tool; subscribers are curl, dashboards
			// and the monitor UI
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", s.handleHealth)
	s.httpSrv = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving. It returns once the listener is bound; the
// accept loop runs in the background until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	logging.Info("Status server listening",
		zap.String("addr", ln.Addr().String()),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Status server stopped", zap.Error(err))
		}
	}()
	return nil
}

// Addr returns the bound listen address, useful when addr was ":0".
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting subscribers and closes the existing ones.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)

	s.mu.Lock()
	for c := range s.clients {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		logging.Warn("Status server shutdown timeout, forcing close")
	}
	return err
}

// Broadcast pushes one snapshot to every connected subscriber. Clients
// whose send queue is full are dropped.
func (s *Server) Broadcast(msg StatusMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		logging.Error("Failed to marshal status snapshot", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.last = data
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			logging.Warn("Dropping slow status subscriber",
				zap.String("remote_addr", c.conn.RemoteAddr().String()),
			)
			close(c.send)
			delete(s.clients, c)
		}
	}
	s.mu.Unlock()
}

// ClientCount returns the number of connected subscribers.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"ok":true,"subscribers":%d}`+"\n", s.ClientCount())
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	remoteAddr := conn.RemoteAddr().String()
	logging.LogConnection(remoteAddr, "subscriber_connected")

	c := &client{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}

	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.last != nil {
		c.send <- s.last
	}
	s.mu.Unlock()

	s.wg.Add(2)
	go s.writePump(c)
	go s.readPump(c)
}

// writePump owns all writes on one subscriber connection.
func (s *Server) writePump(c *client) {
	defer s.wg.Done()
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards anything the subscriber sends and detects the
// connection closing.
func (s *Server) readPump(c *client) {
	defer s.wg.Done()
	defer s.unregister(c)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	c.conn.SetReadLimit(512)

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) unregister(c *client) {
	remoteAddr := c.conn.RemoteAddr().String()

	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		close(c.send)
		delete(s.clients, c)
	}
	s.mu.Unlock()

	_ = c.conn.Close()
	logging.LogConnection(remoteAddr, "subscriber_disconnected")
}
