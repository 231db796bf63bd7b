package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/paradoxdash/internal/telemetry"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 8
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub fans redraw messages out to connected browsers.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// NewHub returns an empty hub. logger and m may be nil.
func NewHub(logger *zap.Logger, m *telemetry.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*client),
		logger:  logger,
		metrics: m,
	}
}

// Serve upgrades the request, sends initial and then streams broadcasts
// until the client goes away. It blocks for the life of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, initial []byte) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade", zap.Error(err))
		return
	}

	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	if initial != nil {
		c.send <- initial
	}
	h.register(c)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(c)
	}()

	// Incoming messages are ignored; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read", zap.String("client", c.id), zap.Error(err))
			}
			break
		}
	}

	h.unregister(c)
	<-done
	conn.Close()
}

func (h *Hub) writeLoop(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.logger.Debug("websocket write", zap.String("client", c.id), zap.Error(err))
			c.conn.Close()
			// Drain until unregister closes the channel.
			for range c.send {
			}
			return
		}
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetLiveClients(n)
	h.logger.Debug("live client connected", zap.String("client", c.id), zap.Int("clients", n))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c.id)
	close(c.send)
	n := len(h.clients)
	h.mu.Unlock()

	h.metrics.SetLiveClients(n)
	h.logger.Debug("live client disconnected", zap.String("client", c.id), zap.Int("clients", n))
}

// Broadcast queues msg for every client. A client whose buffer is full is
// disconnected rather than allowed to stall the others.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("live client too slow, closing", zap.String("client", c.id))
			c.conn.Close()
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		c.conn.Close()
	}
}
