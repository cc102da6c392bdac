// Package websocket serves the storefront's websocket endpoints: the catalog
// update feed and the assistant session stream.
package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/internal/adapter/queue"
	"github.com/seu-repo/appliance-store/internal/observability/telemetry"
)

const writeWait = 10 * time.Second

// Conn is the part of a websocket connection the endpoints use.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Hub fans catalog events out to every connected storefront.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages for every client.
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}

	mu  sync.RWMutex
	log *zap.Logger
}

type Client struct {
	hub  *Hub
	conn Conn
	// Buffered channel of outbound messages.
	send chan []byte
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client set until ctx is done, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			telemetry.CatalogSubscribers.Set(0)
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			telemetry.CatalogSubscribers.Set(float64(len(h.clients)))
			h.mu.Unlock()
		case client := <-h.unregister:
			h.drop(client)
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					h.log.Warn("Dropping slow catalog subscriber")
					delete(h.clients, client)
					close(client.send)
				}
			}
			telemetry.CatalogSubscribers.Set(float64(len(h.clients)))
			h.mu.Unlock()
		}
	}
}

func (h *Hub) drop(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	telemetry.CatalogSubscribers.Set(float64(len(h.clients)))
}

// Broadcast queues message for every client. It is a no-op once the hub stopped.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve registers conn and blocks until the client goes away.
func (h *Hub) Serve(conn Conn) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	written := make(chan struct{})
	go func() {
		defer close(written)
		client.writePump()
	}()
	client.readPump()

	select {
	case h.unregister <- client:
	case <-h.done:
	}
	<-written
}

// SubscribeCatalog forwards catalog events from the bus to the hub.
func SubscribeCatalog(mq queue.MessageQueue, h *Hub) error {
	return mq.Subscribe(queue.SubjectCatalogUpdated, func(data []byte) error {
		h.Broadcast(data)
		return nil
	})
}

func (c *Client) readPump() {
	for {
		// The feed is push only; reading keeps control frames flowing.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			c.conn.Close()
			// Closing unblocks readPump, which unregisters and ends send.
			for range c.send {
			}
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
}
