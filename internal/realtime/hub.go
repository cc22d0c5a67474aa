package realtime

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"catalog-service/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Client represents a single WebSocket client connection.
type Client struct {
	id   string          // Stable identifier used in log lines.
	hub  *Hub            // Reference to the hub.
	conn *websocket.Conn // The WebSocket connection.
	send chan []byte     // Buffered channel of outbound JSON messages.
}

// Hub maintains the set of active clients and broadcasts catalog events
// to them.
type Hub struct {
	clients    map[*Client]bool // Registered clients.
	broadcast  chan []byte      // Inbound messages from the application (JSON bytes).
	register   chan *Client     // Register requests from clients.
	unregister chan *Client     // Unregister requests from clients.
	mu         sync.RWMutex     // For concurrent access to clients map
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run starts the hub's event loop. It must be run in a separate goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			log.Printf("Client %s registered, total clients: %d", client.id, len(h.clients))
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				log.Printf("Client %s unregistered, total clients: %d", client.id, len(h.clients))
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Don't block on a slow client; its own pumps will
					// detect the broken connection and clean up.
					log.Printf("Client %s send buffer full, dropping message.", client.id)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastJSONMessage sends a pre-marshalled JSON message to all connected
// clients. Safe for concurrent use.
func (h *Hub) BroadcastJSONMessage(jsonMessage []byte) {
	select {
	case h.broadcast <- jsonMessage:
	default:
		log.Println("Hub broadcast channel is full. Message dropped.")
	}
}

// BroadcastStockUpdate marshals and broadcasts a stock update event.
func (h *Hub) BroadcastStockUpdate(payload domain.StockUpdatePayload) {
	h.broadcastEvent(domain.StockUpdateMessageType, payload)
}

// BroadcastItemDeleted marshals and broadcasts an item-deleted event.
func (h *Hub) BroadcastItemDeleted(payload domain.ItemDeletedPayload) {
	h.broadcastEvent(domain.ItemDeletedMessageType, payload)
}

func (h *Hub) broadcastEvent(messageType string, payload any) {
	jsonBytes, err := json.Marshal(domain.WebSocketMessage{
		Type:    messageType,
		Payload: payload,
	})
	if err != nil {
		log.Printf("Error marshalling %s WebSocket message: %v", messageType, err)
		return
	}
	h.BroadcastJSONMessage(jsonBytes)
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// The hub closed the channel (client was unregistered).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Error writing message to client %s: %v", c.id, err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Assume connection is dead
			}
		}
	}
}

// readPump pumps control frames from the WebSocket connection. Clients are
// not expected to send application messages.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Unexpected WebSocket close error for client %s: %v", c.id, err)
			}
			break
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for development. Production deployments should
		// implement proper origin checking.
		return true
	},
}

// ServeWsUpgrade upgrades the HTTP connection to a WebSocket connection and
// registers the client with the hub.
func ServeWsUpgrade(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket for %s: %v", r.RemoteAddr, err)
		return
	}

	client := &Client{
		id:   uuid.NewString(),
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}
