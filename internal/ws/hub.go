package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"

	"github.com/brightekpe/artisanhub-backend/internal/logger"
	"github.com/brightekpe/artisanhub-backend/internal/models"
)

// Hub fans stored notifications out to the recipient's live websocket
// connections. A user may hold several connections (phone plus browser);
// all of them receive every push.
type Hub struct {
	mu         sync.RWMutex
	clients    map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	done       chan struct{}
}

type envelope struct {
	userID  uuid.UUID
	payload []byte
}

// NewHub creates an idle hub; call Run to start it.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 32),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop. It returns when Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.userID, msg.payload)
		case <-h.done:
			return
		}
	}
}

// Stop terminates the main loop.
func (h *Hub) Stop() {
	close(h.done)
}

// Register adds a connection.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a connection.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Push delivers an already-stored notification to the recipient's live
// connections. Delivery is best-effort: with no connection the message
// is simply dropped, the stored copy remains the source of truth.
func (h *Hub) Push(userID uuid.UUID, n *models.Notification) {
	raw, err := json.Marshal(map[string]any{
		"type": "notification",
		"data": n,
	})
	if err != nil {
		logger.Log.WithError(err).Warn("ws: marshal notification")
		return
	}

	select {
	case h.broadcast <- envelope{userID: userID, payload: raw}:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) send(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			// Slow consumer; drop the connection rather than the hub.
			go client.Close()
		}
	}
}
