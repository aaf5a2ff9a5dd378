package live

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is a live feed connection bound to one session.
type Client struct {
	ID        string
	SessionID string
	Conn      Conn
}

// Hub fans store events out to the clients of each session.
type Hub struct {
	clients    map[string]*Client         // clientID -> Client
	sessions   map[string]map[string]bool // sessionID -> set of clientIDs
	register   chan *Client
	unregister chan *Client
	broadcast  chan *outbound
	done       chan struct{}
	mu         sync.RWMutex
}

type outbound struct {
	sessionID string
	msg       Message
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		sessions:   make(map[string]map[string]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *outbound, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Println("[live] Hub shutting down...")
			h.closeAllClients()
			close(h.done)
			return
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case out := <-h.broadcast:
			h.handleBroadcast(out)
		}
	}
}

// Wait blocks until the hub has stopped.
func (h *Hub) Wait() {
	<-h.done
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		_ = client.Conn.Close()
	}
	h.clients = make(map[string]*Client)
	h.sessions = make(map[string]map[string]bool)
}

func (h *Hub) handleRegister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	if h.sessions[client.SessionID] == nil {
		h.sessions[client.SessionID] = make(map[string]bool)
	}
	h.sessions[client.SessionID][client.ID] = true
	log.Printf("[live] Client %s registered for session %s", client.ID, client.SessionID)
}

func (h *Hub) handleUnregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	if ids := h.sessions[client.SessionID]; ids != nil {
		delete(ids, client.ID)
		if len(ids) == 0 {
			delete(h.sessions, client.SessionID)
		}
	}
	log.Printf("[live] Client %s unregistered", client.ID)
}

func (h *Hub) handleBroadcast(out *outbound) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(out.msg)
	if err != nil {
		log.Printf("[live] Failed to marshal %s message: %v", out.msg.Type, err)
		return
	}

	if out.sessionID == "" {
		for _, client := range h.clients {
			h.sendToClient(client, data)
		}
		return
	}
	for clientID := range h.sessions[out.sessionID] {
		if client, ok := h.clients[clientID]; ok {
			h.sendToClient(client, data)
		}
	}
}

func (h *Hub) sendToClient(client *Client, data []byte) {
	if err := client.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Printf("[live] Failed to send to client %s: %v", client.ID, err)
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues msg for the clients of sessionID, or for every client
// when sessionID is empty. Messages published after shutdown are dropped.
func (h *Hub) Publish(sessionID string, msg Message) {
	select {
	case h.broadcast <- &outbound{sessionID: sessionID, msg: msg}:
	case <-h.done:
	}
}

// ClientCount returns the total number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SessionClientCount returns the number of clients of one session.
func (h *Hub) SessionClientCount(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}
