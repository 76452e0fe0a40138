package ws

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// Event is one WebSocket message broadcast to a cart's room.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// cartEvent routes an event to one cart's room.
type cartEvent struct {
	CartID uuid.UUID
	Event  Event
}

// Hub maintains the set of active clients grouped by cart and broadcasts
// snapshot events to them.
type Hub struct {
	// Connected clients keyed by the cart they watch
	rooms map[uuid.UUID]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *cartEvent

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *cartEvent, 256),
	}
}

// Run pumps registrations and snapshot broadcasts until the process
// exits. The server starts it once, on its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.rooms[client.cartID] == nil {
				h.rooms[client.cartID] = make(map[*Client]bool)
			}
			h.rooms[client.cartID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.cartID]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.cartID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.Lock()
			clients := h.rooms[event.CartID]

			message, err := json.Marshal(event.Event)
			if err != nil {
				h.mu.Unlock()
				continue
			}

			for client := range clients {
				select {
				case client.send <- message:
				default:
					// Client's send buffer is full, close and unregister
					close(client.send)
					delete(h.rooms[event.CartID], client)
					if len(h.rooms[event.CartID]) == 0 {
						delete(h.rooms, event.CartID)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToCart fans an event out to every client watching the cart.
// Cart handlers call this after each successful mutation.
func (h *Hub) BroadcastToCart(cartID uuid.UUID, event Event) {
	h.broadcast <- &cartEvent{
		CartID: cartID,
		Event:  event,
	}
}
