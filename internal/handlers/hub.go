package handlers

import (
	"context"

	"taskhub/internal/logger"
	"taskhub/internal/models"
	"taskhub/internal/service"
)

// Push channel event types (server → client).
const (
	eventTaskCreated = "task:created"
	eventTaskUpdated = "task:updated"
	eventTaskDeleted = "task:deleted"
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// deletedPayload carries only the identifier, per the task:deleted contract.
type deletedPayload struct {
	TaskID string `json:"taskId"`
}

// Hub fans task mutation events out to every connected client. There
// is no per-user scoping: every event reaches every connection. A
// client whose send queue fills up is dropped rather than allowed to
// stall the broadcast loop.
type Hub struct {
	log *logger.Logger

	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan wsEnvelope

	clients map[*wsClient]struct{}
}

// Hub implements the service broadcaster contract.
var _ service.Broadcaster = (*Hub)(nil)

const broadcastBuffer = 64

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:        log,
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan wsEnvelope, broadcastBuffer),
		clients:    make(map[*wsClient]struct{}),
	}
}

// Run owns the client registry. Stop via context cancellation in
// main() for graceful shutdown; all connections are closed on exit.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				c.closeSend()
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			if h.log != nil {
				h.log.Infow("ws_client_connected", "clients", len(h.clients))
			}
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.closeSend()
				if h.log != nil {
					h.log.Infow("ws_client_disconnected", "clients", len(h.clients))
				}
			}
		case env := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- env:
				default:
					// Slow consumer: drop it instead of blocking everyone.
					delete(h.clients, c)
					c.closeSend()
					if h.log != nil {
						h.log.Infow("ws_client_dropped_slow", "clients", len(h.clients))
					}
				}
			}
		}
	}
}

func (h *Hub) TaskCreated(t models.Task) {
	h.publish(wsEnvelope{Type: eventTaskCreated, Data: t})
}

func (h *Hub) TaskUpdated(t models.Task) {
	h.publish(wsEnvelope{Type: eventTaskUpdated, Data: t})
}

func (h *Hub) TaskDeleted(taskID string) {
	h.publish(wsEnvelope{Type: eventTaskDeleted, Data: deletedPayload{TaskID: taskID}})
}

// publish is fire-and-forget: if the hub is saturated or not running,
// the event is dropped. Clients recover state on the next list fetch.
func (h *Hub) publish(env wsEnvelope) {
	select {
	case h.broadcast <- env:
	default:
		if h.log != nil {
			h.log.Infow("ws_broadcast_dropped", "type", env.Type)
		}
	}
}
