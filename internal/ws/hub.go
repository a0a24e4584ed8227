package ws

import (
	"context"
	"sync"

	"jobboard-admin/internal/metrics"

	"github.com/sirupsen/logrus"
)

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mutex      sync.RWMutex
	logger     *logrus.Logger

	// last holds the newest message per event type, replayed to new clients.
	last map[string][]byte
}

func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		logger:     logger,
		last:       make(map[string][]byte),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done,
// then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mutex.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			metrics.WSClients.Set(0)
			return

		case client := <-h.register:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			h.clients[client] = true
			total := len(h.clients)
			replay := make([][]byte, 0, len(h.last))
			for _, msg := range h.last {
				replay = append(replay, msg)
			}
			h.mutex.Unlock()
			for _, msg := range replay {
				select {
				case client.send <- msg:
				default:
				}
			}
			metrics.WSClients.Set(float64(total))
			h.logger.WithField("total_clients", total).Info("[WS] connected")

		case client := <-h.unregister:
			if client == nil {
				continue
			}
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mutex.Unlock()
			metrics.WSClients.Set(float64(total))
			h.logger.WithField("total_clients", total).Info("[WS] disconnected")

		case message := <-h.broadcast:
			h.mutex.RLock()
			clientsSnapshot := make([]*Client, 0, len(h.clients))
			for c := range h.clients {
				clientsSnapshot = append(clientsSnapshot, c)
			}
			h.mutex.RUnlock()

			for _, client := range clientsSnapshot {
				select {
				case client.send <- message:
				default:
					h.drop(client)
				}
			}
			h.logger.WithField("clients", len(clientsSnapshot)).Debug("[WS] broadcast")
		}
	}
}

// drop disconnects a client whose send buffer is full.
func (h *Hub) drop(client *Client) {
	h.mutex.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.mutex.Unlock()
	metrics.WSClients.Set(float64(total))
	h.logger.WithField("total_clients", total).Warn("[WS] slow client dropped")
}

func (h *Hub) Register(client *Client) {
	if h == nil {
		return
	}
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	if h == nil {
		return
	}
	h.unregister <- client
}

// Broadcast queues message for every client and remembers it as the latest of
// its kind.
func (h *Hub) Broadcast(kind string, message []byte) {
	if h == nil {
		return
	}
	h.mutex.Lock()
	h.last[kind] = message
	h.mutex.Unlock()

	select {
	case h.broadcast <- message:
	default:
		h.logger.WithField("reason", "buffer_full").Warn("[WS] broadcast dropped")
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
