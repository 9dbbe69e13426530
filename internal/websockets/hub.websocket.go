package websockets

import (
	"sync"

	"lumen/internal/metrics"
)

type Hub struct {
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
	done       chan struct{}
	closeOnce  sync.Once
}

func newHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, BROADCAST_CHANNEL_SIZE),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message, m)

		case <-h.done:
			return
		}
	}
}

func (h *Hub) stop() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (m *Manager) registerClient(client *Client) {
	log := m.log.Function("registerClient")

	m.hub.mutex.Lock()
	m.hub.clients[client.ID] = client
	count := len(m.hub.clients)
	m.hub.mutex.Unlock()

	metrics.WebSocketClients.Set(float64(count))
	log.Info("Client registered", "clientID", client.ID, "channels", client.Channels())
}

// unregisterClient is safe to call more than once for the same client; the
// send channel is closed only on the first call.
func (m *Manager) unregisterClient(client *Client) {
	log := m.log.Function("unregisterClient")

	m.hub.mutex.Lock()
	if _, ok := m.hub.clients[client.ID]; !ok {
		m.hub.mutex.Unlock()
		return
	}
	delete(m.hub.clients, client.ID)
	close(client.send)
	count := len(m.hub.clients)
	m.hub.mutex.Unlock()

	metrics.WebSocketClients.Set(float64(count))
	log.Info("Client unregistered", "clientID", client.ID)
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	log := m.log.Function("broadcastMessage")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if len(h.clients) == 0 {
		log.Debug("No active clients to broadcast to", "messageID", message.ID)
		return
	}

	sentCount := 0
	for _, client := range h.clients {
		if client.trySend(message) {
			sentCount++
		} else {
			log.Warn("Client send buffer full, dropping message", "clientID", client.ID)
		}
	}

	log.Info(
		"Broadcast complete",
		"messageID", message.ID,
		"messageType", message.Type,
		"sentTo", sentCount,
		"totalClients", len(h.clients),
	)
}

func (h *Hub) sendToChannel(channel string, message Message, m *Manager) int {
	log := m.log.Function("sendToChannel")

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	sentCount := 0
	for _, client := range h.clients {
		if !client.IsSubscribed(channel) {
			continue
		}
		if client.trySend(message) {
			sentCount++
		} else {
			log.Warn("Client send buffer full, dropping message", "clientID", client.ID)
		}
	}

	log.Info("Targeted send complete", "channel", channel, "messageID", message.ID, "sentTo", sentCount)
	return sentCount
}

func (h *Hub) clientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}
