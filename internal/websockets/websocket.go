package websockets

import (
	"strings"
	"sync"
	"time"

	"lumen/internal/events"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING        = "ping"
	MESSAGE_TYPE_PONG        = "pong"
	MESSAGE_TYPE_SUBSCRIBE   = "subscribe"
	MESSAGE_TYPE_UNSUBSCRIBE = "unsubscribe"
	MESSAGE_TYPE_SUBSCRIBED  = "subscribed"
	MESSAGE_TYPE_ERROR       = "error"
	PING_INTERVAL            = 30 * time.Second
	PONG_TIMEOUT             = 60 * time.Second
	WRITE_TIMEOUT            = 10 * time.Second
	MAX_MESSAGE_SIZE         = 64 * 1024
	SEND_CHANNEL_SIZE        = 64
	BROADCAST_CHANNEL_SIZE   = 256
	// Channels
	BROADCAST_CHANNEL = "broadcast"
	SYSTEM_CHANNEL    = "system"
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Client struct {
	ID         string
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
	channels   map[string]struct{}
	channelMu  sync.RWMutex
}

func newClient(m *Manager, conn *websocket.Conn) *Client {
	return &Client{
		ID:         uuid.New().String(),
		Connection: conn,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
		channels:   make(map[string]struct{}),
	}
}

func (c *Client) Subscribe(channel string) {
	c.channelMu.Lock()
	defer c.channelMu.Unlock()
	c.channels[channel] = struct{}{}
}

func (c *Client) Unsubscribe(channel string) {
	c.channelMu.Lock()
	defer c.channelMu.Unlock()
	delete(c.channels, channel)
}

func (c *Client) IsSubscribed(channel string) bool {
	c.channelMu.RLock()
	defer c.channelMu.RUnlock()
	_, ok := c.channels[channel]
	return ok
}

func (c *Client) Channels() []string {
	c.channelMu.RLock()
	defer c.channelMu.RUnlock()

	channels := make([]string, 0, len(c.channels))
	for channel := range c.channels {
		channels = append(channels, channel)
	}
	return channels
}

// trySend must be called with the hub read lock held.
func (c *Client) trySend(message Message) bool {
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

type Manager struct {
	hub      *Hub
	log      logger.Logger
	eventBus *events.EventBus
}

func New(eventBus *events.EventBus) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub:      newHub(),
		log:      log,
		eventBus: eventBus,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := manager.subscribeToEvents(); err != nil {
		manager.hub.stop()
		return nil, err
	}

	return manager, nil
}

func (m *Manager) Close() {
	m.hub.stop()
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := newClient(m, c)

	if bookingID := c.Query("bookingId"); bookingID != "" {
		parsed, err := uuid.Parse(bookingID)
		if err != nil {
			log.Warn("Ignoring invalid bookingId query", "clientID", client.ID, "bookingId", bookingID)
		} else {
			client.Subscribe(events.StatusUpdateTarget(parsed))
		}
	}

	if !m.register(client) {
		_ = c.Close()
		return
	}
	defer func() {
		log.Info("Client disconnected", "clientID", client.ID)
		m.unregister(client)
		_ = c.Close()
	}()

	go client.readPump()
	client.writePump()
}

func (m *Manager) register(client *Client) bool {
	select {
	case m.hub.register <- client:
		return true
	case <-m.hub.done:
		return false
	}
}

func (m *Manager) unregister(client *Client) {
	select {
	case m.hub.unregister <- client:
	case <-m.hub.done:
	}
}

// Broadcast queues a message for every connected client. When the hub queue
// is full the message is dropped.
func (m *Manager) Broadcast(message Message) {
	log := m.log.Function("Broadcast")

	select {
	case m.hub.broadcast <- message:
	default:
		log.Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}

// SendToChannel delivers a message to clients subscribed to channel and
// returns how many received it.
func (m *Manager) SendToChannel(channel string, message Message) int {
	return m.hub.sendToChannel(channel, message, m)
}

func (m *Manager) ClientCount() int {
	return m.hub.clientCount()
}

func (m *Manager) subscribeToEvents() error {
	log := m.log.Function("subscribeToEvents")

	err := m.eventBus.Subscribe(events.BROADCAST_CHANNEL, func(event events.Event) error {
		m.Broadcast(Message{
			ID:        event.ID,
			Type:      string(event.Type),
			Channel:   BROADCAST_CHANNEL,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
		return nil
	})
	if err != nil {
		return log.Err("failed to subscribe to broadcast events", err)
	}

	err = m.eventBus.Subscribe(events.SEND_CHANNEL, func(event events.Event) error {
		m.SendToChannel(event.Target, Message{
			ID:        event.ID,
			Type:      string(event.Type),
			Channel:   event.Target,
			Data:      event.Data,
			Timestamp: event.Timestamp,
		})
		return nil
	})
	if err != nil {
		return log.Err("failed to subscribe to targeted events", err)
	}

	return nil
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.unregister(c)
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		if reply, ok := c.handleMessage(message); ok {
			c.reply(reply)
		}
	}
}

// handleMessage applies a client control message and returns the reply to
// send back, if any.
func (c *Client) handleMessage(message Message) (Message, bool) {
	log := c.Manager.log.Function("handleMessage")

	reply := Message{
		ID:        uuid.New().String(),
		Channel:   SYSTEM_CHANNEL,
		Timestamp: time.Now().UTC(),
	}

	switch message.Type {
	case MESSAGE_TYPE_PING:
		reply.Type = MESSAGE_TYPE_PONG
		return reply, true

	case MESSAGE_TYPE_SUBSCRIBE, MESSAGE_TYPE_UNSUBSCRIBE:
		channel := strings.TrimSpace(message.Channel)
		if channel == "" {
			reply.Type = MESSAGE_TYPE_ERROR
			reply.Data = map[string]any{"reason": "channel is required"}
			return reply, true
		}

		if message.Type == MESSAGE_TYPE_SUBSCRIBE {
			c.Subscribe(channel)
		} else {
			c.Unsubscribe(channel)
		}
		log.Info("Client subscription changed", "clientID", c.ID, "action", message.Type, "channel", channel)

		reply.Type = MESSAGE_TYPE_SUBSCRIBED
		reply.Data = map[string]any{"channels": c.Channels()}
		return reply, true

	default:
		log.Warn("Unknown message type", "clientID", c.ID, "type", message.Type)
		return Message{}, false
	}
}

func (c *Client) reply(message Message) {
	c.Manager.hub.mutex.RLock()
	defer c.Manager.hub.mutex.RUnlock()

	if _, ok := c.Manager.hub.clients[c.ID]; !ok {
		return
	}
	c.trySend(message)
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
