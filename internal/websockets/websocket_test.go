package websockets

import (
	"testing"
	"time"

	"lumen/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*Manager, *events.EventBus) {
	t.Helper()

	bus := events.New(nil)
	manager, err := New(bus)
	require.NoError(t, err)

	t.Cleanup(func() {
		manager.Close()
		_ = bus.Close()
	})

	return manager, bus
}

func connectClient(t *testing.T, m *Manager, channels ...string) *Client {
	t.Helper()

	client := newClient(m, nil)
	for _, channel := range channels {
		client.Subscribe(channel)
	}

	before := m.ClientCount()
	require.True(t, m.register(client))
	require.Eventually(t, func() bool { return m.ClientCount() == before+1 }, time.Second, 5*time.Millisecond)

	return client
}

func receive(t *testing.T, client *Client) (Message, bool) {
	t.Helper()

	select {
	case message, ok := <-client.send:
		return message, ok
	case <-time.After(200 * time.Millisecond):
		return Message{}, false
	}
}

func TestManager_BroadcastReachesAllClients(t *testing.T) {
	manager, bus := newTestManager(t)

	first := connectClient(t, manager)
	second := connectClient(t, manager)

	require.NoError(t, bus.Broadcast(events.NEW_BOOKING, map[string]any{"guestName": "Ada"}))

	for _, client := range []*Client{first, second} {
		message, ok := receive(t, client)
		require.True(t, ok)
		assert.Equal(t, "new-booking", message.Type)
		assert.Equal(t, BROADCAST_CHANNEL, message.Channel)
		assert.Equal(t, "Ada", message.Data["guestName"])
	}
}

func TestManager_StatusUpdateReachesOnlyBookingChannel(t *testing.T) {
	manager, bus := newTestManager(t)

	bookingID := uuid.New()
	target := events.StatusUpdateTarget(bookingID)

	subscribed := connectClient(t, manager, target)
	other := connectClient(t, manager, events.StatusUpdateTarget(uuid.New()))
	unsubscribed := connectClient(t, manager)

	require.NoError(t, bus.SendTo(target, events.STATUS_UPDATE, map[string]any{"status": "ON_WAY"}))

	message, ok := receive(t, subscribed)
	require.True(t, ok)
	assert.Equal(t, "status-update", message.Type)
	assert.Equal(t, target, message.Channel)
	assert.Equal(t, "ON_WAY", message.Data["status"])

	_, ok = receive(t, other)
	assert.False(t, ok)
	_, ok = receive(t, unsubscribed)
	assert.False(t, ok)
}

func TestManager_UnregisterIsIdempotent(t *testing.T) {
	manager, _ := newTestManager(t)

	client := connectClient(t, manager)

	manager.unregisterClient(client)
	assert.NotPanics(t, func() { manager.unregisterClient(client) })
	assert.Equal(t, 0, manager.ClientCount())

	_, ok := <-client.send
	assert.False(t, ok)
}

func TestManager_FullBufferDropsMessage(t *testing.T) {
	manager, _ := newTestManager(t)

	channel := "status-update:full"
	client := connectClient(t, manager, channel)

	for i := 0; i < SEND_CHANNEL_SIZE; i++ {
		assert.Equal(t, 1, manager.SendToChannel(channel, Message{ID: "fill"}))
	}

	assert.Equal(t, 0, manager.SendToChannel(channel, Message{ID: "dropped"}))
	assert.Len(t, client.send, SEND_CHANNEL_SIZE)
}

func TestClient_HandleMessage(t *testing.T) {
	manager, _ := newTestManager(t)

	tests := []struct {
		name          string
		message       Message
		expectReply   bool
		expectedType  string
		expectChannel string
		subscribed    bool
	}{
		{
			name:         "ping",
			message:      Message{Type: MESSAGE_TYPE_PING},
			expectReply:  true,
			expectedType: MESSAGE_TYPE_PONG,
		},
		{
			name:          "subscribe",
			message:       Message{Type: MESSAGE_TYPE_SUBSCRIBE, Channel: " status-update:abc "},
			expectReply:   true,
			expectedType:  MESSAGE_TYPE_SUBSCRIBED,
			expectChannel: "status-update:abc",
			subscribed:    true,
		},
		{
			name:         "subscribe without channel",
			message:      Message{Type: MESSAGE_TYPE_SUBSCRIBE},
			expectReply:  true,
			expectedType: MESSAGE_TYPE_ERROR,
		},
		{
			name:        "unknown type",
			message:     Message{Type: "dance"},
			expectReply: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(manager, nil)

			reply, ok := client.handleMessage(tt.message)

			assert.Equal(t, tt.expectReply, ok)
			if tt.expectReply {
				assert.Equal(t, tt.expectedType, reply.Type)
				assert.Equal(t, SYSTEM_CHANNEL, reply.Channel)
			}
			if tt.expectChannel != "" {
				assert.Equal(t, tt.subscribed, client.IsSubscribed(tt.expectChannel))
			}
		})
	}
}

func TestClient_Unsubscribe(t *testing.T) {
	manager, _ := newTestManager(t)

	client := newClient(manager, nil)
	client.Subscribe("status-update:abc")

	_, ok := client.handleMessage(Message{Type: MESSAGE_TYPE_UNSUBSCRIBE, Channel: "status-update:abc"})

	assert.True(t, ok)
	assert.False(t, client.IsSubscribed("status-update:abc"))
	assert.Empty(t, client.Channels())
}
