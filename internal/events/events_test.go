package events

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	mu     sync.Mutex
	events []Event
}

func (r *received) handler(event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *received) snapshot() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func TestEventBus_BroadcastLocal(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	var got received
	require.NoError(t, bus.Subscribe(BROADCAST_CHANNEL, got.handler))

	require.NoError(t, bus.Broadcast(NEW_BOOKING, map[string]any{"guestName": "Ada"}))

	assert.Eventually(t, func() bool { return len(got.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	event := got.snapshot()[0]
	assert.Equal(t, NEW_BOOKING, event.Type)
	assert.Equal(t, BROADCAST_CHANNEL, event.Channel)
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, "Ada", event.Data["guestName"])
}

func TestEventBus_SendToCarriesTarget(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	var broadcast, send received
	require.NoError(t, bus.Subscribe(BROADCAST_CHANNEL, broadcast.handler))
	require.NoError(t, bus.Subscribe(SEND_CHANNEL, send.handler))

	target := StatusUpdateTarget(uuid.MustParse("0190b6a4-6f1e-7c3a-9a55-3c1f2d7e8b90"))
	require.NoError(t, bus.SendTo(target, STATUS_UPDATE, map[string]any{"status": "ON_WAY"}))

	assert.Eventually(t, func() bool { return len(send.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "status-update:0190b6a4-6f1e-7c3a-9a55-3c1f2d7e8b90", send.snapshot()[0].Target)

	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, broadcast.snapshot())
}

func TestEventBus_PublishWithoutSubscribers(t *testing.T) {
	var publisher Publisher = New(nil)
	defer publisher.(*EventBus).Close()

	assert.NoError(t, publisher.Broadcast(NEW_BOOKING, map[string]any{"guestName": "Ada"}))
	assert.NoError(t, publisher.SendTo("status-update:room-7", STATUS_UPDATE, nil))
}

func TestEventBus_SendToRequiresTarget(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	assert.Error(t, bus.SendTo("", STATUS_UPDATE, nil))
}

func TestEventBus_LocalDeliveryIsSingle(t *testing.T) {
	bus := New(nil)
	defer bus.Close()

	var got received
	require.NoError(t, bus.Subscribe(BROADCAST_CHANNEL, got.handler))

	require.NoError(t, bus.Broadcast(FRAUD_ALERT, map[string]any{"score": 88}))

	assert.Eventually(t, func() bool { return len(got.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, got.snapshot(), 1)
}
