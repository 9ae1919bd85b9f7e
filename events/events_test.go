package events

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	mu       sync.Mutex
	messages []struct {
		room string
		data []byte
	}
	received chan struct{}
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{received: make(chan struct{}, 64)}
}

func (c *captureNotifier) Notify(room string, message []byte) {
	c.mu.Lock()
	c.messages = append(c.messages, struct {
		room string
		data []byte
	}{room, message})
	c.mu.Unlock()
	c.received <- struct{}{}
}

func (c *captureNotifier) wait(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-c.received:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for notification %d", i+1)
		}
	}
}

func TestRooms(t *testing.T) {
	assert.Equal(t, "user:abc", UserRoom("abc"))
	assert.Equal(t, "investor:abc", InvestorRoom("abc"))
	assert.Equal(t, "admin", AdminRoom)
}

func TestBusDeliversToNotifier(t *testing.T) {
	bus := NewBus(8)
	notifier := newCaptureNotifier()
	bus.Start(notifier)
	defer bus.Close()

	bus.Publish(Event{
		Room: UserRoom("u1"),
		Type: TypeDashboardUpdate,
		Data: map[string]interface{}{"component": "ddform"},
	})

	notifier.wait(t, 1)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, "user:u1", notifier.messages[0].room)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(notifier.messages[0].data, &decoded))
	assert.Equal(t, TypeDashboardUpdate, decoded["type"])
	assert.NotEmpty(t, decoded["timestamp"])
	data := decoded["data"].(map[string]interface{})
	assert.Equal(t, "ddform", data["component"])
}

func TestBusStampsTimestamp(t *testing.T) {
	bus := NewBus(8)
	notifier := newCaptureNotifier()
	bus.Start(notifier)
	defer bus.Close()

	before := time.Now().UTC().Add(-time.Second)
	bus.Publish(Event{Room: AdminRoom, Type: TypeApprovalUpdate})
	notifier.wait(t, 1)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	var decoded struct {
		Timestamp time.Time `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(notifier.messages[0].data, &decoded))
	assert.True(t, decoded.Timestamp.After(before))
}

func TestPublishNeverBlocks(t *testing.T) {
	// No dispatcher draining the channel: overflow must drop, not block.
	bus := NewBus(2)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Publish(Event{Room: AdminRoom, Type: TypeAdminDashboardUpdate})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full buffer")
	}
}

func TestBusPreservesOrderPerRoom(t *testing.T) {
	bus := NewBus(16)
	notifier := newCaptureNotifier()
	bus.Start(notifier)
	defer bus.Close()

	for i := 0; i < 5; i++ {
		bus.Publish(Event{
			Room: UserRoom("u1"),
			Type: TypeDashboardUpdate,
			Data: map[string]interface{}{"seq": i},
		})
	}
	notifier.wait(t, 5)

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	require.Len(t, notifier.messages, 5)
	for i, msg := range notifier.messages {
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(msg.data, &decoded))
		data := decoded["data"].(map[string]interface{})
		assert.Equal(t, float64(i), data["seq"])
	}
}
