package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testHub() *Hub {
	return NewHub(slog.Default())
}

func testClient(id, userID string) *Client {
	return NewClient(id, userID, nil, nil)
}

func TestHubRegisterUnregister(t *testing.T) {
	h := testHub()
	c1 := testClient("c1", "user-1")
	c2 := testClient("c2", "user-1")

	h.add(c1)
	h.add(c2)
	assert.Equal(t, 2, h.ConnectionCount("user-1"))
	assert.Equal(t, 2, h.TotalConnections())

	h.remove(c1)
	assert.Equal(t, 1, h.ConnectionCount("user-1"))

	h.remove(c2)
	assert.Equal(t, 0, h.ConnectionCount("user-1"))
	assert.Equal(t, 0, h.TotalConnections())
}

func TestHubRemoveClosesSendChannel(t *testing.T) {
	h := testHub()
	c := testClient("c1", "user-1")

	h.add(c)
	h.remove(c)

	_, open := <-c.send
	assert.False(t, open)
}

func TestHubRemoveUnknownClient(t *testing.T) {
	h := testHub()

	// Removing a never-registered client must not panic or close anything.
	h.remove(testClient("ghost", "user-1"))
	assert.Equal(t, 0, h.TotalConnections())
}

func TestDeliverToUser(t *testing.T) {
	h := testHub()
	c := testClient("c1", "user-1")
	other := testClient("c2", "user-2")
	h.add(c)
	h.add(other)

	h.DeliverToUser("user-1", "ReceiveNotification", "Claim Approved", "come pick it up", int64(7))

	assert.Len(t, c.send, 1)
	assert.Len(t, other.send, 0)

	var event Event
	assert.NoError(t, json.Unmarshal(<-c.send, &event))
	assert.Equal(t, "ReceiveNotification", event.Event)
	assert.Len(t, event.Args, 3)
	assert.Equal(t, "Claim Approved", event.Args[0])
}

func TestDeliverToUser_NoConnections(t *testing.T) {
	h := testHub()

	// No connections registered: delivery is a silent no-op.
	h.DeliverToUser("nobody", "ReceiveNotification", "hello")
	assert.Equal(t, 0, h.TotalConnections())
}

func TestDeliverToUser_FanOut(t *testing.T) {
	h := testHub()
	c1 := testClient("c1", "user-1")
	c2 := testClient("c2", "user-1")
	h.add(c1)
	h.add(c2)

	h.DeliverToUser("user-1", "ReceiveNotification", "hello")

	assert.Len(t, c1.send, 1)
	assert.Len(t, c2.send, 1)
}

func TestDeliverToUser_SlowClientDropped(t *testing.T) {
	h := testHub()
	c := testClient("c1", "user-1")
	h.add(c)

	// Fill the send queue without a reader; the overflow frame is dropped
	// instead of blocking the delivery path.
	for i := 0; i < SendBufferSize+10; i++ {
		h.DeliverToUser("user-1", "ReceiveNotification", "spam", i)
	}

	assert.Len(t, c.send, SendBufferSize)
}

func TestBroadcast(t *testing.T) {
	h := testHub()
	c1 := testClient("c1", "user-1")
	c2 := testClient("c2", "user-2")
	h.add(c1)
	h.add(c2)

	h.Broadcast("ReceiveNotification", "maintenance tonight")

	assert.Len(t, c1.send, 1)
	assert.Len(t, c2.send, 1)
}

func TestHubRunLoop(t *testing.T) {
	h := testHub()
	done := make(chan struct{})
	go h.Run(done)
	defer close(done)

	c := testClient("c1", "user-1")
	h.Register <- c
	assert.Eventually(t, func() bool {
		return h.ConnectionCount("user-1") == 1
	}, time.Second, 5*time.Millisecond)

	h.DeliverToUser("user-1", "ReceiveNotification", "hi")
	assert.Len(t, c.send, 1)

	h.Unregister <- c
	assert.Eventually(t, func() bool {
		return h.ConnectionCount("user-1") == 0
	}, time.Second, 5*time.Millisecond)

	_, open := <-c.send
	assert.True(t, open) // first the queued frame
	_, open = <-c.send
	assert.False(t, open)
}

func TestHubConcurrentDelivery(t *testing.T) {
	h := testHub()
	for i := 0; i < 8; i++ {
		h.add(testClient(string(rune('a'+i)), "user-1"))
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.DeliverToUser("user-1", "ReceiveNotification", "burst")
		}()
	}
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c := testClient("extra"+string(rune('0'+n)), "user-2")
			h.add(c)
			h.remove(c)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 8, h.ConnectionCount("user-1"))
	assert.Equal(t, 0, h.ConnectionCount("user-2"))
}
