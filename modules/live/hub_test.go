package live

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/0x-70da/horus-shop/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	frames chan []byte
	mu     sync.Mutex
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{frames: make(chan []byte, 16)}
}

func (c *fakeConn) WriteMessage(_ int, data []byte) error {
	c.frames <- data
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) next(t *testing.T) Message {
	t.Helper()
	select {
	case data := <-c.frames:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return Message{}
	}
}

func (c *fakeConn) assertNoFrame(t *testing.T) {
	t.Helper()
	select {
	case data := <-c.frames:
		t.Fatalf("unexpected frame: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(func() {
		cancel()
		hub.Wait()
	})
	return hub
}

func TestHub_PublishReachesOnlyOwnSession(t *testing.T) {
	hub := startHub(t)
	alice, bob := newFakeConn(), newFakeConn()
	hub.Register(&Client{ID: "c1", SessionID: "sess-a", Conn: alice})
	hub.Register(&Client{ID: "c2", SessionID: "sess-b", Conn: bob})

	hub.Publish("sess-a", Message{Type: TypeCartUpdated})

	assert.Equal(t, TypeCartUpdated, alice.next(t).Type)
	bob.assertNoFrame(t)
}

func TestHub_EmptySessionBroadcastsToAll(t *testing.T) {
	hub := startHub(t)
	alice, bob := newFakeConn(), newFakeConn()
	hub.Register(&Client{ID: "c1", SessionID: "sess-a", Conn: alice})
	hub.Register(&Client{ID: "c2", SessionID: "sess-b", Conn: bob})

	hub.Publish("", Message{Type: TypePriceChanged})

	assert.Equal(t, TypePriceChanged, alice.next(t).Type)
	assert.Equal(t, TypePriceChanged, bob.next(t).Type)
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := startHub(t)
	first, second := newFakeConn(), newFakeConn()
	c1 := &Client{ID: "c1", SessionID: "sess-a", Conn: first}
	hub.Register(c1)
	hub.Register(&Client{ID: "c2", SessionID: "sess-a", Conn: second})

	hub.Unregister(c1)
	hub.Publish("sess-a", Message{Type: TypeAuthChanged})

	assert.Equal(t, TypeAuthChanged, second.next(t).Type)
	first.assertNoFrame(t)
	assert.Equal(t, 1, hub.ClientCount())
	assert.Equal(t, 1, hub.SessionClientCount("sess-a"))
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	conn := newFakeConn()
	hub.Register(&Client{ID: "c1", SessionID: "sess-a", Conn: conn})
	cancel()
	hub.Wait()

	assert.True(t, conn.isClosed())
	assert.Equal(t, 0, hub.ClientCount())

	// Calls after shutdown return instead of blocking.
	hub.Publish("sess-a", Message{Type: TypeCartUpdated})
	hub.Unregister(&Client{ID: "c1", SessionID: "sess-a"})
}

func TestModule_RelaysStoreEvents(t *testing.T) {
	m := NewModule()
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() { _ = m.Stop(context.Background()) })

	conn := newFakeConn()
	m.Hub().Register(&Client{ID: "c1", SessionID: "sess-a", Conn: conn})

	occurred := time.Date(2024, 11, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, m.handleCartUpdated(context.Background(), events.CartUpdatedEvent{
		SessionID:  "sess-a",
		Revision:   3,
		Action:     "add-item",
		ItemCount:  2,
		OccurredAt: occurred,
	}, nil))

	msg := conn.next(t)
	assert.Equal(t, TypeCartUpdated, msg.Type)
	assert.True(t, occurred.Equal(msg.Timestamp))
	payload, ok := msg.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "add-item", payload["action"])
	assert.EqualValues(t, 2, payload["item_count"])

	require.NoError(t, m.handleAuthChanged(context.Background(), events.AuthChangedEvent{
		SessionID: "sess-other",
		Action:    "login",
	}, nil))
	conn.assertNoFrame(t)

	require.NoError(t, m.handlePriceChanged(context.Background(), events.ProductPriceChangedEvent{
		ProductID: "prod_4",
		OldPrice:  349,
		NewPrice:  299,
	}, nil))
	assert.Equal(t, TypePriceChanged, conn.next(t).Type)
}
