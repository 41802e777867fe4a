package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_BroadcastExcludesSender(t *testing.T) {
	h := NewHub()
	a := &Client{ConnID: "a", Send: make(chan []byte, 4)}
	b := &Client{ConnID: "b", Send: make(chan []byte, 4)}
	h.Join("lobby", a)
	h.Join("lobby", b)

	h.Broadcast("lobby", []byte("relay"), a)
	assert.Empty(t, a.Send)
	require.Len(t, b.Send, 1)
	assert.Equal(t, "relay", string(<-b.Send))

	h.Broadcast("lobby", []byte("all"), nil)
	assert.Len(t, a.Send, 1)
	assert.Len(t, b.Send, 1)
}

func TestHub_FullQueueKicksClient(t *testing.T) {
	h := NewHub()
	slow := &Client{ConnID: "slow", Send: make(chan []byte, 1)}
	fast := &Client{ConnID: "fast", Send: make(chan []byte, 4)}
	h.Join("lobby", slow)
	h.Join("lobby", fast)

	h.Broadcast("lobby", []byte("one"), nil)
	h.Broadcast("lobby", []byte("two"), nil) // slow queue full

	// The overflowing client is disconnected rather than silently left with
	// a diverged canvas; its peers are untouched.
	assert.True(t, slow.Kicked())
	assert.False(t, fast.Kicked())
	require.Len(t, slow.Send, 1)
	assert.Equal(t, "one", string(<-slow.Send))
	assert.Len(t, fast.Send, 2)
}

func TestHub_SendOverflowKicksClient(t *testing.T) {
	h := NewHub()
	c := &Client{ConnID: "a", Send: make(chan []byte, 1)}

	h.Send(c, []byte("one"))
	assert.False(t, c.Kicked())
	h.Send(c, []byte("two"))
	assert.True(t, c.Kicked())
}

func TestHub_LeaveStopsDelivery(t *testing.T) {
	h := NewHub()
	c := &Client{ConnID: "a", Send: make(chan []byte, 4)}
	h.Join("lobby", c)
	h.Leave("lobby", c)

	h.Broadcast("lobby", []byte("gone"), nil)
	assert.Empty(t, c.Send)

	// Leaving a room you were never in is harmless.
	h.Leave("other", c)
}

func TestHub_NilFrameIsDropped(t *testing.T) {
	h := NewHub()
	c := &Client{ConnID: "a", Send: make(chan []byte, 4)}
	h.Join("lobby", c)

	h.Broadcast("lobby", nil, nil)
	h.Send(c, nil)
	assert.Empty(t, c.Send)
}
