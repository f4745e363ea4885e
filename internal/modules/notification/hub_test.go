package notification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Session bookkeeping is testable without a live websocket: a nil *Conn is
// a valid map entry, and the write path treats it as not connected.
func TestHub_SessionBookkeeping(t *testing.T) {
	h := NewHub()

	assert.False(t, h.IsOnline(42))

	h.Register(42, nil)
	assert.True(t, h.IsOnline(42))
	assert.False(t, h.IsOnline(7))

	// Re-registering keeps exactly one session for the user.
	h.Register(42, nil)
	assert.True(t, h.IsOnline(42))

	h.Unregister(42)
	assert.False(t, h.IsOnline(42))

	// Unregistering an unknown user is a no-op.
	h.Unregister(42)

	h.Register(1, nil)
	h.Register(2, nil)
	h.Close()
	assert.False(t, h.IsOnline(1))
	assert.False(t, h.IsOnline(2))
}

func TestHub_SendToUserWithoutSession(t *testing.T) {
	h := NewHub()
	assert.False(t, h.SendToUser(42, map[string]string{"title": "hi"}))
}
