package client

import (
	"sync"

	"github.com/google/uuid"

	"github.com/wagiedev/miniapp-sdk-go/internal/message"
)

// Messenger is one subscriber's handle on a shared Manager.
//
// Every successful Connect must be matched by one Disconnect, which keeps
// the Manager's reference count balanced. Both are idempotent.
type Messenger struct {
	id  uuid.UUID
	mgr *Manager

	mu       sync.Mutex
	attached bool
}

// NewMessenger creates a handle on mgr with a fresh identity. The handle is
// not connected.
func NewMessenger(mgr *Manager) *Messenger {
	return &Messenger{
		id:  uuid.New(),
		mgr: mgr,
	}
}

// ID returns the handle's identity in the Manager's handler registry.
func (c *Messenger) ID() uuid.UUID { return c.id }

// Connect registers the handle with the Manager.
func (c *Messenger) Connect() {
	c.mu.Lock()

	if c.attached {
		c.mu.Unlock()

		return
	}

	c.attached = true
	c.mu.Unlock()

	c.mgr.ConnectInstance()
}

// Disconnect removes the handle's message handler and releases it from the
// Manager.
func (c *Messenger) Disconnect() {
	c.mu.Lock()

	if !c.attached {
		c.mu.Unlock()

		return
	}

	c.attached = false
	c.mu.Unlock()

	c.mgr.SetHandler(c.id, nil)
	c.mgr.DisconnectInstance()
}

// Attached reports whether the handle is registered with the Manager. This
// is independent of the channel state reported by IsConnected.
func (c *Messenger) Attached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.attached
}

// Send posts a typed message to the host through the shared channel.
func (c *Messenger) Send(t message.Type, payload any) bool {
	return c.mgr.Send(t, payload)
}

// SendWithID is Send with a correlation id set on the message.
func (c *Messenger) SendWithID(id string, t message.Type, payload any) bool {
	return c.mgr.SendWithID(id, t, payload)
}

// Post is Send returning the reason for a failure.
func (c *Messenger) Post(t message.Type, payload any) error {
	return c.mgr.Post(t, payload)
}

// SetMessageHandler sets this handle's handler. A nil handler removes it.
func (c *Messenger) SetMessageHandler(handler Handler) {
	c.mgr.SetHandler(c.id, handler)
}

// IsConnected reports the shared channel state.
func (c *Messenger) IsConnected() bool {
	return c.mgr.IsConnected()
}
