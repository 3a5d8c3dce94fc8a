package miniapp

import "github.com/wagiedev/miniapp-sdk-go/internal/host"

// HostMessenger is the embedding document's side of the channel to one
// frame.
type HostMessenger = host.Messenger

// HostHandler receives messages from the mini app.
type HostHandler = host.Handler

// HostState is the lifecycle phase of a HostMessenger.
type HostState = host.State

// Host lifecycle phases.
const (
	HostStateIdle               = host.StateIdle
	HostStateAwaitingConnection = host.StateAwaitingConnection
	HostStateConnected          = host.StateConnected
)

// NewHostMessenger creates a messenger for the frame whose current window
// target returns. It listens for channel requests once Connect is called.
func NewHostMessenger(ctx HostContext, target func() Window, opts ...Option) *HostMessenger {
	return host.New(ctx, target, applyOptions(opts))
}
