package miniapp

import "github.com/wagiedev/miniapp-sdk-go/internal/client"

// ConnectionManager owns the mini app's channel to its host and shares it
// between ClientMessenger handles. Create one per embedded document.
type ConnectionManager = client.Manager

// ClientMessenger is one subscriber's handle on a ConnectionManager.
type ClientMessenger = client.Messenger

// ClientHandler receives messages from the host.
type ClientHandler = client.Handler

// ClientPhase is the lifecycle phase of a ConnectionManager.
type ClientPhase = client.Phase

// Connection manager phases.
const (
	ClientPhaseUnattached       = client.PhaseUnattached
	ClientPhaseRequestSent      = client.PhaseRequestSent
	ClientPhaseEndpointReceived = client.PhaseEndpointReceived
	ClientPhaseHandshakeSent    = client.PhaseHandshakeSent
	ClientPhaseConnected        = client.PhaseConnected
)

// NewConnectionManager creates the connection manager for the document
// behind ctx.
func NewConnectionManager(ctx ClientContext, opts ...Option) *ConnectionManager {
	return client.NewManager(ctx, applyOptions(opts))
}

// NewClientMessenger creates an unconnected handle on mgr.
func NewClientMessenger(mgr *ConnectionManager) *ClientMessenger {
	return client.NewMessenger(mgr)
}
