// Package boundary defines the platform primitives the messaging protocol is
// built on: windows that accept broadcast posts, and dedicated two-ended
// message channels whose ports can be transferred across the frame boundary.
//
// The protocol core only consumes these interfaces. The memframe package
// provides an in-process implementation and wsframe carries the same
// primitives over a websocket connection.
package boundary

//go:generate go tool mockgen -destination=./mocks/boundary_mock.go -package=mocks . Port,Window

// AnyOrigin is the wildcard target origin used for every boundary-level post.
const AnyOrigin = "*"

// Port is one end of a dedicated two-way message channel.
//
// Data posted on one end is copied and delivered asynchronously to the
// handler of the other end. Closing either end is terminal for the channel.
type Port interface {
	// PostMessage copies data onto the channel.
	PostMessage(data any) error

	// SetMessageHandler installs the inbound handler. A nil handler detaches
	// the current one. Installing a handler implicitly starts the port.
	SetMessageHandler(handler func(data any))

	// Start begins delivery of queued inbound messages.
	Start() error

	// Close disentangles the port. It is safe to call more than once.
	Close() error
}

// Window is a reference to another browsing context.
//
// Implementations must be comparable: receivers establish the identity of
// a sender by comparing MessageEvent.Source against the window they expect.
type Window interface {
	// PostMessage copies data to the window, transferring ownership of the
	// given ports along with it.
	PostMessage(data any, targetOrigin string, transfer ...Port) error
}

// MessageEvent is a boundary-level message as observed by the receiving
// context.
type MessageEvent struct {
	// Data is the copied message body.
	Data any

	// Source is the sending window as seen from the receiver, or nil.
	Source Window

	// Ports are the ports transferred alongside Data.
	Ports []Port
}

// EventTarget is the receiving context's boundary listener surface.
type EventTarget interface {
	// AddMessageListener registers fn for every boundary message delivered to
	// this context. The returned function removes the listener.
	AddMessageListener(fn func(MessageEvent)) (remove func())
}

// ChannelFactory creates entangled port pairs.
type ChannelFactory interface {
	NewChannel() (Port, Port)
}

// HostContext is everything the embedding document provides to a host
// messenger.
type HostContext interface {
	EventTarget
	ChannelFactory
}

// ClientContext is everything the embedded document provides to the client
// connection manager.
type ClientContext interface {
	EventTarget

	// Parent returns the embedding window, or nil when the document is not
	// framed. It is re-resolved on every use and never cached.
	Parent() Window
}
