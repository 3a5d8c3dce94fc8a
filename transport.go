package miniapp

import "github.com/wagiedev/miniapp-sdk-go/internal/boundary"

// Re-export boundary interfaces from internal package. Implement these to
// run the protocol over a custom boundary.

// Port is one end of a message channel.
type Port = boundary.Port

// Window is a reference to a browsing context that can receive messages.
type Window = boundary.Window

// MessageEvent is a boundary-level message as seen by its receiver.
type MessageEvent = boundary.MessageEvent

// EventTarget delivers boundary-level messages to listeners.
type EventTarget = boundary.EventTarget

// ChannelFactory creates entangled port pairs.
type ChannelFactory = boundary.ChannelFactory

// HostContext is what a HostMessenger needs from the embedding document.
type HostContext = boundary.HostContext

// ClientContext is what a ConnectionManager needs from the embedded document.
type ClientContext = boundary.ClientContext

// AnyOrigin is the wildcard target origin used for control messages.
const AnyOrigin = boundary.AnyOrigin
