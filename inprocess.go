package miniapp

import (
	"log/slog"

	"github.com/wagiedev/miniapp-sdk-go/internal/loop"
	"github.com/wagiedev/miniapp-sdk-go/internal/memframe"
)

// EventLoop runs boundary events one at a time in FIFO order.
type EventLoop = loop.Loop

// ErrLoopStopped is returned by EventLoop.Run after Stop.
var ErrLoopStopped = loop.ErrStopped

// Dispatcher schedules boundary event delivery.
type Dispatcher = memframe.Dispatcher

// Document is an in-process browsing context. It serves as a HostContext
// for the frames it embeds and as a ClientContext inside a frame.
type Document = memframe.Document

// Frame is an embedded document as seen from its parent.
type Frame = memframe.Frame

// NewEventLoop creates an idle event loop. Drive it with Run or RunPending.
func NewEventLoop(log *slog.Logger) *EventLoop {
	return loop.New(log)
}

// NewDocument creates a top-level in-process document whose events are
// delivered on d.
func NewDocument(d Dispatcher, name string) *Document {
	return memframe.NewDocument(d, name)
}
