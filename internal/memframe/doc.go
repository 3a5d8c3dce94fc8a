// Package memframe is an in-process implementation of the boundary
// primitives: documents that can embed each other as frames, window
// references with sender identity, and entangled message channels.
//
// Every value that crosses a window or a port is structurally cloned, so
// sender and receiver never share memory. Delivery is asynchronous: it is
// queued on a Dispatcher (normally a loop.Loop) and observed by the receiver
// only when that dispatcher runs.
//
//	l := loop.New(log)
//	page := memframe.NewDocument(l, "host")
//	frame := page.Embed("mini-app")
//
//	host := hostMessenger(page, frame.ContentWindow)
//	client := clientManager(frame.Document())
//	l.RunPending()
package memframe

// Dispatcher runs delivery tasks, one at a time, in the order posted.
type Dispatcher interface {
	Post(task func()) bool
}
