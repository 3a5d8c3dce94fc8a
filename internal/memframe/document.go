package memframe

import (
	"sync"

	"github.com/wagiedev/miniapp-sdk-go/internal/boundary"
	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
)

// Compile-time verification of the boundary contexts a Document provides.
var (
	_ boundary.HostContext   = (*Document)(nil)
	_ boundary.ClientContext = (*Document)(nil)
	_ boundary.Window        = (*windowRef)(nil)
)

// Document is a browsing context: it receives boundary messages, can be
// embedded by a parent document and can embed frames of its own.
type Document struct {
	name       string
	dispatcher Dispatcher
	parent     *Document

	mu        sync.Mutex
	listeners []listener
	nextID    uint64
	refs      map[*Document]*windowRef
	detached  bool
}

type listener struct {
	id uint64
	fn func(boundary.MessageEvent)
}

// NewDocument creates a top-level document whose deliveries run on d.
func NewDocument(d Dispatcher, name string) *Document {
	return newDocument(d, name, nil)
}

func newDocument(d Dispatcher, name string, parent *Document) *Document {
	return &Document{
		name:       name,
		dispatcher: d,
		parent:     parent,
		refs:       make(map[*Document]*windowRef),
	}
}

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// Embed creates a frame inside d holding a fresh child document.
func (d *Document) Embed(name string) *Frame {
	f := &Frame{host: d, name: name}
	f.doc = newDocument(d.dispatcher, name, d)

	return f
}

// Parent returns the embedding window as seen from d, or nil for a
// top-level or detached document.
func (d *Document) Parent() boundary.Window {
	if d.parent == nil || d.isDetached() {
		return nil
	}

	return d.ref(d.parent)
}

// NewChannel creates an entangled port pair owned by d.
func (d *Document) NewChannel() (boundary.Port, boundary.Port) {
	return NewChannel(d.dispatcher)
}

// AddMessageListener registers fn for every message posted to d.
func (d *Document) AddMessageListener(fn func(boundary.MessageEvent)) func() {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, listener{id: id, fn: fn})
	d.mu.Unlock()

	return func() { d.removeListener(id) }
}

// ListenerCount returns the number of registered message listeners.
func (d *Document) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.listeners)
}

func (d *Document) removeListener(id uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, l := range d.listeners {
		if l.id == id {
			d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)

			return
		}
	}
}

// ref returns the stable reference to other as seen from d. A detached
// document gets a fresh, uncached reference.
func (d *Document) ref(other *Document) *windowRef {
	if other.isDetached() {
		return &windowRef{from: d, to: other}
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	r, ok := d.refs[other]
	if !ok {
		r = &windowRef{from: d, to: other}
		d.refs[other] = r
	}

	return r
}

// forget drops the cached reference to other once other can no longer be
// reached.
func (d *Document) forget(other *Document) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.refs, other)
}

// RefCount returns the number of cached window references held by d.
func (d *Document) RefCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.refs)
}

func (d *Document) detach() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.detached = true
	d.listeners = nil
}

func (d *Document) isDetached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.detached
}

func (d *Document) dispatch(ev boundary.MessageEvent) {
	d.mu.Lock()

	if d.detached {
		d.mu.Unlock()

		return
	}

	listeners := make([]listener, len(d.listeners))
	copy(listeners, d.listeners)
	d.mu.Unlock()

	for _, l := range listeners {
		l.fn(ev)
	}
}

// windowRef is the window to as seen from the document from.
type windowRef struct {
	from *Document
	to   *Document
}

// PostMessage clones data and queues its delivery to the target document.
// The event's Source is the sending document as seen by the receiver.
func (r *windowRef) PostMessage(data any, _ string, transfer ...boundary.Port) error {
	if r.to.isDetached() || r.from.isDetached() {
		return errors.ErrWindowDetached
	}

	clone, err := Clone(data)
	if err != nil {
		return err
	}

	source := r.to.ref(r.from)

	var ports []boundary.Port
	if len(transfer) > 0 {
		ports = make([]boundary.Port, len(transfer))
		copy(ports, transfer)
	}

	ev := boundary.MessageEvent{Data: clone, Source: source, Ports: ports}

	if !r.to.dispatcher.Post(func() { r.to.dispatch(ev) }) {
		return errors.ErrWindowDetached
	}

	return nil
}

// Frame is an embedding slot in a host document.
type Frame struct {
	host *Document
	name string

	mu   sync.Mutex
	doc  *Document
	gone bool
}

// Document returns the document currently loaded in the frame.
func (f *Frame) Document() *Document {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.doc
}

// ContentWindow returns the frame's current window as seen from the host,
// or nil once the frame has been removed. The reference changes whenever the
// frame reloads.
func (f *Frame) ContentWindow() boundary.Window {
	f.mu.Lock()
	doc, gone := f.doc, f.gone
	f.mu.Unlock()

	if gone {
		return nil
	}

	return f.host.ref(doc)
}

// Reload replaces the frame's document with a fresh one. The old document
// stops receiving messages.
func (f *Frame) Reload() *Document {
	f.mu.Lock()
	old := f.doc
	f.doc = newDocument(f.host.dispatcher, f.name, f.host)
	doc := f.doc
	f.mu.Unlock()

	old.detach()
	f.host.forget(old)

	return doc
}

// Remove takes the frame out of the host document.
func (f *Frame) Remove() {
	f.mu.Lock()
	f.gone = true
	doc := f.doc
	f.mu.Unlock()

	doc.detach()
	f.host.forget(doc)
}
