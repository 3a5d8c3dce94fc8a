package wsframe

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/miniapp-sdk-go/internal/boundary"
	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
	"github.com/wagiedev/miniapp-sdk-go/internal/memframe"
)

// ErrNotTransferable is wrapped in a *errors.DataCloneError when a port that
// was not created by the same Conn's NewChannel, or was already transferred,
// is posted through the remote window.
var ErrNotTransferable = stderrors.New("wsframe: port is not transferable")

// readLimit bounds a single inbound frame.
const readLimit = 1 << 20

// Compile-time verification of the boundary contexts a Conn provides.
var (
	_ boundary.HostContext   = (*Conn)(nil)
	_ boundary.ClientContext = (*Conn)(nil)
	_ boundary.Window        = (*remoteWindow)(nil)
)

// Conn is one side of a websocket-carried frame boundary.
type Conn struct {
	log        *slog.Logger
	ws         *websocket.Conn
	dispatcher memframe.Dispatcher
	remote     *remoteWindow

	mu        sync.Mutex
	listeners []listener
	nextID    uint64
	ports     map[string]*port
	outbox    [][]byte
	stopped   bool
	closing   bool

	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

type listener struct {
	id uint64
	fn func(boundary.MessageEvent)
}

// New wraps an established websocket. Inbound events are delivered on d.
// Nothing is read or written until Run is called.
func New(ws *websocket.Conn, d memframe.Dispatcher, log *slog.Logger) *Conn {
	ws.SetReadLimit(readLimit)

	c := &Conn{
		log:        log.With("component", "wsframe"),
		ws:         ws,
		dispatcher: d,
		ports:      make(map[string]*port),
		wake:       make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
	c.remote = &remoteWindow{conn: c}

	return c
}

// Accept upgrades an HTTP request and wraps the resulting websocket.
func Accept(
	w http.ResponseWriter,
	r *http.Request,
	opts *websocket.AcceptOptions,
	d memframe.Dispatcher,
	log *slog.Logger,
) (*Conn, error) {
	ws, err := websocket.Accept(w, r, opts)
	if err != nil {
		return nil, fmt.Errorf("accept websocket: %w", err)
	}

	return New(ws, d, log), nil
}

// Dial connects to a websocket endpoint and wraps the connection.
func Dial(ctx context.Context, url string, d memframe.Dispatcher, log *slog.Logger) (*Conn, error) {
	ws, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	return New(ws, d, log), nil
}

// Remote returns the window of the document at the other end, or nil once
// the connection is gone. The reference is stable for the Conn's lifetime.
func (c *Conn) Remote() boundary.Window {
	if c.isStopped() {
		return nil
	}

	return c.remote
}

// Parent returns Remote. It lets a Conn serve as the embedded side's
// context.
func (c *Conn) Parent() boundary.Window {
	return c.Remote()
}

// NewChannel creates an entangled port pair. Either end can be transferred
// through the remote window; writes to the other end are buffered until then.
func (c *Conn) NewChannel() (boundary.Port, boundary.Port) {
	id := ulid.Make().String()

	a := &port{conn: c, id: id}
	b := &port{conn: c, id: id}
	a.partner = b
	b.partner = a

	return a, b
}

// AddMessageListener registers fn for every window message from the remote
// document.
func (c *Conn) AddMessageListener(fn func(boundary.MessageEvent)) func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener{id: id, fn: fn})
	c.mu.Unlock()

	return func() { c.removeListener(id) }
}

// ListenerCount returns the number of registered message listeners.
func (c *Conn) ListenerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.listeners)
}

// Run pumps frames in both directions until the connection closes, ctx is
// done or Close is called. A normal closure from either side returns nil.
//
// When Run returns, the remote window is detached and every linked port
// reports ErrPortClosed.
func (c *Conn) Run(ctx context.Context) error {
	c.log.Debug("Starting frame pumps")

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return c.readLoop(ctx) })
	g.Go(func() error { return c.writeLoop(ctx) })

	err := g.Wait()

	c.shutdown()

	if err != nil {
		c.log.Warn("Frame pumps stopped", "error", err)

		return err
	}

	c.log.Info("Connection closed")

	return nil
}

// Close flushes queued frames and closes the websocket with a normal
// closure. Run returns once the close completes.
func (c *Conn) Close() error {
	c.mu.Lock()
	c.closing = true
	c.mu.Unlock()

	c.stop()

	return nil
}

func (c *Conn) readLoop(ctx context.Context) error {
	defer c.stop()

	for {
		_, data, err := c.ws.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != -1 || c.isClosing() {
				return nil
			}

			return fmt.Errorf("read frame: %w", err)
		}

		f, err := decodeFrame(data)
		if err != nil {
			c.log.Debug("Dropping undecodable frame", "error", err)

			continue
		}

		c.handleFrame(f)
	}
}

func (c *Conn) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.wake:
			if err := c.flush(ctx); err != nil {
				return err
			}
		case <-c.done:
			if err := c.flush(ctx); err != nil {
				c.log.Debug("Final flush failed", "error", err)
			}

			if err := c.ws.Close(websocket.StatusNormalClosure, ""); err != nil {
				c.log.Debug("Websocket close", "error", err)
			}

			return nil
		}
	}
}

func (c *Conn) flush(ctx context.Context) error {
	c.mu.Lock()
	pending := c.outbox
	c.outbox = nil
	c.mu.Unlock()

	for _, b := range pending {
		if err := c.ws.Write(ctx, websocket.MessageText, b); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}

	return nil
}

func (c *Conn) handleFrame(f frame) {
	switch f.Kind {
	case kindWindow:
		ports := make([]boundary.Port, 0, len(f.Ports))

		for _, id := range f.Ports {
			p := &port{conn: c, id: id, linked: true}
			c.register(id, p)
			ports = append(ports, p)
		}

		ev := boundary.MessageEvent{Data: f.Data, Source: c.remote}
		if len(ports) > 0 {
			ev.Ports = ports
		}

		c.dispatcher.Post(func() { c.dispatch(ev) })
	case kindPort:
		p := c.lookup(f.Port)
		if p == nil {
			c.log.Debug("Dropping data for unknown port", "port", f.Port)

			return
		}

		data := f.Data
		c.dispatcher.Post(func() { p.deliver(data) })
	case kindClose:
		p := c.lookup(f.Port)
		if p == nil {
			return
		}

		c.unregister(f.Port)
		c.dispatcher.Post(p.markRemoteClosed)
	}
}

func (c *Conn) dispatch(ev boundary.MessageEvent) {
	c.mu.Lock()
	stopped := c.stopped
	listeners := make([]listener, len(c.listeners))
	copy(listeners, c.listeners)
	c.mu.Unlock()

	// Ports nobody can receive are closed so the remote end learns of it.
	if stopped || len(listeners) == 0 {
		for _, p := range ev.Ports {
			_ = p.Close()
		}

		return
	}

	for _, l := range listeners {
		l.fn(ev)
	}
}

// send queues f for the write loop.
func (c *Conn) send(f frame) error {
	b, err := encodeFrame(f)
	if err != nil {
		return err
	}

	c.mu.Lock()

	if c.stopped {
		c.mu.Unlock()

		if f.Kind == kindWindow {
			return errors.ErrWindowDetached
		}

		return errors.ErrPortClosed
	}

	c.outbox = append(c.outbox, b)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}

	return nil
}

func (c *Conn) register(id string, p *port) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ports[id] = p
}

func (c *Conn) unregister(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.ports, id)
}

func (c *Conn) lookup(id string) *port {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ports[id]
}

func (c *Conn) removeListener(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, l := range c.listeners {
		if l.id == id {
			c.listeners = append(c.listeners[:i], c.listeners[i+1:]...)

			return
		}
	}
}

func (c *Conn) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// shutdown detaches the remote window and closes every linked port.
func (c *Conn) shutdown() {
	c.stop()

	c.mu.Lock()
	c.stopped = true
	ports := c.ports
	c.ports = make(map[string]*port)
	c.outbox = nil
	c.mu.Unlock()

	for _, p := range ports {
		p.markRemoteClosed()
	}
}

func (c *Conn) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stopped
}

func (c *Conn) isClosing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closing
}

// remoteWindow is the document at the other end of the connection.
type remoteWindow struct {
	conn *Conn
}

// PostMessage sends data to the remote document. Every transferred port
// must come from this Conn's NewChannel; its partner becomes linked to the
// copy the remote side receives.
func (w *remoteWindow) PostMessage(data any, _ string, transfer ...boundary.Port) error {
	c := w.conn

	var (
		ids   []string
		gives []*port
	)

	for _, t := range transfer {
		p, ok := t.(*port)
		if !ok || p.conn != c || !p.transferable() {
			return &errors.DataCloneError{Err: ErrNotTransferable}
		}

		ids = append(ids, p.id)
		gives = append(gives, p)
	}

	// Retained ends are registered first so replies are never missed.
	for _, p := range gives {
		c.register(p.id, p.partnerOf())
	}

	if err := c.send(frame{Kind: kindWindow, Data: data, Ports: ids}); err != nil {
		for _, p := range gives {
			c.unregister(p.id)
		}

		return err
	}

	for _, p := range gives {
		keep := p.partnerOf()
		p.markTransferred()
		keep.link()
	}

	return nil
}
