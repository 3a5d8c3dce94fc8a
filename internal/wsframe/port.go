package wsframe

import (
	"sync"

	"github.com/wagiedev/miniapp-sdk-go/internal/boundary"
	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
)

// Compile-time verification that port implements boundary.Port.
var _ boundary.Port = (*port)(nil)

// port is one end of a channel whose other end may live across the
// connection.
//
// A pair from NewChannel starts local: the retained end buffers writes and
// the other end exists only to be transferred. Transferring it links the
// retained end to the connection. Ports that arrive in a window frame are
// linked from the start.
type port struct {
	conn *Conn
	id   string

	mu           sync.Mutex
	handler      func(any)
	started      bool
	closed       bool
	remoteClosed bool
	queue        []any

	// Set on a local pair only.
	partner     *port
	transferred bool

	linked bool
	outbox []any
}

func (p *port) PostMessage(data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.remoteClosed || p.transferred {
		return errors.ErrPortClosed
	}

	if !p.linked {
		if p.partner == nil {
			return errors.ErrPortClosed
		}

		// Partner not transferred yet. Check serializability now so the
		// failure reaches this caller.
		if _, err := encodeFrame(frame{Kind: kindPort, Port: p.id, Data: data}); err != nil {
			return err
		}

		p.outbox = append(p.outbox, data)

		return nil
	}

	return p.conn.send(frame{Kind: kindPort, Port: p.id, Data: data})
}

func (p *port) SetMessageHandler(handler func(data any)) {
	p.mu.Lock()
	p.handler = handler

	if handler != nil {
		p.started = true
	}
	p.mu.Unlock()

	if handler != nil {
		p.conn.dispatcher.Post(p.drain)
	}
}

func (p *port) Start() error {
	p.mu.Lock()
	p.started = true
	p.mu.Unlock()

	p.conn.dispatcher.Post(p.drain)

	return nil
}

func (p *port) Close() error {
	p.mu.Lock()

	if p.closed || p.transferred {
		p.mu.Unlock()

		return nil
	}

	p.closed = true
	p.handler = nil
	p.queue = nil
	p.outbox = nil
	linked, remoteClosed, partner := p.linked, p.remoteClosed, p.partner
	p.mu.Unlock()

	if !linked {
		if partner != nil {
			partner.markRemoteClosed()
		}

		return nil
	}

	p.conn.unregister(p.id)

	if remoteClosed {
		return nil
	}

	if err := p.conn.send(frame{Kind: kindClose, Port: p.id}); err != nil {
		p.conn.log.Debug("Close frame not sent", "port", p.id, "error", err)
	}

	return nil
}

// transferable reports whether p can be sent through the remote window.
func (p *port) transferable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return !p.linked && !p.closed && !p.transferred && p.partner != nil
}

// markTransferred retires p after it went through the remote window.
func (p *port) markTransferred() {
	p.mu.Lock()
	p.transferred = true
	p.handler = nil
	p.queue = nil
	p.mu.Unlock()
}

// link connects the retained end of a local pair to the connection and
// sends the writes it buffered.
func (p *port) link() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || p.linked {
		return
	}

	p.linked = true
	p.partner = nil

	for _, data := range p.outbox {
		if err := p.conn.send(frame{Kind: kindPort, Port: p.id, Data: data}); err != nil {
			p.conn.log.Debug("Buffered port write dropped", "port", p.id, "error", err)
		}
	}

	p.outbox = nil
}

// partnerOf returns the other end of a local pair.
func (p *port) partnerOf() *port {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.partner
}

func (p *port) markRemoteClosed() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.remoteClosed = true
}

// deliver queues an inbound value and drains it if the port is started.
func (p *port) deliver(v any) {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()

		return
	}

	p.queue = append(p.queue, v)
	p.mu.Unlock()

	p.drain()
}

func (p *port) drain() {
	for {
		p.mu.Lock()

		if p.closed || !p.started || p.handler == nil || len(p.queue) == 0 {
			p.mu.Unlock()

			return
		}

		v := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		handler := p.handler
		p.mu.Unlock()

		handler(v)
	}
}
