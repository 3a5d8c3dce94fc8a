package memframe

import (
	"sync"

	"github.com/wagiedev/miniapp-sdk-go/internal/boundary"
	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
)

// Compile-time verification that port implements boundary.Port.
var _ boundary.Port = (*port)(nil)

// port is one end of an in-process message channel.
type port struct {
	dispatcher Dispatcher

	mu      sync.Mutex
	peer    *port
	handler func(any)
	started bool
	closed  bool
	queue   []any
}

// NewChannel returns two entangled ports whose deliveries run on d.
func NewChannel(d Dispatcher) (boundary.Port, boundary.Port) {
	a := &port{dispatcher: d}
	b := &port{dispatcher: d}
	a.peer = b
	b.peer = a

	return a, b
}

func (p *port) PostMessage(data any) error {
	p.mu.Lock()
	closed := p.closed
	peer := p.peer
	p.mu.Unlock()

	if closed || peer.isClosed() {
		return errors.ErrPortClosed
	}

	clone, err := Clone(data)
	if err != nil {
		return err
	}

	if !p.dispatcher.Post(func() { peer.deliver(clone) }) {
		return errors.ErrPortClosed
	}

	return nil
}

func (p *port) SetMessageHandler(handler func(data any)) {
	p.mu.Lock()
	p.handler = handler

	if handler != nil {
		p.started = true
	}
	p.mu.Unlock()

	if handler != nil {
		p.dispatcher.Post(p.drain)
	}
}

func (p *port) Start() error {
	p.mu.Lock()
	p.started = true
	p.mu.Unlock()

	p.dispatcher.Post(p.drain)

	return nil
}

func (p *port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.handler = nil
	p.queue = nil

	return nil
}

func (p *port) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.closed
}

// deliver queues an inbound value and drains the queue if the port is
// started. Queuing first keeps delivery FIFO across handler changes.
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
