package client

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/wagiedev/miniapp-sdk-go/internal/boundary"
	"github.com/wagiedev/miniapp-sdk-go/internal/config"
	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
	"github.com/wagiedev/miniapp-sdk-go/internal/message"
)

// Handler receives messages sent by the host.
type Handler func(message.Message)

type subscriber struct {
	id      uuid.UUID
	handler Handler
}

// Manager owns the embedded document's channel to its host and shares it
// between Messenger handles.
//
// All methods are safe for concurrent use. Handlers and port operations are
// never called with internal locks held.
type Manager struct {
	log     *slog.Logger
	opts    *config.Options
	dialect *message.Dialect
	ctx     boundary.ClientContext

	mu             sync.Mutex
	refCount       int
	removeListener func()
	port           boundary.Port
	state          channelState
	subscribers    []subscriber
}

// NewManager creates a Manager for the document behind ctx. It does nothing
// until the first ConnectInstance.
func NewManager(ctx boundary.ClientContext, opts *config.Options) *Manager {
	opts = opts.Normalize()

	return &Manager{
		log:     opts.Logger.With("component", "connection_manager", "dialect", opts.Dialect.Name()),
		opts:    opts,
		dialect: opts.Dialect,
		ctx:     ctx,
	}
}

// ConnectInstance registers one more interested handle. The first one makes
// the Manager listen for channel transfers and, when no port is held, ask
// the parent for a channel.
func (m *Manager) ConnectInstance() {
	m.mu.Lock()
	m.refCount++
	first := m.refCount == 1
	retry := !first && m.port == nil && m.state.pending
	m.mu.Unlock()

	if first {
		m.listen()
	}

	m.mu.Lock()
	needRequest := m.port == nil && (first || retry)
	m.mu.Unlock()

	if needRequest {
		_ = m.requestChannel()
	}
}

// DisconnectInstance releases one handle. When the last one goes the
// listener is removed and the port closed. It is a no-op at zero.
func (m *Manager) DisconnectInstance() {
	m.mu.Lock()

	if m.refCount == 0 {
		m.mu.Unlock()

		return
	}

	m.refCount--
	last := m.refCount == 0

	var remove func()

	if last {
		remove = m.removeListener
		m.removeListener = nil
		m.state.pending = false
	}
	m.mu.Unlock()

	if !last {
		return
	}

	if remove != nil {
		remove()
	}

	if !m.teardown(nil) {
		// An unanswered request is abandoned.
		m.mu.Lock()
		m.state.lost(false)
		m.mu.Unlock()
	}

	m.log.Debug("Last instance disconnected")
}

// Send posts a typed message to the host. It reports false, without side
// effects, when t is not a client message type, payload does not match t or
// no channel exists.
func (m *Manager) Send(t message.Type, payload any) bool {
	return m.Post(t, payload) == nil
}

// SendWithID is Send with a correlation id set on the message.
func (m *Manager) SendWithID(id string, t message.Type, payload any) bool {
	return m.post(message.Message{Type: t, ID: id, Payload: payload}) == nil
}

// Post is Send returning the reason for a failure.
func (m *Manager) Post(t message.Type, payload any) error {
	return m.post(message.Message{Type: t, Payload: payload})
}

func (m *Manager) post(msg message.Message) error {
	if err := message.Validate(m.dialect, message.ClientToHost, msg); err != nil {
		return err
	}

	m.mu.Lock()
	port := m.port
	m.mu.Unlock()

	if port == nil {
		return errors.ErrNoChannel
	}

	if err := port.PostMessage(msg); err != nil {
		m.log.Warn("Port write failed, dropping channel", "message_type", msg.Type, "error", err)
		m.dropChannel(port)

		return fmt.Errorf("post %s: %w", msg.Type, err)
	}

	return nil
}

// SetHandler registers handler under id, replacing any previous one in
// place. A nil handler removes the entry.
func (m *Manager) SetHandler(id uuid.UUID, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.IndexFunc(m.subscribers, func(s subscriber) bool { return s.id == id })

	switch {
	case handler == nil && i >= 0:
		m.subscribers = slices.Delete(m.subscribers, i, i+1)
	case handler == nil:
	case i >= 0:
		m.subscribers[i].handler = handler
	default:
		m.subscribers = append(m.subscribers, subscriber{id: id, handler: handler})
	}
}

// IsConnected reports whether the Manager holds a port it has handshaken on
// or received traffic over.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.connected
}

// RefCount returns the number of connected handles.
func (m *Manager) RefCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.refCount
}

// Phase returns the current lifecycle phase.
func (m *Manager) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.phase
}

// PendingRequest reports whether the channel was lost while handles were
// connected and a new request has not reached the parent yet.
func (m *Manager) PendingRequest() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.pending
}

// HandlerCount returns the number of registered handlers.
func (m *Manager) HandlerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.subscribers)
}

func (m *Manager) listen() {
	m.mu.Lock()
	attached := m.removeListener != nil
	m.mu.Unlock()

	if attached {
		return
	}

	remove := m.ctx.AddMessageListener(m.handleBoundaryEvent)

	m.mu.Lock()

	if m.removeListener != nil {
		m.mu.Unlock()
		remove()

		return
	}

	m.removeListener = remove
	m.mu.Unlock()
}

// requestChannel posts the request control message to the parent window,
// which is resolved afresh on every call.
func (m *Manager) requestChannel() error {
	parent := m.ctx.Parent()
	if parent == nil {
		m.mu.Lock()
		m.state.pending = true
		m.mu.Unlock()

		m.log.Warn("No parent window, channel request deferred")

		return errors.ErrNoParentWindow
	}

	request := m.dialect.Control(m.dialect.RequestAction())
	if err := parent.PostMessage(request, boundary.AnyOrigin); err != nil {
		m.mu.Lock()
		m.state.pending = true
		m.mu.Unlock()

		m.log.Error("Channel request failed", "error", err)
		m.opts.ReportError(err)

		return fmt.Errorf("request channel: %w", err)
	}

	m.mu.Lock()
	m.state.requested()
	m.mu.Unlock()

	m.log.Debug("Requested channel from parent")

	return nil
}

func (m *Manager) handleBoundaryEvent(ev boundary.MessageEvent) {
	parent := m.ctx.Parent()
	if parent == nil || ev.Source != parent {
		return
	}

	if !m.dialect.IsControl(ev.Data, m.dialect.TransferAction()) {
		return
	}

	m.mu.Lock()
	active := m.refCount > 0
	m.mu.Unlock()

	if !active {
		m.discard(ev.Ports)

		return
	}

	switch len(ev.Ports) {
	case 0:
		m.log.Debug("Host had no port to transfer, asking again")

		_ = m.requestChannel()
	case 1:
		m.attach(ev.Ports[0])
	default:
		m.log.Debug("Dropping transfer with more than one port", "ports", len(ev.Ports))
		m.discard(ev.Ports)
	}
}

// discard closes transferred ports the Manager will not use, so the host
// sees its end close.
func (m *Manager) discard(ports []boundary.Port) {
	for _, p := range ports {
		if err := p.Close(); err != nil {
			m.log.Debug("Ignoring port close failure", "error", err)
		}
	}
}

// attach supersedes the current port with p and sends the handshake over it.
func (m *Manager) attach(p boundary.Port) {
	m.teardown(nil)

	m.mu.Lock()
	m.port = p
	m.state.attached()
	m.mu.Unlock()

	p.SetMessageHandler(func(data any) { m.handlePortMessage(p, data) })

	if err := p.Start(); err != nil {
		m.log.Debug("Port start failed, relying on implicit start", "error", err)
	}

	handshake := message.Message{Type: m.dialect.Type(message.ClientHandshake)}
	if err := p.PostMessage(handshake); err != nil {
		m.log.Warn("Handshake failed, dropping channel", "error", err)
		m.dropChannel(p)

		return
	}

	m.mu.Lock()

	if m.port == p {
		m.state.handshakeSent()
	}
	m.mu.Unlock()

	m.log.Info("Channel established")
}

func (m *Manager) handlePortMessage(from boundary.Port, data any) {
	msg, err := message.Parse(m.dialect, message.HostToClient, data)
	if err != nil {
		m.log.Debug("Dropping inbound data", "error", err)

		return
	}

	m.mu.Lock()

	if m.port != from {
		m.mu.Unlock()

		return
	}

	if m.state.phase != PhaseConnected {
		m.log.Info("Host connected")
	}

	m.state.received()
	subscribers := slices.Clone(m.subscribers)
	m.mu.Unlock()

	for _, s := range subscribers {
		m.deliver(s, msg)
	}
}

// deliver calls one subscriber, recovering a panic so later subscribers
// still receive the message.
func (m *Manager) deliver(s subscriber, msg message.Message) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("Message handler panicked",
				"subscriber", s.id,
				"message_type", msg.Type,
				"panic", r,
			)
		}
	}()

	s.handler(msg)
}

// dropChannel tears p down after a transport failure and asks for a new
// channel when handles are still connected.
func (m *Manager) dropChannel(p boundary.Port) {
	if !m.teardown(p) {
		return
	}

	m.mu.Lock()
	retry := m.refCount > 0
	m.mu.Unlock()

	if retry {
		_ = m.requestChannel()
	}
}

// teardown closes the held port and reports whether it did. When only is
// non-nil the port is closed only if it is still the current one.
func (m *Manager) teardown(only boundary.Port) bool {
	m.mu.Lock()

	port := m.port
	if port == nil || (only != nil && port != only) {
		m.mu.Unlock()

		return false
	}

	m.port = nil
	m.state.lost(m.refCount > 0)
	m.mu.Unlock()

	port.SetMessageHandler(nil)

	if err := port.Close(); err != nil {
		m.log.Debug("Ignoring port close failure", "error", err)
	}

	return true
}
