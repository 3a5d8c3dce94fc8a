package host

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/wagiedev/miniapp-sdk-go/internal/boundary"
	"github.com/wagiedev/miniapp-sdk-go/internal/config"
	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
	"github.com/wagiedev/miniapp-sdk-go/internal/message"
)

// Handler receives messages sent by the embedded mini app.
type Handler func(message.Message)

// Messenger is the host side of the frame channel.
//
// All methods are safe for concurrent use. Callbacks are never invoked with
// internal locks held, so handlers may call back into the Messenger.
type Messenger struct {
	log     *slog.Logger
	opts    *config.Options
	dialect *message.Dialect
	ctx     boundary.HostContext
	target  func() boundary.Window

	mu             sync.Mutex
	port           boundary.Port
	state          channelState
	removeListener func()
	handler        Handler
	stateHandler   func(connected bool)
}

// New creates a host messenger for the frame whose window target returns.
//
// target is called on every boundary event and every channel establishment,
// since the embedded window changes whenever the frame reloads. It may
// return nil while no frame is present.
func New(ctx boundary.HostContext, target func() boundary.Window, opts *config.Options) *Messenger {
	opts = opts.Normalize()

	return &Messenger{
		log:     opts.Logger.With("component", "host_messenger", "dialect", opts.Dialect.Name()),
		opts:    opts,
		dialect: opts.Dialect,
		ctx:     ctx,
		target:  target,
	}
}

// Connect starts listening for channel requests from the target window.
// Calling Connect while already listening is a no-op.
func (m *Messenger) Connect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.removeListener != nil {
		return
	}

	m.removeListener = m.ctx.AddMessageListener(m.handleBoundaryEvent)

	m.log.Debug("Listening for channel requests")
}

// Disconnect stops listening for channel requests and closes the current
// channel. It is safe to call when already disconnected.
func (m *Messenger) Disconnect() {
	m.mu.Lock()
	remove := m.removeListener
	m.removeListener = nil
	m.mu.Unlock()

	if remove != nil {
		remove()
		m.log.Debug("Stopped listening for channel requests")
	}

	m.teardown(nil)
}

// EstablishChannel replaces any current channel with a fresh port pair and
// transfers one port to the target window.
//
// If the transfer fails the new pair is closed and a *errors.TransferError is
// returned. The failure is not retried: the mini app has to ask again.
func (m *Messenger) EstablishChannel() error {
	target := m.target()
	if target == nil {
		return errors.ErrNoTargetWindow
	}

	// Superseded channels are discarded without draining.
	m.teardown(nil)

	keep, give := m.ctx.NewChannel()

	m.mu.Lock()
	m.port = keep
	changed := m.state.transition(StateAwaitingConnection)
	m.mu.Unlock()

	m.notifyState(changed)

	keep.SetMessageHandler(func(data any) { m.handlePortMessage(keep, data) })

	if err := keep.Start(); err != nil {
		m.log.Debug("Port start failed, relying on implicit start", "error", err)
	}

	transfer := m.dialect.Control(m.dialect.TransferAction())
	if err := target.PostMessage(transfer, boundary.AnyOrigin, give); err != nil {
		m.teardown(keep)

		if closeErr := give.Close(); closeErr != nil {
			m.log.Debug("Failed to close untransferred port", "error", closeErr)
		}

		return &errors.TransferError{Err: err}
	}

	m.log.Info("Channel port transferred to frame")

	return nil
}

// Send posts a typed message to the mini app. It reports false, without side
// effects, when t is not a host message type, payload does not match t or
// no channel exists.
func (m *Messenger) Send(t message.Type, payload any) bool {
	return m.Post(t, payload) == nil
}

// SendWithID is Send with a correlation id set on the message.
func (m *Messenger) SendWithID(id string, t message.Type, payload any) bool {
	return m.post(message.Message{Type: t, ID: id, Payload: payload}) == nil
}

// Post is Send returning the reason for a failure.
func (m *Messenger) Post(t message.Type, payload any) error {
	return m.post(message.Message{Type: t, Payload: payload})
}

func (m *Messenger) post(msg message.Message) error {
	if err := message.Validate(m.dialect, message.HostToClient, msg); err != nil {
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
		m.teardown(port)

		return fmt.Errorf("post %s: %w", msg.Type, err)
	}

	return nil
}

// SetMessageHandler sets the handler for messages from the mini app.
// A nil handler discards them.
func (m *Messenger) SetMessageHandler(handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handler = handler
}

// SetConnectionStateHandler sets a handler for connected-flag transitions.
// The handler is called immediately with the current state.
func (m *Messenger) SetConnectionStateHandler(handler func(connected bool)) {
	m.mu.Lock()
	m.stateHandler = handler
	connected := m.state.connected()
	m.mu.Unlock()

	if handler != nil {
		handler(connected)
	}
}

// IsConnected reports whether a message has arrived over the current channel.
func (m *Messenger) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.connected()
}

// State returns the current lifecycle phase.
func (m *Messenger) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.phase
}

func (m *Messenger) handleBoundaryEvent(ev boundary.MessageEvent) {
	target := m.target()
	if target == nil || ev.Source != target {
		return
	}

	if !m.dialect.IsControl(ev.Data, m.dialect.RequestAction()) {
		return
	}

	m.log.Debug("Received channel request")

	if err := m.EstablishChannel(); err != nil {
		m.log.Error("Failed to establish channel", "error", err)
		m.opts.ReportError(err)
	}
}

func (m *Messenger) handlePortMessage(from boundary.Port, data any) {
	msg, err := message.Parse(m.dialect, message.ClientToHost, data)
	if err != nil {
		m.log.Debug("Dropping inbound data", "error", err)

		return
	}

	m.mu.Lock()

	if m.port != from {
		m.mu.Unlock()

		return
	}

	changed := m.state.transition(StateConnected)
	handler := m.handler
	m.mu.Unlock()

	if changed {
		m.log.Info("Frame connected")
	}

	m.notifyState(changed)

	if msg.Kind == message.ClientHandshake && m.dialect.EchoesHandshake() {
		m.echoHandshake()
	}

	if handler != nil {
		handler(msg)
	}
}

func (m *Messenger) echoHandshake() {
	var payload any

	if m.opts.HandshakePayload != nil {
		p := m.opts.HandshakePayload()
		payload = &p
	}

	if err := m.Post(m.dialect.Type(message.HostHandshake), payload); err != nil {
		m.log.Warn("Failed to answer handshake", "error", err)
	}
}

// teardown closes the retained port. When only is non-nil the port is closed
// only if it is still the current one.
func (m *Messenger) teardown(only boundary.Port) {
	m.mu.Lock()

	port := m.port
	if port == nil || (only != nil && port != only) {
		m.mu.Unlock()

		return
	}

	m.port = nil
	changed := m.state.transition(StateIdle)
	m.mu.Unlock()

	port.SetMessageHandler(nil)

	if err := port.Close(); err != nil {
		m.log.Debug("Ignoring port close failure", "error", err)
	}

	m.notifyState(changed)
}

func (m *Messenger) notifyState(changed bool) {
	if !changed {
		return
	}

	m.mu.Lock()
	handler := m.stateHandler
	connected := m.state.connected()
	m.mu.Unlock()

	if handler != nil {
		handler(connected)
	}
}
