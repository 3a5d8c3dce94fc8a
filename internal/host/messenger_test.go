package host

import (
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wagiedev/miniapp-sdk-go/internal/boundary"
	"github.com/wagiedev/miniapp-sdk-go/internal/boundary/mocks"
	"github.com/wagiedev/miniapp-sdk-go/internal/config"
	"github.com/wagiedev/miniapp-sdk-go/internal/errors"
	"github.com/wagiedev/miniapp-sdk-go/internal/loop"
	"github.com/wagiedev/miniapp-sdk-go/internal/memframe"
	"github.com/wagiedev/miniapp-sdk-go/internal/message"
)

// harness wires a host messenger to an in-process page embedding one frame.
// The frame document stands in for the mini app and records what it receives.
type harness struct {
	loop  *loop.Loop
	page  *memframe.Document
	frame *memframe.Frame
	host  *Messenger

	frameEvents []boundary.MessageEvent
	received    []message.Message
	states      []bool
}

func newHarness(t *testing.T, opts *config.Options) *harness {
	t.Helper()

	if opts == nil {
		opts = &config.Options{}
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	h := &harness{loop: loop.New(slog.Default())}
	h.page = memframe.NewDocument(h.loop, "host")
	h.frame = h.page.Embed("mini-app")
	h.host = New(h.page, h.frame.ContentWindow, opts)

	h.frame.Document().AddMessageListener(func(ev boundary.MessageEvent) {
		h.frameEvents = append(h.frameEvents, ev)
	})
	h.host.SetMessageHandler(func(msg message.Message) { h.received = append(h.received, msg) })
	h.host.SetConnectionStateHandler(func(connected bool) { h.states = append(h.states, connected) })

	return h
}

// requestChannel asks the host for a channel from the frame and returns the
// transferred port.
func (h *harness) requestChannel(t *testing.T, d *message.Dialect) boundary.Port {
	t.Helper()

	before := len(h.frameEvents)

	require.NoError(t, h.frame.Document().Parent().PostMessage(d.Control(d.RequestAction()), boundary.AnyOrigin))
	h.loop.RunPending()

	require.Len(t, h.frameEvents, before+1, "host should answer the request")

	ev := h.frameEvents[before]
	require.True(t, d.IsControl(ev.Data, d.TransferAction()))
	require.Len(t, ev.Ports, 1)

	return ev.Ports[0]
}

func TestMessenger_SendBeforeChannel(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	require.False(t, h.host.Send("themeChanged", &message.ThemeChangedPayload{Theme: message.ThemeDark}))
	require.ErrorIs(t, h.host.Post("themeChanged", nil), errors.ErrNoChannel)

	h.loop.RunPending()
	require.Empty(t, h.frameEvents)
}

func TestMessenger_SendUnknownType(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	port := h.requestChannel(t, message.DialectFlat)

	var got []any

	port.SetMessageHandler(func(data any) { got = append(got, data) })

	require.False(t, h.host.Send("launchMissiles", nil))
	require.False(t, h.host.Send("urlChanged", nil), "client types are not host types")
	require.False(t, h.host.Send("host:themeChanged", nil), "namespaced types are not flat types")
	require.ErrorIs(t, h.host.Post("launchMissiles", nil), errors.ErrUnknownMessageType)

	h.loop.RunPending()
	require.Empty(t, got)
}

func TestMessenger_ConnectIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)

	h.host.Connect()
	h.host.Connect()
	require.Equal(t, 1, h.page.ListenerCount())

	h.host.Disconnect()
	require.Zero(t, h.page.ListenerCount())

	h.host.Disconnect()
	require.Zero(t, h.page.ListenerCount())
}

func TestMessenger_Handshake(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	require.Equal(t, []bool{false}, h.states, "state handler is called on registration")

	port := h.requestChannel(t, message.DialectFlat)
	require.Equal(t, StateAwaitingConnection, h.host.State())
	require.False(t, h.host.IsConnected())

	require.NoError(t, port.PostMessage(map[string]any{"type": "handshake"}))
	h.loop.RunPending()

	require.True(t, h.host.IsConnected())
	require.Equal(t, StateConnected, h.host.State())
	require.Equal(t, []bool{false, true}, h.states)

	require.Len(t, h.received, 1)
	require.Equal(t, message.ClientHandshake, h.received[0].Kind)

	var got []any

	port.SetMessageHandler(func(data any) { got = append(got, data) })

	require.True(t, h.host.Send("tipUpdated", message.TipUpdatedPayload{"slot": 42}))
	h.loop.RunPending()

	require.Equal(t, []any{
		map[string]any{"type": "tipUpdated", "payload": map[string]any{"slot": 42.0}},
	}, got)
}

func TestMessenger_SendWithID(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	port := h.requestChannel(t, message.DialectFlat)

	var got []any

	port.SetMessageHandler(func(data any) { got = append(got, data) })

	require.True(t, h.host.SendWithID("req-7", "signResponse", &message.TxResponsePayload{
		Status: message.TxStatusSuccess,
		TxHash: "abc",
	}))
	h.loop.RunPending()

	require.Equal(t, []any{map[string]any{
		"type":    "signResponse",
		"id":      "req-7",
		"payload": map[string]any{"status": "success", "txHash": "abc"},
	}}, got)
}

func TestMessenger_SendRejectsMismatchedPayload(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	port := h.requestChannel(t, message.DialectFlat)

	var got []any

	port.SetMessageHandler(func(data any) { got = append(got, data) })

	require.False(t, h.host.Send("themeChanged", &message.NetworkChangedPayload{Network: message.NetworkMainnet}))
	require.ErrorIs(t, h.host.Post("tipUpdated", map[string]any{"slot": 1.0}), errors.ErrMalformedMessage)
	require.ErrorIs(t, h.host.Post("signResponse", "ok"), errors.ErrMalformedMessage)
	require.True(t, h.host.Send("themeChanged", message.ThemeChangedPayload{Theme: message.ThemeDark}))
	require.True(t, h.host.Send("networkChanged", nil))
	h.loop.RunPending()

	require.Equal(t, []any{
		map[string]any{"type": "themeChanged", "payload": map[string]any{"theme": "dark"}},
		map[string]any{"type": "networkChanged"},
	}, got)
}

func TestMessenger_IgnoresForeignSources(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	other := h.page.Embed("other-app")
	d := message.DialectFlat

	require.NoError(t, other.Document().Parent().PostMessage(d.Control(d.RequestAction()), boundary.AnyOrigin))
	h.loop.RunPending()

	require.Empty(t, h.frameEvents)
	require.Equal(t, StateIdle, h.host.State())
}

func TestMessenger_IgnoresUnrelatedBoundaryTraffic(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	parent := h.frame.Document().Parent()
	for _, data := range []any{
		"requestChannel",
		[]any{"requestChannel"},
		map[string]any{"__miniAppSdk": "channelTransferred"},
		map[string]any{"__miniAppSdk": "requestPort"},
		map[string]any{"type": "handshake"},
	} {
		require.NoError(t, parent.PostMessage(data, boundary.AnyOrigin))
	}

	h.loop.RunPending()
	require.Empty(t, h.frameEvents)
}

func TestMessenger_FollowsReloadedFrame(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	h.requestChannel(t, message.DialectFlat)

	fresh := h.frame.Reload()

	var events []boundary.MessageEvent

	fresh.AddMessageListener(func(ev boundary.MessageEvent) { events = append(events, ev) })

	d := message.DialectFlat
	require.NoError(t, fresh.Parent().PostMessage(d.Control(d.RequestAction()), boundary.AnyOrigin))
	h.loop.RunPending()

	require.Len(t, events, 1)
	require.Len(t, events[0].Ports, 1)
}

func TestMessenger_NewRequestSupersedesChannel(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	first := h.requestChannel(t, message.DialectFlat)
	require.NoError(t, first.PostMessage(map[string]any{"type": "handshake"}))
	h.loop.RunPending()
	require.True(t, h.host.IsConnected())

	second := h.requestChannel(t, message.DialectFlat)

	require.ErrorIs(t, first.PostMessage(map[string]any{"type": "handshake"}), errors.ErrPortClosed)
	require.False(t, h.host.IsConnected(), "a fresh channel starts unconfirmed")
	require.Equal(t, []bool{false, true, false}, h.states)

	require.NoError(t, second.PostMessage(map[string]any{"type": "urlChanged", "payload": map[string]any{"url": "/a"}}))
	h.loop.RunPending()

	require.True(t, h.host.IsConnected())
	require.Len(t, h.received, 2)
	require.Equal(t, &message.URLChangedPayload{URL: "/a"}, h.received[1].Payload)
}

func TestMessenger_DropsMalformedPortData(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	port := h.requestChannel(t, message.DialectFlat)

	for _, data := range []any{
		nil,
		"handshake",
		[]any{map[string]any{"type": "handshake"}},
		map[string]any{"kind": "handshake"},
		map[string]any{"type": 1},
		map[string]any{"type": "themeChanged"},
		map[string]any{"type": "urlChanged", "payload": "not-an-object"},
	} {
		require.NoError(t, port.PostMessage(data))
	}

	h.loop.RunPending()

	require.Empty(t, h.received)
	require.False(t, h.host.IsConnected())
	require.Equal(t, StateAwaitingConnection, h.host.State())
}

func TestMessenger_PortWriteFailureDropsChannel(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	port := h.requestChannel(t, message.DialectFlat)
	require.NoError(t, port.PostMessage(map[string]any{"type": "handshake"}))
	h.loop.RunPending()
	require.True(t, h.host.IsConnected())

	require.NoError(t, port.Close())

	err := h.host.Post("themeChanged", &message.ThemeChangedPayload{Theme: message.ThemeLight})
	require.ErrorIs(t, err, errors.ErrPortClosed)
	require.False(t, h.host.IsConnected())
	require.Equal(t, StateIdle, h.host.State())

	require.ErrorIs(t, h.host.Post("themeChanged", nil), errors.ErrNoChannel)
}

func TestMessenger_Disconnect(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	port := h.requestChannel(t, message.DialectFlat)
	require.NoError(t, port.PostMessage(map[string]any{"type": "handshake"}))
	h.loop.RunPending()

	h.host.Disconnect()

	require.False(t, h.host.IsConnected())
	require.False(t, h.host.Send("themeChanged", nil))
	require.ErrorIs(t, port.PostMessage(map[string]any{"type": "handshake"}), errors.ErrPortClosed)

	d := message.DialectFlat
	require.NoError(t, h.frame.Document().Parent().PostMessage(d.Control(d.RequestAction()), boundary.AnyOrigin))
	h.loop.RunPending()
	require.Len(t, h.frameEvents, 1, "no channel is created after disconnect")
}

func TestMessenger_NamespacedHandshakeEcho(t *testing.T) {
	h := newHarness(t, &config.Options{
		Dialect: message.DialectNamespaced,
		HandshakePayload: func() message.HandshakePayload {
			return message.HandshakePayload{
				Network:      message.NetworkPreprod,
				Theme:        message.ThemeDark,
				HideBalances: true,
				Explorer:     message.ExplorerCexplorer,
			}
		},
	})
	h.host.Connect()

	port := h.requestChannel(t, message.DialectNamespaced)

	var got []any

	port.SetMessageHandler(func(data any) { got = append(got, data) })

	require.NoError(t, port.PostMessage(map[string]any{"type": "client:handshake"}))
	h.loop.RunPending()

	require.True(t, h.host.IsConnected())
	require.Equal(t, []any{map[string]any{
		"type": "host:handshake",
		"payload": map[string]any{
			"network":      "preprod",
			"theme":        "dark",
			"hideBalances": true,
			"explorer":     "cexplorer",
		},
	}}, got)
}

func TestMessenger_FlatDialectDoesNotEcho(t *testing.T) {
	h := newHarness(t, nil)
	h.host.Connect()

	port := h.requestChannel(t, message.DialectFlat)

	var got []any

	port.SetMessageHandler(func(data any) { got = append(got, data) })

	require.NoError(t, port.PostMessage(map[string]any{"type": "handshake"}))
	h.loop.RunPending()

	require.True(t, h.host.IsConnected())
	require.Empty(t, got)
}

// fakeContext is a HostContext whose boundary events are injected by the test.
type fakeContext struct {
	loop      *loop.Loop
	listeners []func(boundary.MessageEvent)
}

func (c *fakeContext) AddMessageListener(fn func(boundary.MessageEvent)) func() {
	c.listeners = append(c.listeners, fn)

	return func() { c.listeners = nil }
}

func (c *fakeContext) NewChannel() (boundary.Port, boundary.Port) {
	return memframe.NewChannel(c.loop)
}

func (c *fakeContext) emit(ev boundary.MessageEvent) {
	for _, fn := range c.listeners {
		fn(ev)
	}
}

func TestMessenger_TransferFailurePropagates(t *testing.T) {
	ctrl := gomock.NewController(t)

	target := mocks.NewMockWindow(ctrl)
	cause := stderrors.New("frame navigated away")

	target.EXPECT().
		PostMessage(map[string]any{"__miniAppSdk": "channelTransferred"}, boundary.AnyOrigin, gomock.Any()).
		Return(cause).
		Times(2)

	var reported []error

	ctx := &fakeContext{loop: loop.New(slog.Default())}
	m := New(ctx, func() boundary.Window { return target }, &config.Options{
		Logger:       slog.Default(),
		ErrorHandler: func(err error) { reported = append(reported, err) },
	})
	m.Connect()

	err := m.EstablishChannel()
	require.ErrorIs(t, err, cause)

	transferErr, ok := stderrors.AsType[*errors.TransferError](err)
	require.True(t, ok)
	require.ErrorIs(t, transferErr.Err, cause)

	require.Equal(t, StateIdle, m.State())
	require.False(t, m.Send("themeChanged", nil))

	ctx.emit(boundary.MessageEvent{
		Data:   map[string]any{"__miniAppSdk": "requestChannel"},
		Source: target,
	})

	require.Len(t, reported, 1)
	require.ErrorIs(t, reported[0], cause)
	require.Equal(t, StateIdle, m.State())
}

func TestMessenger_NoTargetWindow(t *testing.T) {
	ctx := &fakeContext{loop: loop.New(slog.Default())}
	m := New(ctx, func() boundary.Window { return nil }, nil)

	require.ErrorIs(t, m.EstablishChannel(), errors.ErrNoTargetWindow)
}

func TestMessenger_ClosesPortDespiteCloseError(t *testing.T) {
	ctrl := gomock.NewController(t)

	keep := mocks.NewMockPort(ctrl)
	give := mocks.NewMockPort(ctrl)
	target := mocks.NewMockWindow(ctrl)

	keep.EXPECT().SetMessageHandler(gomock.Not(gomock.Nil()))
	keep.EXPECT().Start().Return(stderrors.New("already started"))
	target.EXPECT().PostMessage(gomock.Any(), boundary.AnyOrigin, give).Return(nil)

	ctx := &portContext{keep: keep, give: give}
	m := New(ctx, func() boundary.Window { return target }, nil)

	require.NoError(t, m.EstablishChannel())
	require.Equal(t, StateAwaitingConnection, m.State())

	keep.EXPECT().SetMessageHandler(gomock.Nil())
	keep.EXPECT().Close().Return(stderrors.New("already closed"))

	require.NotPanics(t, m.Disconnect)
	require.Equal(t, StateIdle, m.State())
}

// portContext hands out a fixed port pair.
type portContext struct {
	keep, give boundary.Port
}

func (c *portContext) AddMessageListener(func(boundary.MessageEvent)) func() { return func() {} }

func (c *portContext) NewChannel() (boundary.Port, boundary.Port) { return c.keep, c.give }
