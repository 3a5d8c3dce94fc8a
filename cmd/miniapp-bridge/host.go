package main

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"

	miniapp "github.com/wagiedev/miniapp-sdk-go"
	"github.com/wagiedev/miniapp-sdk-go/internal/loop"
	"github.com/wagiedev/miniapp-sdk-go/internal/metrics"
	"github.com/wagiedev/miniapp-sdk-go/internal/wsframe"
)

const roleHost = "host"

// responseKinds maps each transaction request to its response.
var responseKinds = map[miniapp.Kind]miniapp.Kind{
	miniapp.ClientSignRequest:          miniapp.HostSignResponse,
	miniapp.ClientSubmitRequest:        miniapp.HostSubmitResponse,
	miniapp.ClientSignAndSubmitRequest: miniapp.HostSignAndSubmitResponse,
}

// hostBridge accepts frame connections and serves a host messenger on each.
type hostBridge struct {
	cfg     bridgeConfig
	log     *slog.Logger
	metrics *metrics.Metrics
}

func newHostBridge(cfg bridgeConfig, log *slog.Logger, m *metrics.Metrics) *hostBridge {
	return &hostBridge{
		cfg:     cfg,
		log:     log.With("component", "host_bridge"),
		metrics: m,
	}
}

func runHost(ctx context.Context, cfg bridgeConfig, log *slog.Logger) error {
	m := metrics.New()

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, newHostBridge(cfg, log, m))

	if cfg.MetricsAddr == "" {
		mux.Handle("/metrics", m.Handler())
	} else {
		go func() {
			if err := serveHTTP(ctx, metricsServer(cfg.MetricsAddr, m), log); err != nil {
				log.Error("Metrics server failed", "error", err)
			}
		}()
	}

	return serveHTTP(ctx, &http.Server{
		Addr:              cfg.Listen,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}, log)
}

func metricsServer(addr string, m *metrics.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	return &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
}

func (b *hostBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := loop.New(b.log)

	conn, err := wsframe.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: b.cfg.Origins}, l, b.log)
	if err != nil {
		b.log.Warn("Frame connection rejected", "remote", r.RemoteAddr, "error", err)

		return
	}

	log := b.log.With("remote", r.RemoteAddr)
	log.Info("Frame connected")

	host := miniapp.NewHostMessenger(conn, conn.Remote,
		miniapp.WithLogger(log),
		miniapp.WithDialect(b.cfg.Dialect),
		miniapp.WithHandshakePayload(func() miniapp.HandshakePayload { return b.cfg.State }),
		miniapp.WithErrorHandler(func(err error) {
			if _, ok := stderrors.AsType[*miniapp.TransferError](err); ok {
				b.metrics.RecordTransferFailure()
			}
		}),
	)
	host.SetConnectionStateHandler(func(connected bool) {
		b.metrics.RecordConnection(roleHost, connected)
	})
	host.SetMessageHandler(func(msg miniapp.Message) { b.handle(host, msg) })
	host.Connect()

	defer host.Disconnect()

	if err := pump(r.Context(), l, conn); err != nil {
		log.Warn("Frame connection failed", "error", err)

		return
	}

	log.Info("Frame disconnected")
}

func (b *hostBridge) handle(host *miniapp.HostMessenger, msg miniapp.Message) {
	b.metrics.RecordMessage(roleHost, miniapp.ClientToHost, msg.Type)
	b.log.Info("Client message", "type", msg.Type, "id", msg.ID)

	switch msg.Kind {
	case miniapp.ClientHandshake:
		if !b.cfg.Dialect.EchoesHandshake() {
			b.announceState(host)
		}
	case miniapp.ClientURLChanged:
		if p, ok := msg.Payload.(*miniapp.URLChangedPayload); ok {
			b.log.Info("Mini app navigated", "url", p.URL)
		}
	case miniapp.ClientSignRequest, miniapp.ClientSubmitRequest, miniapp.ClientSignAndSubmitRequest:
		b.send(host, msg.ID, responseKinds[msg.Kind], &miniapp.TxResponsePayload{
			Status:       miniapp.TxStatusError,
			ErrorMessage: "the bridge holds no wallet keys",
		})
	}
}

// announceState sends the configured state as change messages. Dialects
// without a host handshake rely on this to initialize the mini app.
func (b *hostBridge) announceState(host *miniapp.HostMessenger) {
	s := b.cfg.State

	b.send(host, "", miniapp.HostNetworkChanged, &miniapp.NetworkChangedPayload{Network: s.Network})
	b.send(host, "", miniapp.HostThemeChanged, &miniapp.ThemeChangedPayload{Theme: s.Theme})
	b.send(host, "", miniapp.HostHideBalanceChanged, &miniapp.HideBalanceChangedPayload{HideBalances: s.HideBalances})
	b.send(host, "", miniapp.HostExplorerChanged, &miniapp.ExplorerChangedPayload{Explorer: s.Explorer})
}

func (b *hostBridge) send(host *miniapp.HostMessenger, id string, kind miniapp.Kind, payload any) {
	t := b.cfg.Dialect.Type(kind)

	ok := host.SendWithID(id, t, payload)
	if !ok {
		b.metrics.RecordSendFailure(roleHost, t)
		b.log.Warn("Send failed", "type", t)

		return
	}

	b.metrics.RecordMessage(roleHost, miniapp.HostToClient, t)
}
