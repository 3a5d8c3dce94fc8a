package main

import (
	"context"
	"log/slog"
	"sync"

	miniapp "github.com/wagiedev/miniapp-sdk-go"
	"github.com/wagiedev/miniapp-sdk-go/internal/loop"
	"github.com/wagiedev/miniapp-sdk-go/internal/metrics"
	"github.com/wagiedev/miniapp-sdk-go/internal/wsframe"
)

const roleClient = "client"

func runClient(ctx context.Context, cfg bridgeConfig, log *slog.Logger) error {
	log = log.With("component", "client_bridge")

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		go func() {
			if err := serveHTTP(ctx, metricsServer(cfg.MetricsAddr, m), log); err != nil {
				log.Error("Metrics server failed", "error", err)
			}
		}()
	}

	l := loop.New(log)

	conn, err := wsframe.Dial(ctx, cfg.URL, l, log)
	if err != nil {
		return err
	}

	mgr := miniapp.NewConnectionManager(conn,
		miniapp.WithLogger(log),
		miniapp.WithDialect(cfg.Dialect),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pumpErr := make(chan error, 1)

	go func() {
		pumpErr <- pump(ctx, l, conn)

		cancel()
	}()

	var reported sync.Once

	err = miniapp.WithClientMessenger(ctx, mgr,
		func(msg miniapp.Message) {
			m.RecordMessage(roleClient, miniapp.HostToClient, msg.Type)
			log.Info("Host message", "type", msg.Type, "payload", msg.Payload)

			reported.Do(func() {
				m.RecordConnection(roleClient, true)

				t := cfg.Dialect.Type(miniapp.ClientURLChanged)
				if !mgr.Send(t, &miniapp.URLChangedPayload{URL: cfg.ClientURL}) {
					m.RecordSendFailure(roleClient, t)
				}
			})
		},
		func(*miniapp.ClientMessenger) error {
			<-ctx.Done()

			return nil
		},
	)

	_ = conn.Close()

	if pErr := <-pumpErr; pErr != nil {
		return pErr
	}

	return err
}
