package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/miniapp-sdk-go/internal/loop"
	"github.com/wagiedev/miniapp-sdk-go/internal/wsframe"
)

const shutdownTimeout = 5 * time.Second

// serveHTTP runs srv until ctx is done, then shuts it down.
func serveHTTP(ctx context.Context, srv *http.Server, log *slog.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Listening", "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", srv.Addr, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// pump runs the event loop and the connection's frame pumps until either
// stops. A normal closure is not an error.
func pump(ctx context.Context, l *loop.Loop, conn *wsframe.Conn) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := l.Run(ctx); !stopped(err) {
			return err
		}

		return nil
	})
	g.Go(func() error {
		defer l.Stop()

		if err := conn.Run(ctx); !stopped(err) {
			return err
		}

		return nil
	})

	return g.Wait()
}

func stopped(err error) bool {
	return err == nil || stderrors.Is(err, loop.ErrStopped) || stderrors.Is(err, context.Canceled)
}
