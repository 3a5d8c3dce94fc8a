//go:build integration

package integration

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	miniapp "github.com/wagiedev/miniapp-sdk-go"
	"github.com/wagiedev/miniapp-sdk-go/internal/loop"
	"github.com/wagiedev/miniapp-sdk-go/internal/wsframe"
)

// bridgeURLEnv names the websocket URL of a running `miniapp-bridge host`.
const bridgeURLEnv = "MINIAPP_BRIDGE_URL"

// bridgeURL skips the test unless a bridge host is available.
func bridgeURL(t *testing.T) string {
	t.Helper()

	url := os.Getenv(bridgeURLEnv)
	if url == "" {
		t.Skipf("%s not set", bridgeURLEnv)
	}

	return url
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// session is one websocket connection to the bridge with a connection
// manager on top.
type session struct {
	conn *wsframe.Conn
	mgr  *miniapp.ConnectionManager
	done chan error
	once sync.Once
}

func dial(ctx context.Context, t *testing.T, opts ...miniapp.Option) *session {
	t.Helper()

	l := loop.New(discardLogger())

	conn, err := wsframe.Dial(ctx, bridgeURL(t), l, discardLogger())
	if err != nil {
		t.Fatalf("dial bridge: %v", err)
	}

	s := &session{
		conn: conn,
		mgr:  miniapp.NewConnectionManager(conn, append([]miniapp.Option{miniapp.WithLogger(discardLogger())}, opts...)...),
		done: make(chan error, 1),
	}

	go func() { _ = l.Run(ctx) }()

	go func() {
		defer l.Stop()

		s.done <- conn.Run(ctx)
	}()

	t.Cleanup(s.close)

	return s
}

func (s *session) close() {
	s.once.Do(func() {
		_ = s.conn.Close()
		<-s.done
	})
}
