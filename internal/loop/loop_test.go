package loop

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoop_RunPending_FIFO(t *testing.T) {
	l := New(slog.Default())

	var order []int

	for i := range 5 {
		require.True(t, l.Post(func() { order = append(order, i) }))
	}

	require.Equal(t, 5, l.Pending())
	require.Equal(t, 5, l.RunPending())
	require.Equal(t, []int{0, 1, 2, 3, 4}, order)
	require.Zero(t, l.Pending())
}

func TestLoop_RunPending_DrainsNestedPosts(t *testing.T) {
	l := New(slog.Default())

	var order []string

	l.Post(func() {
		order = append(order, "outer")

		l.Post(func() { order = append(order, "inner") })
	})
	l.Post(func() { order = append(order, "second") })

	require.Equal(t, 3, l.RunPending())
	require.Equal(t, []string{"outer", "second", "inner"}, order)
}

func TestLoop_PanickingTaskDoesNotStopLoop(t *testing.T) {
	l := New(slog.Default())

	ran := false

	l.Post(func() { panic("boom") })
	l.Post(func() { ran = true })

	require.NotPanics(t, func() { l.RunPending() })
	require.True(t, ran)
}

func TestLoop_Run(t *testing.T) {
	l := New(slog.Default())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)

	go func() { errCh <- l.Run(ctx) }()

	var count atomic.Int32

	for range 10 {
		l.Post(func() { count.Add(1) })
	}

	require.Eventually(t, func() bool { return count.Load() == 10 }, time.Second, time.Millisecond)

	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLoop_Stop(t *testing.T) {
	l := New(slog.Default())

	errCh := make(chan error, 1)

	go func() { errCh <- l.Run(context.Background()) }()

	l.Stop()
	l.Stop()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, ErrStopped)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Stop")
	}

	require.False(t, l.Post(func() {}))
	require.Zero(t, l.Pending())
}
