package notify_test

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plus3/whippet/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryOrder(t *testing.T) {
	n := notify.New[int]()

	var got []int
	n.Attach(func(msg int) { got = append(got, msg) })

	for i := range 100 {
		require.NoError(t, n.Broadcast(i))
	}
	require.NoError(t, n.Close())

	want := make([]int, 100)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestEveryHandlerSeesEveryMessage(t *testing.T) {
	n := notify.New[string]()

	var a, b atomic.Int32
	n.Attach(func(string) { a.Add(1) })
	n.Attach(func(string) { b.Add(1) })

	for range 10 {
		require.NoError(t, n.Broadcast("ping"))
	}
	require.NoError(t, n.Close())

	assert.Equal(t, int32(10), a.Load())
	assert.Equal(t, int32(10), b.Load())
}

func TestDetach(t *testing.T) {
	n := notify.New[int]()
	defer n.Close()

	delivered := make(chan int, 4)
	var dropped atomic.Int32

	keep := n.Attach(func(msg int) { delivered <- msg })
	drop := n.Attach(func(int) { dropped.Add(1) })

	assert.True(t, n.Detach(drop))
	assert.False(t, n.Detach(drop))
	assert.False(t, n.Detach(notify.Token(9999)))

	require.NoError(t, n.Broadcast(7))
	select {
	case msg := <-delivered:
		assert.Equal(t, 7, msg)
	case <-time.After(time.Second):
		t.Fatal("message was not delivered")
	}
	assert.Equal(t, int32(0), dropped.Load())
	assert.True(t, n.Detach(keep))
}

func TestBroadcastAfterClose(t *testing.T) {
	n := notify.New[int]()
	require.NoError(t, n.Close())

	assert.ErrorIs(t, n.Broadcast(1), notify.ErrClosed)
	assert.NoError(t, n.Close())
}

func TestConcurrentProducers(t *testing.T) {
	n := notify.New[int](notify.WithQueueCapacity(64))

	var total atomic.Int64
	n.Attach(func(msg int) { total.Add(int64(msg)) })

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 1; i <= 100; i++ {
				assert.NoError(t, n.Broadcast(i))
			}
		}()
	}
	wg.Wait()
	require.NoError(t, n.Close())

	assert.Equal(t, int64(8*5050), total.Load())
	assert.Equal(t, 0, n.Pending())
}

func TestHandlerPanicDoesNotStopWorker(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	n := notify.New[int](notify.WithLogger(logger))

	var seen atomic.Int32
	n.Attach(func(msg int) {
		if msg == 1 {
			panic("boom")
		}
		seen.Add(1)
	})

	require.NoError(t, n.Broadcast(1))
	require.NoError(t, n.Broadcast(2))
	require.NoError(t, n.Close())

	assert.Equal(t, int32(1), seen.Load())
}
