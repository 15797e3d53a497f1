package worker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	p := NewPool(3)
	var mu sync.Mutex
	count := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, p.Submit(func() {
			mu.Lock()
			count++
			mu.Unlock()
		}))
	}
	p.Stop()
	require.Equal(t, 5, count)
}

func TestPoolDefaultsToOneWorker(t *testing.T) {
	p := NewPool(0)
	var n int32
	require.NoError(t, p.Submit(func() { atomic.AddInt32(&n, 1) }))
	require.NoError(t, p.Submit(nil))
	p.Stop()
	require.Equal(t, int32(1), atomic.LoadInt32(&n))
}

func TestPoolSubmitAfterStop(t *testing.T) {
	p := NewPool(1)
	p.Stop()
	p.Stop()
	require.ErrorIs(t, p.Submit(func() {}), ErrStopped)
}

func TestPoolSurvivesPanic(t *testing.T) {
	p := NewPool(1)
	done := make(chan struct{})
	require.NoError(t, p.Submit(func() { panic("boom") }))
	require.NoError(t, p.Submit(func() { close(done) }))
	<-done
	p.Stop()
}
