package worker

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrStopped is returned by Submit once Stop has been called.
var ErrStopped = errors.New("worker pool stopped")

// Task represents a unit of work executed by the pool.
type Task func()

// Pool runs tasks off the caller's goroutine.
type Pool interface {
	Submit(Task) error
	Stop()
}

// NewPool creates a pool with n workers. n<=0 defaults to 1.
// A panicking task is logged and does not take its worker down.
func NewPool(n int) Pool {
	if n <= 0 {
		n = 1
	}
	p := &pool{jobs: make(chan Task, n)}
	p.wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				if job != nil {
					run(job)
				}
			}
		}()
	}
	return p
}

func run(job Task) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("worker task panicked", "panic", r)
		}
	}()
	job()
}

type pool struct {
	jobs chan Task
	wg   sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
	once    sync.Once
}

// Submit queues t, blocking while every worker is busy and the queue is full.
func (p *pool) Submit(t Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return ErrStopped
	}
	p.jobs <- t
	return nil
}

// Stop waits for queued tasks to finish. Safe to call more than once.
func (p *pool) Stop() {
	p.once.Do(func() {
		p.mu.Lock()
		p.stopped = true
		close(p.jobs)
		p.mu.Unlock()
	})
	p.wg.Wait()
}
