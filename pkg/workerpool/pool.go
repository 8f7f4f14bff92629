// Package workerpool runs tasks on a fixed set of goroutines. Submit returns
// a Handle that resolves to the task's value or error; the queue between
// callers and workers is unbounded.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	apperrors "github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/corpus-search/pkg/metrics"
)

type job func()

// Pool is a fixed-size worker pool.
type Pool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []job
	closed  bool
	wg      sync.WaitGroup
	size    int
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New starts size workers. A nil m disables instrumentation.
func New(size int, m *metrics.Metrics) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		size:    size,
		metrics: m,
		logger:  slog.Default().With("component", "workerpool"),
	}
	p.cond = sync.NewCond(&p.mu)
	p.wg.Add(size)
	for i := 0; i < size; i++ {
		go p.worker(i)
	}
	p.logger.Debug("worker pool started", "workers", size)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		p.mu.Lock()
		for len(p.queue) == 0 && !p.closed {
			p.cond.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		j := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.setDepth()
		p.mu.Unlock()

		j()
	}
}

func (p *Pool) enqueue(j job) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return apperrors.ErrPoolClosed
	}
	p.queue = append(p.queue, j)
	p.setDepth()
	p.mu.Unlock()
	p.cond.Signal()
	return nil
}

// setDepth publishes the queue length. p.mu must be held so updates land in
// queue order.
func (p *Pool) setDepth() {
	if p.metrics != nil {
		p.metrics.PoolQueueDepth.Set(float64(len(p.queue)))
	}
}

// Close stops accepting tasks, lets the workers drain the queue and waits for
// them to exit. It is safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	already := p.closed
	p.closed = true
	p.mu.Unlock()
	p.cond.Broadcast()
	p.wg.Wait()
	if !already {
		p.logger.Debug("worker pool stopped")
	}
}

// Handle is the eventual result of a submitted task.
type Handle[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// Await blocks until the task finishes or ctx is cancelled. A task failure,
// including a recovered panic, is returned as the error.
func (h *Handle[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (h *Handle[T]) resolve(v T, err error) {
	h.value = v
	h.err = err
	close(h.done)
}

// Submit enqueues fn on p. Submitting to a closed pool returns a handle that
// is already resolved with ErrPoolClosed.
func Submit[T any](p *Pool, fn func() (T, error)) *Handle[T] {
	h := &Handle[T]{done: make(chan struct{})}
	err := p.enqueue(func() {
		v, err := run(fn)
		if p.metrics != nil {
			p.metrics.PoolTasksTotal.WithLabelValues(outcome(err)).Inc()
		}
		h.resolve(v, err)
	})
	if err != nil {
		var zero T
		h.resolve(zero, err)
	}
	return h
}

func run[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v = zero
			err = fmt.Errorf("%w: %v", apperrors.ErrTaskPanicked, r)
		}
	}()
	return fn()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, apperrors.ErrTaskPanicked):
		return "panic"
	default:
		return "error"
	}
}
