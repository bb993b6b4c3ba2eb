package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is a background side effect. Its error is logged, never returned.
type Task func(ctx context.Context) error

type job struct {
	name string
	fn   Task
}

// Dispatcher runs fire-and-forget tasks on a bounded queue.
type Dispatcher struct {
	jobs    chan job
	timeout time.Duration
	logger  *zap.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher starts workers goroutines draining a queue of size slots.
func NewDispatcher(workers, size int, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	d := &Dispatcher{
		jobs:    make(chan job, size),
		timeout: timeout,
		logger:  logger,
	}
	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.work()
	}
	return d
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for j := range d.jobs {
		d.run(j)
	}
}

func (d *Dispatcher) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("background task panicked", zap.String("task", j.name), zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := j.fn(ctx); err != nil {
		d.logger.Warn("background task failed", zap.String("task", j.name), zap.Error(err))
	}
}

// Dispatch queues fn without blocking. It reports false when the task was
// dropped because the queue is full or the dispatcher is closed.
func (d *Dispatcher) Dispatch(name string, fn Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return false
	}

	select {
	case d.jobs <- job{name: name, fn: fn}:
		return true
	default:
		d.logger.Warn("background queue full, dropping task", zap.String("task", name))
		return false
	}
}

// Close stops accepting tasks and waits for queued ones to finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.jobs)
	d.mu.Unlock()

	d.wg.Wait()
}
