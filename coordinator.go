package enableapp

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Coordinator serializes log mutation for items that arrive concurrently.
//
// Submit may be called from any goroutine. Each item is cleared on its own
// worker goroutine, and the finished entry is handed to the single goroutine
// executing Run, which is the only writer of the log. Entries therefore land
// in completion order: the head of the log is always the most recently
// completed item.
type Coordinator struct {
	pipeline *Pipeline
	logger   *slog.Logger
	hooks    []func(ResultEntry)

	results chan ResultEntry
	quit    chan struct{}
	stopped chan struct{}

	mu        sync.Mutex
	idle      *sync.Cond // signaled when pending drops to zero
	closed    bool
	pending   int
	submitted int
	quitOnce  sync.Once
	stopOnce  sync.Once
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithResultHook registers fn to be called on the Run goroutine after each
// entry has been prepended. Hooks must not block for long; they delay the
// next prepend.
func WithResultHook(fn func(ResultEntry)) CoordinatorOption {
	return func(c *Coordinator) {
		if fn != nil {
			c.hooks = append(c.hooks, fn)
		}
	}
}

// WithCoordinatorLogger sets the coordinator's logger.
func WithCoordinatorLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCoordinator returns a coordinator that owns p's log.
// Nothing else should call p.Process or prepend to p.Log() while it runs.
func NewCoordinator(p *Pipeline, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		pipeline: p,
		logger:   p.logger,
		results:  make(chan ResultEntry),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	c.idle = sync.NewCond(&c.mu)
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "coordinator")
	return c
}

// Log returns the log owned by the coordinator.
func (c *Coordinator) Log() *ResultLog {
	return c.pipeline.Log()
}

// Submit queues path for processing and returns immediately.
// It returns ErrClosed after Close has been called.
func (c *Coordinator) Submit(ctx context.Context, path string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending++
	c.submitted++
	c.mu.Unlock()

	c.logger.Debug("item submitted", "path", path)
	go c.work(ctx, path)
	return nil
}

// SubmitAll submits every path, as when several items are dropped at once.
func (c *Coordinator) SubmitAll(ctx context.Context, paths ...string) error {
	var errs []error
	for _, path := range paths {
		if err := c.Submit(ctx, path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Submitted returns the number of items accepted so far.
func (c *Coordinator) Submitted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

func (c *Coordinator) work(ctx context.Context, path string) {
	entry := c.pipeline.Run(ctx, path)
	select {
	case c.results <- entry:
	case <-c.stopped:
		c.logger.Warn("coordinator stopped, result dropped", "path", path, "outcome", entry.Outcome)
		c.done()
	}
}

func (c *Coordinator) done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--
	if c.pending == 0 {
		c.idle.Broadcast()
	}
}

// Run prepends finished entries until Close is called or ctx is done.
// It must be called exactly once, and must be running for Wait and Close
// to return.
func (c *Coordinator) Run(ctx context.Context) error {
	defer c.stopOnce.Do(func() { close(c.stopped) })

	c.logger.Debug("coordinator running")
	for {
		select {
		case entry := <-c.results:
			c.pipeline.Log().Prepend(entry)
			for _, fn := range c.hooks {
				fn(entry)
			}
			c.done()
		case <-c.quit:
			c.logger.Debug("coordinator closed")
			return nil
		case <-ctx.Done():
			c.logger.Debug("coordinator canceled", "error", ctx.Err())
			return ctx.Err()
		}
	}
}

// Wait blocks until every submitted item has been prepended or dropped.
func (c *Coordinator) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pending > 0 {
		c.idle.Wait()
	}
}

// Close stops accepting submissions, waits for pending items, and makes Run
// return. It is safe to call more than once.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.Wait()
	c.quitOnce.Do(func() { close(c.quit) })
	return nil
}
