package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const DefaultGrace = 10 * time.Second

var ErrNotRunning = errors.New("chat runtime is not running")

type task struct {
	fn     func(ctx context.Context) error
	result chan error
}

// Runtime owns the chat event loop. Incoming events and submitted tasks are
// handled one at a time, so handlers never race each other.
type Runtime struct {
	source  Source
	handler Handler
	logger  *zap.Logger

	tasks chan task

	mu      sync.Mutex
	started bool
	quit    chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc
}

func NewRuntime(source Source, handler Handler, logger *zap.Logger) *Runtime {
	return &Runtime{
		source:  source,
		handler: handler,
		logger:  logger,
		tasks:   make(chan task),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the loop in its own goroutine. Cancelling ctx does not stop
// the loop: only Stop does, after the running handler had its grace period.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return errors.New("chat runtime already started")
	}
	r.started = true

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel

	go r.loop(loopCtx)
	r.logger.Info("chat runtime started")
	return nil
}

// Stop stops polling and waits up to grace for the current handler to finish.
// After that the loop is abandoned.
func (r *Runtime) Stop(grace time.Duration) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return ErrNotRunning
	}
	select {
	case <-r.quit:
	default:
		close(r.quit)
		r.source.Stop()
	}
	r.mu.Unlock()

	timer := time.NewTimer(grace)
	defer timer.Stop()

	select {
	case <-r.done:
		r.cancel()
		r.logger.Info("chat runtime stopped")
		return nil
	case <-timer.C:
		r.cancel()
		return fmt.Errorf("chat runtime did not stop within %s", grace)
	}
}

// Submit runs fn on the loop and waits for its result.
func (r *Runtime) Submit(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	started := r.started
	r.mu.Unlock()
	if !started {
		return ErrNotRunning
	}

	t := task{fn: fn, result: make(chan error, 1)}

	select {
	case r.tasks <- t:
	case <-r.quit:
		return ErrNotRunning
	case <-r.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-t.result:
		return err
	case <-r.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runtime) loop(ctx context.Context) {
	defer close(r.done)

	events := r.source.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.quit:
			return
		case t := <-r.tasks:
			t.result <- t.fn(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			r.dispatch(ctx, ev)
		}
	}
}

func (r *Runtime) dispatch(ctx context.Context, ev Event) {
	switch {
	case ev.Callback != nil:
		r.logger.Debug("callback", zap.Int64("chat_id", ev.Callback.ChatID), zap.String("data", ev.Callback.Data))
		r.handler.HandleCallback(ctx, *ev.Callback)
	case ev.Command != nil:
		r.logger.Debug("command", zap.Int64("chat_id", ev.Command.ChatID), zap.String("command", ev.Command.Name))
		r.handler.HandleCommand(ctx, *ev.Command)
	case ev.Text != nil:
		r.logger.Debug("text", zap.Int64("chat_id", ev.Text.ChatID), zap.Int("reply_to", ev.Text.ReplyToMessageID))
		r.handler.HandleText(ctx, *ev.Text)
	}
}
