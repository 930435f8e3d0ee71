// Package notify implements an asynchronous publish/subscribe notifier.
//
// A Notifier owns one worker goroutine. Broadcast queues a message and
// returns; the worker delivers messages in queue order to every handler
// attached at delivery time. The order in which handlers see one message is
// unspecified.
package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kamstrup/intmap"
)

var ErrClosed = errors.New("notify: notifier is closed")

// Token identifies an attached handler.
type Token uint64

// Option configures a Notifier.
type Option func(*config)

type config struct {
	logger   *slog.Logger
	capacity int
}

// WithLogger sets the logger that reports handler panics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithQueueCapacity preallocates room for n pending messages.
func WithQueueCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// Notifier fans messages of type E out to attached handlers.
type Notifier[E any] struct {
	handlers struct {
		mu     sync.Mutex
		active *intmap.Map[Token, func(E)]
		next   Token
	}

	queue struct {
		mu        sync.Mutex
		cond      *sync.Cond
		messages  []E
		terminate bool
	}

	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// New creates a notifier and starts its worker.
func New[E any](opts ...Option) *Notifier[E] {
	cfg := config{logger: slog.Default(), capacity: 16}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := &Notifier[E]{
		done:   make(chan struct{}),
		logger: cfg.logger,
	}
	n.handlers.active = intmap.New[Token, func(E)](8)
	n.queue.cond = sync.NewCond(&n.queue.mu)
	n.queue.messages = make([]E, 0, cfg.capacity)

	go n.run()
	return n
}

// Attach registers a handler and returns the token that detaches it.
// Handlers run on the worker goroutine and must not call Attach or Detach.
func (n *Notifier[E]) Attach(handler func(E)) Token {
	n.handlers.mu.Lock()
	defer n.handlers.mu.Unlock()

	n.handlers.next++
	token := n.handlers.next
	n.handlers.active.Put(token, handler)
	return token
}

// Detach removes a handler. It reports false if the token was unknown.
func (n *Notifier[E]) Detach(token Token) bool {
	n.handlers.mu.Lock()
	defer n.handlers.mu.Unlock()

	if _, ok := n.handlers.active.Get(token); !ok {
		return false
	}
	n.handlers.active.Del(token)
	return true
}

// Broadcast queues msg for delivery.
func (n *Notifier[E]) Broadcast(msg E) error {
	n.queue.mu.Lock()
	defer n.queue.mu.Unlock()

	if n.queue.terminate {
		return ErrClosed
	}
	n.queue.messages = append(n.queue.messages, msg)
	n.queue.cond.Broadcast()
	return nil
}

// Pending returns the number of queued, undelivered messages.
func (n *Notifier[E]) Pending() int {
	n.queue.mu.Lock()
	defer n.queue.mu.Unlock()
	return len(n.queue.messages)
}

// Close stops accepting messages, waits for the worker to deliver what is
// already queued and then stops it. Close is idempotent.
func (n *Notifier[E]) Close() error {
	n.once.Do(func() {
		n.queue.mu.Lock()
		n.queue.terminate = true
		n.queue.cond.Broadcast()
		n.queue.mu.Unlock()
	})
	<-n.done
	return nil
}

func (n *Notifier[E]) run() {
	defer close(n.done)

	for {
		msg, ok := n.pull()
		if !ok {
			return
		}
		n.deliver(msg)
	}
}

// pull blocks until a message is queued or the notifier is terminating. It
// reports false only once the queue is drained after termination.
func (n *Notifier[E]) pull() (E, bool) {
	n.queue.mu.Lock()
	defer n.queue.mu.Unlock()

	for len(n.queue.messages) == 0 && !n.queue.terminate {
		n.queue.cond.Wait()
	}

	var zero E
	if len(n.queue.messages) == 0 {
		return zero, false
	}

	msg := n.queue.messages[0]
	n.queue.messages[0] = zero
	n.queue.messages = n.queue.messages[1:]
	return msg, true
}

// deliver runs every handler with the queue lock released.
func (n *Notifier[E]) deliver(msg E) {
	n.handlers.mu.Lock()
	defer n.handlers.mu.Unlock()

	n.handlers.active.ForEach(func(token Token, handler func(E)) bool {
		n.invoke(token, handler, msg)
		return true
	})
}

func (n *Notifier[E]) invoke(token Token, handler func(E), msg E) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("notify: handler panicked",
				slog.Uint64("token", uint64(token)),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	handler(msg)
}
