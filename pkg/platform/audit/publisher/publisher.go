// Package publisher fans audit events out to the configured store and sinks.
//
// The default mode is synchronous: Emit blocks until the store write finishes,
// and a failed write is reported to the caller's logger but never fails the
// business operation - audit here is operational visibility, not a compliance
// ledger. WithAsyncBuffer moves writes onto a background worker so hot paths
// (login) never wait on audit I/O.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	audit "ongfinder/pkg/platform/audit"
)

// Appender is the minimal sink contract; stores and external sinks satisfy it.
type Appender interface {
	Append(ctx context.Context, event audit.Event) error
}

type Publisher struct {
	store  audit.Store
	sinks  []Appender
	logger *slog.Logger

	inbox  chan audit.Event
	wg     sync.WaitGroup
	closed chan struct{}
}

type Option func(*Publisher)

// WithAsyncBuffer enables asynchronous emission through a buffered channel.
// When the buffer is full events are dropped with a log line rather than
// blocking the request path.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.inbox = make(chan audit.Event, size)
	}
}

// WithSink adds an additional delivery target alongside the store.
func WithSink(sink Appender) Option {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, sink)
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store:  store,
		logger: slog.Default(),
		closed: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

// Emit records an event, stamping the time when unset.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.inbox == nil {
		p.deliver(ctx, event)
		return nil
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("audit buffer full, dropping event", "action", string(event.Action))
	}
	return nil
}

// List exposes the store's recent events; used by tests and admin tooling.
func (p *Publisher) List(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, limit)
}

// Close stops the background worker and drains buffered events.
func (p *Publisher) Close() {
	if p.inbox != nil {
		close(p.inbox)
	}
	close(p.closed)
	p.wg.Wait()
}

func (p *Publisher) run() {
	defer p.wg.Done()
	for event := range p.inbox {
		p.deliver(context.Background(), event)
	}
}

func (p *Publisher) deliver(ctx context.Context, event audit.Event) {
	if err := p.store.Append(ctx, event); err != nil {
		p.logger.Error("audit store append failed", "error", err, "action", string(event.Action))
	}
	for _, sink := range p.sinks {
		if err := sink.Append(ctx, event); err != nil {
			p.logger.Error("audit sink append failed", "error", err, "action", string(event.Action))
		}
	}
}
