package audit

import (
	"context"
	"sync"
	"sync/atomic"
)

// Overflow decides what Emit does when the queue is full.
type Overflow int

const (
	// Block makes Emit wait for room or for its context to end.
	Block Overflow = iota
	// Drop discards the event and counts it.
	Drop
)

type Config struct {
	Enabled    bool
	BufferSize int
	Overflow   Overflow
}

// Dispatcher hands events to a sink on one background goroutine so request
// handlers never wait on audit I/O.
type Dispatcher struct {
	overflow Overflow
	sink     Sink
	queue    chan Event
	finished chan struct{}

	// mu guards closed and the close of queue; Emit holds it shared while
	// sending.
	mu     sync.RWMutex
	closed bool

	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// NewDispatcher returns nil when cfg is disabled. All methods accept a nil
// receiver.
func NewDispatcher(cfg Config, sink Sink) *Dispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	d := &Dispatcher{
		overflow: cfg.Overflow,
		sink:     sink,
		queue:    make(chan Event, max(cfg.BufferSize, 1)),
		finished: make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.finished)
	for event := range d.queue {
		d.deliver(event)
	}
}

// deliver passes one event to the sink. A sink that panics loses that event
// and the dispatcher keeps going.
func (d *Dispatcher) deliver(event Event) {
	defer func() {
		if recover() != nil {
			d.dropped.Add(1)
		}
	}()
	d.sink.Emit(context.Background(), event)
	d.delivered.Add(1)
}

// Emit queues event. Events emitted after Close are ignored.
func (d *Dispatcher) Emit(ctx context.Context, event Event) {
	if d == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	if d.overflow == Drop {
		select {
		case d.queue <- event:
		default:
			d.dropped.Add(1)
		}
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case d.queue <- event:
	case <-ctx.Done():
		d.dropped.Add(1)
	}
}

// Close stops intake, lets the sink drain what is queued and returns once
// the last event is delivered. It is safe to call more than once.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	<-d.finished
}

// Delivered counts events the sink accepted.
func (d *Dispatcher) Delivered() uint64 {
	if d == nil {
		return 0
	}
	return d.delivered.Load()
}

// Dropped counts events lost to a full queue, a cancelled Emit or a
// panicking sink.
func (d *Dispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
