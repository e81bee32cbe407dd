package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/naazbookdepot/shopauth/internal/logging"
)

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, Event) {
	s.count.Add(1)
}

type gateSink struct {
	gate chan struct{}
}

func (s *gateSink) Emit(context.Context, Event) {
	<-s.gate
}

// flakySink panics on events of one type.
type flakySink struct {
	countingSink
	panicOn string
}

func (s *flakySink) Emit(ctx context.Context, e Event) {
	if e.EventType == s.panicOn {
		panic("sink failure")
	}
	s.countingSink.Emit(ctx, e)
}

func TestDispatcherDisabledIsNil(t *testing.T) {
	d := NewDispatcher(Config{Enabled: false}, &countingSink{})
	if d != nil {
		t.Fatal("disabled dispatcher should be nil")
	}
	d.Emit(context.Background(), Event{EventType: "login_success"})
	d.Close()
	if d.Dropped() != 0 || d.Delivered() != 0 {
		t.Fatal("nil dispatcher must report zero counts")
	}
}

func TestDispatcherDrainsQueueOnClose(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 64}, sink)

	for i := 0; i < 50; i++ {
		d.Emit(context.Background(), Event{EventType: "login_success"})
	}
	d.Close()

	if got := sink.count.Load(); got != 50 {
		t.Fatalf("expected 50 delivered events, got %d", got)
	}
	if got := d.Delivered(); got != 50 {
		t.Fatalf("expected Delivered 50, got %d", got)
	}

	d.Emit(context.Background(), Event{EventType: "register_success"})
	d.Close()
	if got := sink.count.Load(); got != 50 {
		t.Fatal("events after Close must be ignored")
	}
}

func TestDispatcherDropOverflow(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, Overflow: Drop}, sink)

	deadline := time.Now().Add(2 * time.Second)
	for d.Dropped() == 0 && time.Now().Before(deadline) {
		d.Emit(context.Background(), Event{EventType: "rate_limit_triggered"})
	}
	if d.Dropped() == 0 {
		t.Fatal("expected drops while the sink is blocked")
	}

	close(sink.gate)
	d.Close()
}

func TestDispatcherBlockOverflowHonoursContext(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 1, Overflow: Block}, sink)

	// One event is held by the sink, one fills the queue.
	d.Emit(context.Background(), Event{EventType: "login_failure"})
	d.Emit(context.Background(), Event{EventType: "login_failure"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	done := make(chan struct{})
	go func() {
		d.Emit(ctx, Event{EventType: "login_failure"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Emit ignored its context while the queue was full")
	}
	if d.Dropped() == 0 {
		t.Fatal("an Emit abandoned by its context must count as dropped")
	}

	close(sink.gate)
	d.Close()
}

func TestDispatcherSurvivesPanickingSink(t *testing.T) {
	sink := &flakySink{panicOn: "mfa_enabled"}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 8}, sink)

	d.Emit(context.Background(), Event{EventType: "login_success"})
	d.Emit(context.Background(), Event{EventType: "mfa_enabled"})
	d.Emit(context.Background(), Event{EventType: "logout"})
	d.Close()

	if got := sink.count.Load(); got != 2 {
		t.Fatalf("expected 2 events past the panic, got %d", got)
	}
	if d.Delivered() != 2 || d.Dropped() != 1 {
		t.Fatalf("expected delivered=2 dropped=1, got %d/%d", d.Delivered(), d.Dropped())
	}
}

func TestDispatcherConcurrentEmitAndClose(t *testing.T) {
	sink := &countingSink{}
	d := NewDispatcher(Config{Enabled: true, BufferSize: 4}, sink)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				d.Emit(context.Background(), Event{EventType: "session_refreshed"})
			}
		}()
	}
	go d.Close()
	wg.Wait()
	d.Close()

	if got := uint64(sink.count.Load()); got != d.Delivered() {
		t.Fatalf("sink saw %d events, dispatcher reports %d", got, d.Delivered())
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), Event{EventType: "mfa_enabled", UserID: "u1", Success: true})

	var got Event
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &got); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	if got.EventType != "mfa_enabled" || got.UserID != "u1" || !got.Success {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestLoggerSinkLevels(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	sink := NewLoggerSink(log)

	sink.Emit(context.Background(), Event{EventType: "login_success", UserID: "u1", Success: true})
	sink.Emit(context.Background(), Event{EventType: "login_failure", IP: "1.2.3.4", Error: "invalid_credentials"})

	out := buf.String()
	for _, want := range []string{
		"level=INFO", "event=login_success", "user_id=u1",
		"level=WARN", "event=login_failure", "ip=1.2.3.4", "error=invalid_credentials",
		"module=audit",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}
