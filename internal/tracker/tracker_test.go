package tracker

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/1broseidon/winwatch/internal/gate"
	"github.com/1broseidon/winwatch/internal/model"
	"github.com/1broseidon/winwatch/internal/platform"
	"github.com/1broseidon/winwatch/internal/platform/platformtest"
)

// manualScheduler records scheduled funcs and runs them on Tick.
type manualScheduler struct {
	next      int
	fns       map[int]func()
	started   int
	stopped   int
	intervals []time.Duration
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{fns: make(map[int]func())}
}

func (m *manualScheduler) Every(interval time.Duration, fn func()) func() {
	id := m.next
	m.next++
	m.fns[id] = fn
	m.started++
	m.intervals = append(m.intervals, interval)
	return func() {
		if _, ok := m.fns[id]; ok {
			delete(m.fns, id)
			m.stopped++
		}
	}
}

func (m *manualScheduler) Tick() {
	fns := make([]func(), 0, len(m.fns))
	for _, fn := range m.fns {
		fns = append(fns, fn)
	}
	for _, fn := range fns {
		fn()
	}
}

func (m *manualScheduler) Scheduled() int { return len(m.fns) }

func newTracker(t *testing.T) (*Tracker, *platformtest.Service, *manualScheduler) {
	t.Helper()
	svc := platformtest.New()
	sched := newManualScheduler()
	tr := New(gate.New(svc, nil), Config{Scheduler: sched})
	return tr, svc, sched
}

type recorder struct {
	got []model.Window
}

func (r *recorder) listen(w model.Window) { r.got = append(r.got, w) }

func TestTracker_UnchangedTickEmitsNothing(t *testing.T) {
	tr, svc, sched := newTracker(t)
	svc.SetActiveID(7)

	var rec recorder
	tr.Subscribe(rec.listen)
	sched.Tick()

	if len(rec.got) != 0 {
		t.Fatalf("got %d events, want 0", len(rec.got))
	}
}

func TestTracker_ChangeEmitsExactlyOnce(t *testing.T) {
	tr, svc, sched := newTracker(t)
	svc.SetActiveID(7)

	var rec recorder
	tr.Subscribe(rec.listen)
	sched.Tick()

	svc.SetActive(platform.WindowRecord{ID: 9, Title: "Editor"})
	sched.Tick()
	sched.Tick()

	if len(rec.got) != 1 {
		t.Fatalf("got %d events, want 1", len(rec.got))
	}
	if rec.got[0].ID() != 9 || rec.got[0].Title() != "Editor" {
		t.Fatalf("event = id %d title %q", rec.got[0].ID(), rec.got[0].Title())
	}
}

func TestTracker_StartsSinglePollAtDefaultInterval(t *testing.T) {
	tr, _, sched := newTracker(t)

	a := tr.Subscribe(func(model.Window) {})
	b := tr.Subscribe(func(model.Window) {})

	if sched.started != 1 {
		t.Fatalf("started %d polls, want 1", sched.started)
	}
	if sched.intervals[0] != DefaultInterval {
		t.Fatalf("interval = %v, want %v", sched.intervals[0], DefaultInterval)
	}
	if tr.Listeners() != 2 {
		t.Fatalf("Listeners() = %d, want 2", tr.Listeners())
	}

	a.Cancel()
	if !tr.Polling() {
		t.Fatal("polling stopped while a listener remains")
	}
	b.Cancel()
	if tr.Polling() || sched.Scheduled() != 0 {
		t.Fatal("polling should stop after last cancel")
	}
}

func TestTracker_AllListenersReceiveInOrder(t *testing.T) {
	tr, svc, sched := newTracker(t)
	svc.SetActiveID(1)

	var order []string
	tr.Subscribe(func(model.Window) { order = append(order, "first") })
	tr.Subscribe(func(model.Window) { order = append(order, "second") })

	svc.SetActiveID(2)
	sched.Tick()

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("order = %v", order)
	}
}

func TestTracker_UnsubscribeStopsQueries(t *testing.T) {
	tr, svc, sched := newTracker(t)
	sub := tr.Subscribe(func(model.Window) {})

	tick := sched.fns[0]
	sub.Cancel()
	before := svc.Calls(platform.CapActiveWindow)

	sched.Tick()
	tick()
	tr.Poll()

	if got := svc.Calls(platform.CapActiveWindow); got != before {
		t.Fatalf("active window queried %d times after unsubscribe", got-before)
	}
	if sched.stopped != 1 {
		t.Fatalf("stopped = %d, want 1", sched.stopped)
	}
}

func TestTracker_ResubscribeResetsBaseline(t *testing.T) {
	tr, svc, sched := newTracker(t)
	svc.SetActiveID(1)

	sub := tr.Subscribe(func(model.Window) {})
	sub.Cancel()

	svc.SetActiveID(5)

	var rec recorder
	tr.Subscribe(rec.listen)
	sched.Tick()

	if len(rec.got) != 0 {
		t.Fatalf("resubscribe fired %d stale events", len(rec.got))
	}

	svc.SetActiveID(6)
	sched.Tick()
	if len(rec.got) != 1 || rec.got[0].ID() != 6 {
		t.Fatalf("got %v, want one event for 6", rec.got)
	}
}

func TestTracker_QueryErrorAbsorbed(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := platformtest.New()
	sched := newManualScheduler()
	tr := New(gate.New(svc, nil), Config{Scheduler: sched, Logger: zap.New(core)})

	svc.SetActiveID(3)
	var rec recorder
	tr.Subscribe(rec.listen)

	svc.Fail(platform.CapActiveWindow, errors.New("bad window"))
	sched.Tick()
	if len(rec.got) != 0 {
		t.Fatalf("error tick emitted %d events", len(rec.got))
	}
	if logs.FilterMessage("active window query failed").Len() != 1 {
		t.Fatal("expected query failure to be logged")
	}

	// Baseline is unchanged, so recovering to the same id stays silent.
	svc.SetActiveID(3)
	sched.Tick()
	if len(rec.got) != 0 {
		t.Fatalf("recovery to same id emitted %d events", len(rec.got))
	}

	svc.SetActiveID(4)
	sched.Tick()
	if len(rec.got) != 1 {
		t.Fatalf("got %d events, want 1", len(rec.got))
	}
}

func TestTracker_BaselineFailureAdoptsFirstReading(t *testing.T) {
	tr, svc, sched := newTracker(t)
	svc.Fail(platform.CapActiveWindow, errors.New("no display"))

	var rec recorder
	tr.Subscribe(rec.listen)
	if !tr.Polling() {
		t.Fatal("polling should start even when the baseline query fails")
	}

	// Window 8 was already focused; the first good reading is not a change.
	svc.SetActiveID(8)
	sched.Tick()
	if len(rec.got) != 0 {
		t.Fatalf("got %d events for the already focused window, want 0", len(rec.got))
	}

	svc.SetActiveID(9)
	sched.Tick()
	if len(rec.got) != 1 || rec.got[0].ID() != 9 {
		t.Fatalf("got %v, want one event for 9", rec.got)
	}
}

func TestTracker_NoActiveWindowIsAKnownBaseline(t *testing.T) {
	tr, svc, sched := newTracker(t)
	svc.SetActiveID(platform.InvalidWindowID)

	var rec recorder
	tr.Subscribe(rec.listen)
	svc.SetActiveID(4)
	sched.Tick()

	if len(rec.got) != 1 || rec.got[0].ID() != 4 {
		t.Fatalf("got %v, want one event for 4", rec.got)
	}
}

// blockingSource parks the first ActiveWindow call until released.
type blockingSource struct {
	entered chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingSource) ActiveWindow() (gate.Result[platform.WindowRecord], error) {
	if b.calls.Add(1) == 1 {
		close(b.entered)
		<-b.release
	}
	return gate.Supported(platform.WindowRecord{ID: 3}), nil
}

func TestTracker_BaselineQueryRunsUnlocked(t *testing.T) {
	src := &blockingSource{entered: make(chan struct{}), release: make(chan struct{})}
	sched := newManualScheduler()
	tr := New(src, Config{Scheduler: sched})

	done := make(chan struct{})
	go func() {
		tr.Subscribe(func(model.Window) {})
		close(done)
	}()
	<-src.entered

	got := make(chan int, 1)
	go func() { got <- tr.Listeners() }()
	select {
	case n := <-got:
		if n != 1 {
			t.Fatalf("Listeners() = %d, want 1", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Listeners() blocked while the baseline query was in flight")
	}

	close(src.release)
	<-done
	if !tr.Polling() || sched.Scheduled() != 1 {
		t.Fatalf("polling = %v, scheduled = %d, want one poll", tr.Polling(), sched.Scheduled())
	}
}

func TestTracker_CloseDuringBaselineQueryDoesNotStartPolling(t *testing.T) {
	src := &blockingSource{entered: make(chan struct{}), release: make(chan struct{})}
	sched := newManualScheduler()
	tr := New(src, Config{Scheduler: sched})

	done := make(chan struct{})
	go func() {
		tr.Subscribe(func(model.Window) {})
		close(done)
	}()
	<-src.entered
	tr.Close()
	close(src.release)
	<-done

	if tr.Polling() || sched.Scheduled() != 0 || tr.Listeners() != 0 {
		t.Fatalf("polling = %v, scheduled = %d, listeners = %d after Close", tr.Polling(), sched.Scheduled(), tr.Listeners())
	}
}

func TestTracker_UnsupportedSourceNeverEmits(t *testing.T) {
	svc := platformtest.New().Disable(platform.CapActiveWindow)
	sched := newManualScheduler()
	tr := New(gate.New(svc, nil), Config{Scheduler: sched})

	var rec recorder
	tr.Subscribe(rec.listen)
	svc.SetActiveID(10)
	sched.Tick()

	if len(rec.got) != 0 {
		t.Fatalf("unsupported source emitted %d events", len(rec.got))
	}
	if svc.Calls(platform.CapActiveWindow) != 0 {
		t.Fatal("disabled capability must not be queried")
	}
}

func TestTracker_NilServiceNeverEmits(t *testing.T) {
	sched := newManualScheduler()
	tr := New(gate.New(nil, nil), Config{Scheduler: sched})

	var rec recorder
	tr.Subscribe(rec.listen)
	sched.Tick()
	tr.Poll()

	if len(rec.got) != 0 {
		t.Fatalf("nil service emitted %d events", len(rec.got))
	}
}

type reentrantSource struct {
	id    platform.WindowID
	calls int
	inner func()
}

func (s *reentrantSource) ActiveWindow() (gate.Result[platform.WindowRecord], error) {
	s.calls++
	if s.inner != nil {
		inner := s.inner
		s.inner = nil
		inner()
	}
	return gate.Supported(platform.WindowRecord{ID: s.id}), nil
}

func TestTracker_TickDoesNotReenter(t *testing.T) {
	src := &reentrantSource{id: 1}
	sched := newManualScheduler()
	tr := New(src, Config{Scheduler: sched})

	tr.Subscribe(func(model.Window) {})
	baselineCalls := src.calls

	src.inner = tr.Poll
	tr.Poll()

	if got := src.calls - baselineCalls; got != 1 {
		t.Fatalf("nested tick queried %d times, want 1", got)
	}
}

type panicSource struct{ n int }

func (p *panicSource) ActiveWindow() (gate.Result[platform.WindowRecord], error) {
	p.n++
	if p.n > 1 {
		panic("native crash")
	}
	return gate.Supported(platform.WindowRecord{ID: 1}), nil
}

func TestTracker_PanicInTickRecovered(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	src := &panicSource{}
	sched := newManualScheduler()
	tr := New(src, Config{Scheduler: sched, Logger: zap.New(core)})

	tr.Subscribe(func(model.Window) {})
	sched.Tick()
	sched.Tick()

	if logs.Len() != 2 {
		t.Fatalf("logged %d panics, want 2", logs.Len())
	}
}

func TestTracker_CancelInsideListener(t *testing.T) {
	tr, svc, sched := newTracker(t)
	svc.SetActiveID(1)

	var sub *Subscription
	calls := 0
	sub = tr.Subscribe(func(model.Window) {
		calls++
		sub.Cancel()
	})

	svc.SetActiveID(2)
	sched.Tick()
	svc.SetActiveID(3)
	sched.Tick()

	if calls != 1 {
		t.Fatalf("listener called %d times, want 1", calls)
	}
	if tr.Polling() {
		t.Fatal("polling should stop once the only listener cancels")
	}
	sub.Cancel()
}

func TestTracker_Close(t *testing.T) {
	tr, _, sched := newTracker(t)
	tr.Subscribe(func(model.Window) {})
	tr.Subscribe(func(model.Window) {})

	tr.Close()
	if tr.Listeners() != 0 || tr.Polling() || sched.Scheduled() != 0 {
		t.Fatal("Close should detach everything")
	}
}

func TestTickerScheduler_RunsUntilStopped(t *testing.T) {
	var n atomic.Int32
	stop := TickerScheduler{}.Every(time.Millisecond, func() { n.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for n.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	stop()
	stop()

	if n.Load() < 3 {
		t.Fatalf("ticks = %d, want at least 3", n.Load())
	}

	time.Sleep(10 * time.Millisecond)
	after := n.Load()
	time.Sleep(20 * time.Millisecond)
	if n.Load() != after {
		t.Fatalf("ticks continued after stop: %d -> %d", after, n.Load())
	}
}
