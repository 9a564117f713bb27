// Package tracker turns the pull-only active window query into a
// deduplicated stream of window-activated events.
package tracker

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/1broseidon/winwatch/internal/gate"
	"github.com/1broseidon/winwatch/internal/model"
	"github.com/1broseidon/winwatch/internal/platform"
)

// DefaultInterval is the poll cadence used when none is configured.
const DefaultInterval = 50 * time.Millisecond

// ActiveSource reports the currently focused window. *gate.Gate implements it.
type ActiveSource interface {
	ActiveWindow() (gate.Result[platform.WindowRecord], error)
}

// Listener receives the newly active window.
type Listener func(model.Window)

// Config holds tracker settings. Zero values fall back to defaults.
type Config struct {
	Interval  time.Duration
	Scheduler Scheduler
	Logger    *zap.Logger
}

// Tracker polls an ActiveSource while at least one listener is subscribed.
type Tracker struct {
	src      ActiveSource
	sched    Scheduler
	interval time.Duration
	log      *zap.Logger

	mu         sync.Mutex
	subs       []*Subscription
	baseline   platform.WindowID
	known      bool // baseline came from a successful query
	generation uint64
	stop       func()

	ticking atomic.Bool
}

// New creates an idle tracker. Polling starts with the first subscription.
func New(src ActiveSource, cfg Config) *Tracker {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = TickerScheduler{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		src:      src,
		sched:    sched,
		interval: interval,
		log:      log,
	}
}

// Subscription is a handle for one registered listener.
type Subscription struct {
	t    *Tracker
	fn   Listener
	once sync.Once
}

// Cancel detaches the listener. It is safe to call more than once and from
// inside a listener.
func (s *Subscription) Cancel() {
	s.once.Do(func() { s.t.remove(s) })
}

// Subscribe attaches fn. The first subscription captures the current active
// window as baseline and starts polling. When the baseline query fails, the
// first successful tick becomes the baseline without emitting.
func (t *Tracker) Subscribe(fn Listener) *Subscription {
	sub := &Subscription{t: t, fn: fn}

	t.mu.Lock()
	t.subs = append(t.subs, sub)
	if len(t.subs) > 1 {
		t.mu.Unlock()
		return sub
	}
	t.generation++
	gen := t.generation
	t.mu.Unlock()

	// The native query runs without the lock held.
	baseline, known := t.currentID()

	t.mu.Lock()
	defer t.mu.Unlock()

	// Everything was cancelled while the baseline query was in flight.
	if gen != t.generation {
		return sub
	}
	t.baseline = baseline
	t.known = known
	t.stop = t.sched.Every(t.interval, func() { t.tick(gen) })
	t.log.Debug("active window polling started",
		zap.Duration("interval", t.interval),
		zap.Uint32("baseline", uint32(t.baseline)),
		zap.Bool("baseline_known", known),
	)
	return sub
}

// Listeners returns the number of attached listeners.
func (t *Tracker) Listeners() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.subs)
}

// Polling reports whether a periodic poll is scheduled.
func (t *Tracker) Polling() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Poll runs one tick synchronously. It does nothing while no listener is
// attached.
func (t *Tracker) Poll() {
	t.mu.Lock()
	active := t.stop != nil
	gen := t.generation
	t.mu.Unlock()

	if active {
		t.tick(gen)
	}
}

// Close detaches every listener and stops polling.
func (t *Tracker) Close() {
	t.mu.Lock()
	subs := slices.Clone(t.subs)
	t.mu.Unlock()

	for _, s := range subs {
		s.Cancel()
	}
}

func (t *Tracker) remove(sub *Subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := slices.Index(t.subs, sub)
	if i < 0 {
		return
	}
	t.subs = slices.Delete(t.subs, i, i+1)
	if len(t.subs) > 0 {
		return
	}

	if t.stop != nil {
		t.stop()
		t.stop = nil
	}
	t.baseline = platform.InvalidWindowID
	t.known = false
	t.generation++
	t.log.Debug("active window polling stopped")
}

// currentID queries the active window for a fresh baseline. The bool is
// false when the query failed or is unsupported.
func (t *Tracker) currentID() (platform.WindowID, bool) {
	res, err := t.src.ActiveWindow()
	if err != nil {
		t.log.Debug("baseline query failed", zap.Error(err))
		return platform.InvalidWindowID, false
	}
	rec, ok := res.Get()
	if !ok {
		return platform.InvalidWindowID, false
	}
	return rec.ID, true
}

func (t *Tracker) live(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gen == t.generation && t.stop != nil
}

// tick runs one poll for generation gen. Ticks from an earlier generation
// are dropped without querying.
func (t *Tracker) tick(gen uint64) {
	if !t.ticking.CompareAndSwap(false, true) {
		t.log.Debug("poll skipped, previous tick still running")
		return
	}
	defer t.ticking.Store(false)

	defer func() {
		if r := recover(); r != nil {
			t.log.Error("active window poll panic recovered", zap.Any("panic", r))
		}
	}()

	if !t.live(gen) {
		return
	}

	res, err := t.src.ActiveWindow()
	if err != nil {
		t.log.Debug("active window query failed", zap.Error(err))
		return
	}
	rec, ok := res.Get()
	if !ok {
		return
	}

	t.mu.Lock()
	if gen != t.generation || (t.known && rec.ID == t.baseline) {
		t.mu.Unlock()
		return
	}
	adopted := !t.known
	t.baseline = rec.ID
	t.known = true
	if adopted {
		t.mu.Unlock()
		t.log.Debug("baseline adopted from poll", zap.Uint32("window_id", uint32(rec.ID)))
		return
	}
	listeners := make([]Listener, 0, len(t.subs))
	for _, s := range t.subs {
		listeners = append(listeners, s.fn)
	}
	t.mu.Unlock()

	w := model.WindowFrom(rec)
	t.log.Debug("window activated",
		zap.Uint32("window_id", uint32(rec.ID)),
		zap.String("title", rec.Title),
	)
	for _, fn := range listeners {
		fn(w)
	}
}
