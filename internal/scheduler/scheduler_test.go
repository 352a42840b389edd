package scheduler

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEffectiveInterval(t *testing.T) {
	tests := []struct {
		hours    int
		expected time.Duration
	}{
		{-3, time.Hour},
		{0, time.Hour},
		{1, time.Hour},
		{8, 8 * time.Hour},
		{24, 24 * time.Hour},
		{2562047, 2562047 * time.Hour},
		{2562048, 2562047 * time.Hour},
		{math.MaxInt, 2562047 * time.Hour},
	}

	for _, tt := range tests {
		if got := EffectiveInterval(tt.hours); got != tt.expected {
			t.Errorf("EffectiveInterval(%d) = %v, want %v", tt.hours, got, tt.expected)
		}
	}
}

func TestStateString(t *testing.T) {
	tests := map[State]string{Idle: "idle", Armed: "armed", Stopped: "stopped", State(9): "unknown"}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}

// recorder collects ticks from concurrent jobs.
type recorder struct {
	mu    sync.Mutex
	ticks []Tick
	first chan struct{}
	once  sync.Once
}

func newRecorder() *recorder {
	return &recorder{first: make(chan struct{})}
}

func (r *recorder) job(tick Tick) {
	r.mu.Lock()
	r.ticks = append(r.ticks, tick)
	r.mu.Unlock()
	r.once.Do(func() { close(r.first) })
}

func (r *recorder) snapshot() []Tick {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Tick(nil), r.ticks...)
}

func TestStartFiresImmediately(t *testing.T) {
	rec := newRecorder()
	s := New(time.Hour, rec.job, nil)
	s.Start()
	defer s.Stop()

	select {
	case <-rec.first:
	case <-time.After(2 * time.Second):
		t.Fatal("startup tick did not fire")
	}

	ticks := rec.snapshot()
	if len(ticks) != 1 || !ticks[0].Startup {
		t.Errorf("expected a single startup tick, got %+v", ticks)
	}
	if s.State() != Armed {
		t.Errorf("State() = %s, want armed", s.State())
	}
}

func TestTicksRepeat(t *testing.T) {
	rec := newRecorder()
	s := New(40*time.Millisecond, rec.job, nil)
	s.Start()

	deadline := time.Now().Add(3 * time.Second)
	for len(rec.snapshot()) < 4 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	s.Stop()

	ticks := rec.snapshot()
	if len(ticks) < 4 {
		t.Fatalf("expected at least 4 ticks, got %d", len(ticks))
	}

	startups := 0
	for _, tick := range ticks {
		if tick.Startup {
			startups++
		}
	}
	if startups != 1 {
		t.Errorf("expected exactly one startup tick, got %d", startups)
	}
}

func TestStopPreventsFurtherTicks(t *testing.T) {
	var count atomic.Int32
	s := New(20*time.Millisecond, func(Tick) { count.Add(1) }, nil)
	s.Start()
	time.Sleep(70 * time.Millisecond)
	s.Stop()

	if s.State() != Stopped {
		t.Errorf("State() = %s, want stopped", s.State())
	}

	after := count.Load()
	time.Sleep(100 * time.Millisecond)
	if got := count.Load(); got != after {
		t.Errorf("ticks fired after Stop: %d -> %d", after, got)
	}
}

func TestStopWaitsForRunningJobs(t *testing.T) {
	started := make(chan struct{})
	var finished atomic.Bool

	s := New(time.Hour, func(tick Tick) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	}, nil)

	s.Start()
	<-started
	s.Stop()

	if !finished.Load() {
		t.Error("Stop() returned before the startup job finished")
	}
}

func TestOverlappingTicks(t *testing.T) {
	var running, peak atomic.Int32
	s := New(10*time.Millisecond, func(Tick) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(60 * time.Millisecond)
		running.Add(-1)
	}, nil)

	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.Stop()

	if peak.Load() < 2 {
		t.Errorf("slow jobs should overlap, peak concurrency was %d", peak.Load())
	}
}

func TestLifecycleNoOps(t *testing.T) {
	var count atomic.Int32
	s := New(time.Hour, func(Tick) { count.Add(1) }, nil)

	if s.State() != Idle {
		t.Fatalf("new scheduler State() = %s, want idle", s.State())
	}

	s.Stop()
	s.Stop()
	s.Start()

	if s.State() != Stopped {
		t.Errorf("Start after Stop should do nothing, State() = %s", s.State())
	}
	time.Sleep(20 * time.Millisecond)
	if count.Load() != 0 {
		t.Errorf("a stopped scheduler must not fire, got %d ticks", count.Load())
	}
}

func TestPanicDoesNotStopScheduler(t *testing.T) {
	var count atomic.Int32
	s := New(20*time.Millisecond, func(Tick) {
		count.Add(1)
		panic("boom")
	}, nil)

	s.Start()
	deadline := time.Now().Add(2 * time.Second)
	for count.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	s.Stop()

	if count.Load() < 3 {
		t.Errorf("scheduler should keep firing after a panic, got %d ticks", count.Load())
	}
}
