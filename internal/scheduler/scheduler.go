// Package scheduler fires the upgrade check once at startup and then on a
// fixed interval.
package scheduler

import (
	"math"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// State is the lifecycle state of a Scheduler.
type State int

const (
	Idle State = iota
	Armed
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// MinInterval is the shortest interval EffectiveInterval returns.
const MinInterval = time.Hour

// maxHours is the largest hour count a time.Duration can hold.
const maxHours = math.MaxInt64 / int64(time.Hour)

// EffectiveInterval converts a configured hour count into the timer
// interval, clamping values below one hour and above the Duration range.
func EffectiveInterval(hours int) time.Duration {
	if hours < 1 {
		return MinInterval
	}
	return time.Duration(min(int64(hours), maxHours)) * time.Hour
}

// Tick describes one firing.
type Tick struct {
	// Startup is true for the immediate check fired by Start.
	Startup bool
	At      time.Time
}

// Job is run on every tick, each time on its own goroutine.
type Job func(Tick)

// every is a fixed-interval schedule. cron's ConstantDelaySchedule rounds
// to whole seconds.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

// Scheduler runs Job at startup and then every interval. Ticks are not
// serialized: a slow job may overlap the next one.
type Scheduler struct {
	interval time.Duration
	job      Job
	log      *zap.Logger

	mu      sync.Mutex
	state   State
	cron    *cron.Cron
	startup sync.WaitGroup
}

// New creates an idle Scheduler. Use EffectiveInterval to derive interval
// from configuration.
func New(interval time.Duration, job Job, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		interval: interval,
		job:      job,
		log:      log.Named("scheduler"),
	}
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Interval returns the time between scheduled ticks.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start arms the recurring timer and fires one startup tick immediately.
// It only has an effect on an idle Scheduler.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Idle {
		return
	}

	logger := cronLogger{s.log.Sugar()}
	s.cron = cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger)),
	)
	s.cron.Schedule(every(s.interval), cron.FuncJob(func() {
		s.job(Tick{At: time.Now()})
	}))
	s.cron.Start()
	s.state = Armed

	s.startup.Add(1)
	go func() {
		defer s.startup.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("startup tick panicked", zap.Any("panic", r))
			}
		}()
		s.job(Tick{Startup: true, At: time.Now()})
	}()

	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
}

// Stop releases the timer and waits for running jobs to finish. No tick
// fires after Stop returns. Later calls to Start or Stop do nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.state == Stopped {
		s.mu.Unlock()
		return
	}
	s.state = Stopped
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
	s.startup.Wait()

	s.log.Info("scheduler stopped")
}

// cronLogger routes cron's internal logging to zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
