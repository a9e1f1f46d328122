package listingsync

import (
	"sort"
	"sync"
	"time"
)

// Timer - отложенный вызов, который можно отменить
type Timer interface {
	Stop() bool
}

// Scheduler откладывает вызовы. В коде используется RealScheduler, в тестах ManualScheduler.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

// RealScheduler работает поверх time.AfterFunc
func RealScheduler() Scheduler {
	return realScheduler{}
}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// ManualScheduler - время двигается только через Advance, вызовы выполняются в горутине Advance
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     uint64
	f       func()
	stopped bool
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, f: f}
	s.timers = append(s.timers, t)
	return t
}

// Advance сдвигает часы и по порядку выполняет наступившие вызовы
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	now := s.now
	s.mu.Unlock()

	for {
		t := s.popDue(now)
		if t == nil {
			return
		}
		t.f()
	}
}

// Pending - количество запланированных и не отмененных вызовов
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *ManualScheduler) popDue(now time.Duration) *manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()

	sort.Slice(s.timers, func(i, j int) bool {
		if s.timers[i].at != s.timers[j].at {
			return s.timers[i].at < s.timers[j].at
		}
		return s.timers[i].seq < s.timers[j].seq
	})
	if len(s.timers) == 0 || s.timers[0].at > now {
		return nil
	}
	t := s.timers[0]
	s.timers = s.timers[1:]
	return t
}

func (t *manualTimer) Stop() bool {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.stopped {
		return false
	}
	for i, pending := range s.timers {
		if pending == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			t.stopped = true
			return true
		}
	}
	// уже выполнен
	return false
}

// Debouncer откладывает вызов на delay; новый Trigger отменяет предыдущий и планирует заново
type Debouncer struct {
	mu      sync.Mutex
	sched   Scheduler
	delay   time.Duration
	timer   Timer
	pending func()
	gen     uint64
	stopped bool
}

func NewDebouncer(sched Scheduler, delay time.Duration) *Debouncer {
	if sched == nil {
		sched = RealScheduler()
	}
	return &Debouncer{sched: sched, delay: delay}
}

func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = f
	d.timer = d.sched.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush немедленно выполняет отложенный вызов, если он есть
func (d *Debouncer) Flush() {
	d.mu.Lock()
	f := d.take()
	d.mu.Unlock()
	if f != nil {
		f()
	}
}

// Stop отменяет отложенный вызов; последующие Trigger игнорируются
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.take()
	d.stopped = true
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	// таймер мог сработать одновременно с новым Trigger
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	f := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()
	f()
}

// take забирает отложенный вызов; вызывается под d.mu
func (d *Debouncer) take() func() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	f := d.pending
	d.pending = nil
	d.gen++
	return f
}
