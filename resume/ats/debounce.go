package ats

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a recomputation runs.
const DefaultDelay = 500 * time.Millisecond

// Debouncer runs the most recently triggered function after a quiet period. Triggering
// again before the period elapses cancels the pending run. Runs never overlap.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool

	runMu sync.Mutex
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, superseding any run that has not started yet.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen, fn) })
}

// Stop cancels pending work. Later triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) fire(gen uint64, fn func()) {
	d.runMu.Lock()
	defer d.runMu.Unlock()

	d.mu.Lock()
	current := gen == d.gen && !d.stopped
	d.mu.Unlock()
	if !current {
		return
	}
	fn()
}

// Monitor keeps the latest score of a changing resume, recomputed through a Debouncer.
type Monitor struct {
	debouncer *Debouncer
	onResult  func(Result)

	mu     sync.RWMutex
	latest Result
	ready  bool
}

// NewMonitor builds a Monitor. onResult may be nil.
func NewMonitor(delay time.Duration, onResult func(Result)) *Monitor {
	return &Monitor{debouncer: NewDebouncer(delay), onResult: onResult}
}

// Update schedules a recomputation for text.
func (m *Monitor) Update(text string) {
	m.debouncer.Trigger(func() {
		res := Score(text)
		m.mu.Lock()
		m.latest = res
		m.ready = true
		m.mu.Unlock()
		if m.onResult != nil {
			m.onResult(res)
		}
	})
}

// Latest returns the last published score and whether one exists yet.
func (m *Monitor) Latest() (Result, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest, m.ready
}

func (m *Monitor) Stop() {
	m.debouncer.Stop()
}
