package timectrl

import (
	"sync"
	"time"
)

// SimClock is an interface for accessing simulation time. Components that
// only need "what time is it" (e.g. the probing CQI policy) depend on this
// abstraction rather than on the concrete controller, enabling testability.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
}

// TimeController drives simulation time deterministically: time only moves
// when Step or Advance is called, which keeps AMC decision traces exactly
// reproducible regardless of wall-clock scheduling.
type TimeController struct {
	mu        sync.RWMutex
	start     time.Time
	tick      time.Duration
	current   time.Time
	listeners []func(time.Time)
}

// NewTimeController constructs a controller starting at start with the given
// tick interval.
func NewTimeController(start time.Time, tick time.Duration) *TimeController {
	return &TimeController{
		start:   start,
		tick:    tick,
		current: start,
	}
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.current
}

// Start returns the simulation start time.
func (tc *TimeController) Start() time.Time { return tc.start }

// Tick returns the configured tick interval.
func (tc *TimeController) Tick() time.Duration { return tc.tick }

// AddListener registers a callback invoked after every advancement.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.listeners = append(tc.listeners, fn)
}

// Step advances simulation time by one tick and notifies listeners. It
// returns the new current time.
func (tc *TimeController) Step() time.Time {
	return tc.Advance(tc.tick)
}

// Advance moves simulation time forward by d and notifies listeners.
func (tc *TimeController) Advance(d time.Duration) time.Time {
	tc.mu.Lock()
	tc.current = tc.current.Add(d)
	now := tc.current
	tc.mu.Unlock()

	for _, fn := range tc.listeners {
		fn(now)
	}
	return now
}

// Run advances the controller by the given number of ticks.
func (tc *TimeController) Run(ticks int) {
	for i := 0; i < ticks; i++ {
		tc.Step()
	}
}
