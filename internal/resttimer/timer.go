// Package resttimer implements the between-sets countdown. The timer is
// a small state machine driven by a single ticker goroutine, at most one
// driver runs at any time.
package resttimer

import (
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

type State string

const (
	// StateIdle means the timer is not shown at all.
	StateIdle State = "idle"
	// StateReady means the timer is shown with the full duration, waiting
	// for a start.
	StateReady   State = "ready"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateExpired State = "expired"
)

const (
	// DefaultDuration is the rest period used when none is configured.
	DefaultDuration = 90
	// MinDuration is the floor for both presets and adjustments.
	MinDuration = 10
)

// Presets are the selectable rest durations, in seconds.
var Presets = []int{60, 90, 120, 180}

// AdjustDeltas are the quick adjustment steps offered while resting.
var AdjustDeltas = []int{-30, -10, 10, 30}

// Timer counts down a rest period in whole seconds. The zero value is
// not usable, construct it with New.
type Timer struct {
	mu        sync.Mutex
	state     State
	duration  int // configured rest period, seconds
	remaining int
	quit      chan struct{}

	interval time.Duration
	onExpire func()
}

// New creates an idle timer. onExpire is invoked exactly once per
// countdown that reaches zero, outside the timer lock; it may be nil.
func New(onExpire func()) *Timer {
	return &Timer{
		state:    StateIdle,
		duration: DefaultDuration,
		interval: time.Second,
		onExpire: onExpire,
	}
}

// Show presents the timer with the given duration, ready to start. A
// duration below the minimum falls back to the configured one.
func (t *Timer) Show(duration int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if duration >= MinDuration {
		t.duration = duration
	}
	t.remaining = t.duration
	t.stopDriver()
	t.state = StateReady
}

// Start begins or resumes the countdown. Expired behaves like paused at
// zero, so starting from it runs the full duration again. A no-op while
// idle or already running.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle || t.state == StateRunning {
		return
	}
	if t.remaining <= 0 {
		t.remaining = t.duration
	}

	t.state = StateRunning
	t.startDriver()
}

// Pause freezes the countdown, keeping the remaining time.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return
	}
	t.stopDriver()
	t.state = StatePaused
}

// Reset stops the countdown and restores the full configured duration.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopDriver()
	t.remaining = t.duration
	t.state = StateReady
}

// Adjust shifts the remaining time by delta seconds, never below the
// minimum. When the remaining time actually changes, the configured
// duration follows it so a reset keeps the adjusted value.
func (t *Timer) Adjust(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == StateIdle {
		return
	}

	adjusted := max(t.remaining+delta, MinDuration)
	if adjusted == t.remaining {
		return
	}
	t.remaining = adjusted
	t.duration = adjusted
}

// SetPreset switches the configured duration and readies the timer with
// it. Values below the minimum are ignored.
func (t *Timer) SetPreset(seconds int) {
	if seconds < MinDuration {
		log.Warnf("ignoring rest timer preset below minimum: %d", seconds)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopDriver()
	t.duration = seconds
	t.remaining = seconds
	t.state = StateReady
}

// Hide dismisses the timer and stops any running countdown. The next
// Show starts from the full configured duration again.
func (t *Timer) Hide() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopDriver()
	t.remaining = t.duration
	t.state = StateIdle
}

// Close releases the driver goroutine. Safe to call more than once.
func (t *Timer) Close() {
	t.Hide()
}

func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Remaining returns the seconds left on the countdown.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Duration returns the configured rest period in seconds.
func (t *Timer) Duration() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration
}

// Display renders the remaining time as m:ss.
func (t *Timer) Display() string {
	return FormatSeconds(t.Remaining())
}

// FormatSeconds renders a second count as m:ss, e.g. 90 -> "1:30".
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// startDriver spawns the ticker goroutine. Callers hold the lock; any
// previous driver is stopped first so only one ever runs.
func (t *Timer) startDriver() {
	t.stopDriver()
	quit := make(chan struct{})
	t.quit = quit

	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				t.tick()
			}
		}
	}()
}

func (t *Timer) stopDriver() {
	if t.quit != nil {
		close(t.quit)
		t.quit = nil
	}
}

// tick advances the countdown by one second and fires the expiry
// notification when it hits zero.
func (t *Timer) tick() {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return
	}

	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return
	}

	t.remaining = 0
	t.state = StateExpired
	t.stopDriver()
	onExpire := t.onExpire
	t.mu.Unlock()

	log.Debugf("rest timer expired")
	if onExpire != nil {
		onExpire()
	}
}
