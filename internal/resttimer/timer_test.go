package resttimer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestTimer_lifecycle(t *testing.T) {
	timer := New(nil)
	assert.Equal(t, StateIdle, timer.State())
	assert.Equal(t, DefaultDuration, timer.Duration())

	timer.Show(120)
	assert.Equal(t, StateReady, timer.State())
	assert.Equal(t, 120, timer.Remaining())

	timer.Start()
	assert.Equal(t, StateRunning, timer.State())

	timer.Pause()
	assert.Equal(t, StatePaused, timer.State())

	timer.Start()
	assert.Equal(t, StateRunning, timer.State())

	timer.Reset()
	assert.Equal(t, StateReady, timer.State())
	assert.Equal(t, 120, timer.Remaining())

	timer.Close()
	assert.Equal(t, StateIdle, timer.State())
}

func TestTimer_showBelowMinimumKeepsConfigured(t *testing.T) {
	timer := New(nil)
	defer timer.Close()

	timer.Show(5)
	assert.Equal(t, DefaultDuration, timer.Remaining())
	assert.Equal(t, DefaultDuration, timer.Duration())
}

func TestTimer_tickCountsDownAndExpires(t *testing.T) {
	expired := make(chan struct{}, 1)
	timer := New(func() { expired <- struct{}{} })
	defer timer.Close()

	timer.Show(MinDuration)
	timer.Start()

	// drive the countdown by hand instead of waiting on the ticker
	for i := 0; i < MinDuration-1; i++ {
		timer.tick()
	}
	assert.Equal(t, 1, timer.Remaining())
	assert.Equal(t, StateRunning, timer.State())
	assert.Empty(t, expired)

	timer.tick()
	assert.Equal(t, 0, timer.Remaining())
	assert.Equal(t, StateExpired, timer.State())

	select {
	case <-expired:
	case <-time.After(time.Second):
		t.Fatal("expiry notification never fired")
	}

	// a stray tick after expiry must not fire again
	timer.tick()
	assert.Empty(t, expired)

	// expired behaves like paused at zero, restarting runs the full duration
	timer.Start()
	assert.Equal(t, StateRunning, timer.State())
	assert.Equal(t, MinDuration, timer.Remaining())
}

func TestTimer_adjustWhileExpired(t *testing.T) {
	timer := New(nil)
	defer timer.Close()

	timer.Show(MinDuration)
	timer.Start()
	for i := 0; i < MinDuration; i++ {
		timer.tick()
	}
	require.Equal(t, StateExpired, timer.State())

	// remaining is zero at expiry, so the delta counts from zero
	timer.Adjust(30)
	assert.Equal(t, 30, timer.Remaining())
	assert.Equal(t, 30, timer.Duration())
}

func TestTimer_tickIgnoredWhenPaused(t *testing.T) {
	timer := New(nil)
	defer timer.Close()

	timer.Show(60)
	timer.Start()
	timer.Pause()

	timer.tick()
	assert.Equal(t, 60, timer.Remaining())
}

func TestTimer_adjust(t *testing.T) {
	timer := New(nil)
	defer timer.Close()

	timer.Show(20)
	timer.Start()

	timer.Adjust(30)
	assert.Equal(t, 50, timer.Remaining())
	assert.Equal(t, 50, timer.Duration())

	// floors at the minimum and the duration follows
	timer.Adjust(-100)
	assert.Equal(t, MinDuration, timer.Remaining())
	assert.Equal(t, MinDuration, timer.Duration())

	// already at the floor, nothing changes
	timer.Adjust(-10)
	assert.Equal(t, MinDuration, timer.Remaining())

	timer.Reset()
	assert.Equal(t, MinDuration, timer.Remaining())
}

func TestTimer_adjustIgnoredWhenIdle(t *testing.T) {
	timer := New(nil)
	timer.Adjust(30)
	assert.Equal(t, DefaultDuration, timer.Duration())
}

func TestTimer_setPreset(t *testing.T) {
	timer := New(nil)
	defer timer.Close()

	require.Contains(t, Presets, 180)
	timer.SetPreset(180)
	assert.Equal(t, StateReady, timer.State())
	assert.Equal(t, 180, timer.Remaining())

	timer.SetPreset(3)
	assert.Equal(t, 180, timer.Duration())
}

func TestTimer_startOnlyFromReadyOrPaused(t *testing.T) {
	timer := New(nil)
	defer timer.Close()

	timer.Start()
	assert.Equal(t, StateIdle, timer.State())

	timer.Show(30)
	timer.Start()
	timer.Pause()
	timer.Start()
	assert.Equal(t, StateRunning, timer.State())
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "1:30", FormatSeconds(90))
	assert.Equal(t, "0:05", FormatSeconds(5))
	assert.Equal(t, "3:00", FormatSeconds(180))
	assert.Equal(t, "0:00", FormatSeconds(-7))

	timer := New(nil)
	defer timer.Close()
	timer.Show(125)
	assert.Equal(t, "2:05", timer.Display())
}

func TestTimer_countdownWithRealTicker(t *testing.T) {
	expired := make(chan struct{}, 1)
	timer := New(func() { expired <- struct{}{} })
	timer.interval = time.Millisecond
	defer timer.Close()

	timer.Show(MinDuration)
	timer.Start()

	select {
	case <-expired:
	case <-time.After(5 * time.Second):
		t.Fatal("countdown never expired")
	}
	assert.Equal(t, StateExpired, timer.State())
}
