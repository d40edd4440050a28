package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/pomoscreen/internal/restart"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

// recorder collects every callback so tests can assert on host notifications.
type recorder struct {
	displays     []string
	workFinished int
	restFinished []IntervalKind
	sleepStarted int
	sleepEnded   int
	warnings     []int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnTimeDisplay:          func(d string) { r.displays = append(r.displays, d) },
		OnWorkIntervalFinished: func() { r.workFinished++ },
		OnRestFinished:         func(k IntervalKind, _ int) { r.restFinished = append(r.restFinished, k) },
		OnForcedSleepStarted:   func() { r.sleepStarted++ },
		OnForcedSleepEnded:     func() { r.sleepEnded++ },
		OnCountdownWarning:     func(n int) { r.warnings = append(r.warnings, n) },
	}
}

func (r *recorder) lastDisplay() string {
	if len(r.displays) == 0 {
		return ""
	}
	return r.displays[len(r.displays)-1]
}

func shortSettings() Settings {
	st := DefaultSettings()
	st.Work = 5 * time.Second
	st.ShortRest = 2 * time.Second
	st.LongRest = 4 * time.Second
	st.LongBreakCycle = 2
	st.AutoStartNextWork = false
	return st
}

func newTestScheduler(t *testing.T, st Settings) (*Scheduler, *recorder) {
	t.Helper()
	r := &recorder{}
	return New(st, r.callbacks()), r
}

// ticks calls Tick n times.
func ticks(s *Scheduler, n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

// runInterval ticks until the current interval finishes.
func runInterval(s *Scheduler) {
	ticks(s, s.Remaining()+1)
}

// ============================================================
// Countdown
// ============================================================

func TestNewSchedulerIsIdle(t *testing.T) {
	s, _ := newTestScheduler(t, DefaultSettings())
	assert.Equal(t, restart.ModeIdle, s.Mode())
	assert.Equal(t, 1500, s.Remaining())
	assert.Equal(t, "25:00", s.Display())
	assert.False(t, s.CanResume())
}

func TestTickIgnoredWhenNotRunning(t *testing.T) {
	s, r := newTestScheduler(t, shortSettings())
	ticks(s, 3)
	assert.Equal(t, 5, s.Remaining())
	assert.Empty(t, r.displays)
}

func TestStartAndTick(t *testing.T) {
	s, r := newTestScheduler(t, shortSettings())
	s.Start()
	assert.Equal(t, restart.ModeWorkRunning, s.Mode())
	assert.Equal(t, "00:05", r.lastDisplay())

	ticks(s, 2)
	assert.Equal(t, 3, s.Remaining())
	assert.Equal(t, "00:03", r.lastDisplay())
}

func TestIntervalFinishesOnTickObservingZero(t *testing.T) {
	s, r := newTestScheduler(t, shortSettings())
	s.Start()
	ticks(s, 5)
	assert.Equal(t, 0, s.Remaining())
	assert.Equal(t, 0, r.workFinished)

	s.Tick()
	assert.Equal(t, 1, r.workFinished)
	assert.Equal(t, restart.ModeRestRunning, s.Mode())
	assert.Equal(t, ShortRest, s.Kind())
	assert.Equal(t, 2, s.Remaining())
}

func TestRemainingNeverNegative(t *testing.T) {
	st := shortSettings()
	st.AutoStartNextWork = true
	s, _ := newTestScheduler(t, st)
	s.Start()
	for i := 0; i < 200; i++ {
		s.Tick()
		require.GreaterOrEqual(t, s.Remaining(), 0)
		if i%7 == 0 {
			s.Pause()
			s.Resume()
		}
	}
}

func TestCountdownWarnings(t *testing.T) {
	st := shortSettings()
	st.Work = 35 * time.Second
	s, r := newTestScheduler(t, st)
	s.Start()
	ticks(s, 35)
	assert.Equal(t, []int{30, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1}, r.warnings)

	r.warnings = nil
	s.Tick()
	runInterval(s)
	assert.Empty(t, r.warnings, "rest intervals do not warn")
}

// ============================================================
// Phase scheduling
// ============================================================

func TestLongBreakCadence(t *testing.T) {
	st := DefaultSettings()
	st.Work = 1500 * time.Second
	st.ShortRest = 180 * time.Second
	st.LongRest = 900 * time.Second
	st.LongBreakCycle = 4
	st.AutoStartNextWork = true
	s, _ := newTestScheduler(t, st)
	s.Start()

	for n := 1; n <= 12; n++ {
		runInterval(s)
		require.True(t, s.IsRestRunning(), "interval %d", n)
		assert.Equal(t, n, s.CompletedWorkIntervals())
		if n%4 == 0 {
			assert.Equal(t, 900, s.Remaining(), "rest after interval %d", n)
			assert.True(t, s.IsLongRest())
			assert.Equal(t, LongRest, s.Kind())
		} else {
			assert.Equal(t, 180, s.Remaining(), "rest after interval %d", n)
			assert.False(t, s.IsLongRest())
		}
		runInterval(s)
		require.Equal(t, restart.ModeWorkRunning, s.Mode())
	}
}

func TestLongBreakCycleZeroDisablesLongRest(t *testing.T) {
	st := shortSettings()
	st.LongBreakCycle = 0
	st.AutoStartNextWork = true
	s, _ := newTestScheduler(t, st)
	s.Start()
	for n := 0; n < 6; n++ {
		runInterval(s)
		assert.Equal(t, ShortRest, s.Kind())
		runInterval(s)
	}
}

func TestAutoStartRoundTrip(t *testing.T) {
	st := shortSettings()
	st.AutoStartNextWork = true
	s, r := newTestScheduler(t, st)
	s.Start()
	runInterval(s)
	require.True(t, s.IsRestRunning())

	runInterval(s)
	assert.Equal(t, restart.ModeWorkRunning, s.Mode())
	assert.Equal(t, 5, s.Remaining())
	assert.Equal(t, Work, s.Kind())
	assert.Equal(t, []IntervalKind{ShortRest}, r.restFinished)
}

func TestWithoutAutoStartWaitsForStart(t *testing.T) {
	s, r := newTestScheduler(t, shortSettings())
	s.Start()
	runInterval(s)
	runInterval(s)

	assert.Equal(t, restart.ModeIdle, s.Mode())
	assert.Equal(t, 5, s.Remaining())
	assert.Equal(t, "00:05", r.lastDisplay())

	ticks(s, 3)
	assert.Equal(t, 5, s.Remaining())

	s.Start()
	assert.True(t, s.IsRunning())
}

func TestZeroDurationsFinishOnNextTick(t *testing.T) {
	st := shortSettings()
	st.Work = 0
	st.ShortRest = 0
	st.LongRest = 0
	st.AutoStartNextWork = true
	s, r := newTestScheduler(t, st)

	s.Start()
	assert.Equal(t, 0, r.workFinished, "start must not finish an interval")

	s.Tick()
	assert.Equal(t, 1, r.workFinished)
	assert.True(t, s.IsRestRunning())

	s.Tick()
	assert.Equal(t, restart.ModeWorkRunning, s.Mode())
	assert.Equal(t, 1, r.workFinished)

	s.Tick()
	assert.Equal(t, 2, r.workFinished)
}

func TestFinishNow(t *testing.T) {
	s, r := newTestScheduler(t, shortSettings())
	s.Start()
	s.Tick()
	s.FinishNow()
	assert.Equal(t, 1, r.workFinished)
	assert.True(t, s.IsRestRunning())

	s.FinishNow()
	assert.Equal(t, restart.ModeIdle, s.Mode())
	assert.Equal(t, Work, s.Kind())
}

func TestCancelRest(t *testing.T) {
	s, _ := newTestScheduler(t, shortSettings())
	s.CancelRest()
	assert.Equal(t, restart.ModeIdle, s.Mode())

	s.Start()
	runInterval(s)
	require.True(t, s.IsInRest())

	s.CancelRest()
	assert.Equal(t, restart.ModeIdle, s.Mode())
	assert.Equal(t, Work, s.Kind())
	assert.Equal(t, 5, s.Remaining())
	assert.False(t, s.CanResume())
}

// ============================================================
// Pause and resume
// ============================================================

func TestPauseResume(t *testing.T) {
	s, _ := newTestScheduler(t, shortSettings())
	s.Pause()
	assert.Equal(t, restart.ModeIdle, s.Mode(), "pause only applies while running")

	s.Start()
	s.Tick()
	s.Pause()
	assert.True(t, s.IsPaused())
	assert.True(t, s.CanResume())

	ticks(s, 3)
	assert.Equal(t, 4, s.Remaining())

	s.Resume()
	assert.Equal(t, restart.ModeWorkRunning, s.Mode())
	assert.Equal(t, 4, s.Remaining())
}

func TestResumeAtZeroRestartsInterval(t *testing.T) {
	s, _ := newTestScheduler(t, shortSettings())
	s.Start()
	ticks(s, 5)
	s.Pause()
	require.Equal(t, restart.ModeWorkPausedByUser, s.Mode())
	require.Equal(t, 0, s.Remaining())

	s.Resume()
	assert.Equal(t, 5, s.Remaining())
	assert.Equal(t, restart.ModeWorkRunning, s.Mode())
}

func TestPauseResumeDuringRest(t *testing.T) {
	s, _ := newTestScheduler(t, shortSettings())
	s.Start()
	runInterval(s)
	s.Tick()
	s.Pause()
	assert.Equal(t, restart.ModeRestPausedByUser, s.Mode())

	s.Resume()
	assert.Equal(t, restart.ModeRestRunning, s.Mode())
	assert.Equal(t, 1, s.Remaining())
}

func TestCanResumeAfterSilentInterruption(t *testing.T) {
	s, _ := newTestScheduler(t, shortSettings())
	s.Start()
	ticks(s, 2)
	s.Stop()
	assert.False(t, s.IsPaused())
	assert.True(t, s.CanResume())
}

// ============================================================
// System signals
// ============================================================

func TestScreenLockPauseResumeKeepsRemaining(t *testing.T) {
	st := shortSettings()
	st.Policy.ScreenLockEnabled = true
	st.Policy.ScreenLockActionIsRestart = false
	s, _ := newTestScheduler(t, st)
	s.Start()
	ticks(s, 2)

	s.OnScreenLocked()
	assert.Equal(t, restart.ModeWorkPausedBySystem, s.Mode())
	ticks(s, 2)
	assert.Equal(t, 3, s.Remaining())

	s.OnScreenUnlocked()
	assert.Equal(t, restart.ModeWorkRunning, s.Mode())
	assert.Equal(t, 3, s.Remaining())
}

func TestScreenUnlockRestartResetsCountdown(t *testing.T) {
	st := shortSettings()
	st.Policy.ScreenLockEnabled = true
	st.Policy.ScreenLockActionIsRestart = true
	s, _ := newTestScheduler(t, st)
	s.SetClock(&fakeClock{now: time.Now()})
	s.Start()
	ticks(s, 3)

	s.OnScreenLocked()
	assert.True(t, s.IsRunning())
	s.OnScreenUnlocked()
	assert.Equal(t, 5, s.Remaining())
}

func TestIdleRestartResetsCountdown(t *testing.T) {
	st := shortSettings()
	st.Policy.IdleEnabled = true
	st.Policy.IdleActionIsRestart = true
	s, _ := newTestScheduler(t, st)
	s.Start()
	ticks(s, 3)

	s.OnIdleExceeded()
	assert.Equal(t, restart.ModeWorkPausedByIdle, s.Mode())
	s.OnUserActivity()
	assert.Equal(t, restart.ModeWorkRunning, s.Mode())
	assert.Equal(t, 5, s.Remaining())
}

func TestScreensaverDuringRestResumesRest(t *testing.T) {
	st := shortSettings()
	st.ShortRest = 10 * time.Second
	st.Policy.ScreensaverEnabled = true
	st.Policy.ScreensaverActionIsRestart = false
	s, _ := newTestScheduler(t, st)
	s.Start()
	runInterval(s)
	ticks(s, 4)

	s.OnScreensaverStarted()
	assert.Equal(t, restart.ModeRestPausedBySystem, s.Mode())
	s.OnScreensaverStopped()
	assert.Equal(t, restart.ModeRestRunning, s.Mode())
	assert.Equal(t, 6, s.Remaining())
}

func TestScreensaverStopSuppressesPairedUnlock(t *testing.T) {
	st := shortSettings()
	st.Policy.ScreenLockEnabled = true
	st.Policy.ScreenLockActionIsRestart = true
	st.Policy.ScreensaverEnabled = true
	st.Policy.ScreensaverActionIsRestart = false
	clock := &fakeClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	s, _ := newTestScheduler(t, st)
	s.SetClock(clock)
	s.Start()
	ticks(s, 2)

	s.OnScreensaverStarted()
	s.OnScreensaverStopped()
	clock.now = clock.now.Add(300 * time.Millisecond)
	s.OnScreenUnlocked()
	assert.Equal(t, 3, s.Remaining(), "unlock within the debounce window must not restart")
}

// ============================================================
// Curfew
// ============================================================

func TestStartDuringCurfewEntersForcedSleep(t *testing.T) {
	st := shortSettings()
	st.Policy.CurfewEnabled = true
	s, r := newTestScheduler(t, st)

	s.OnCurfewTriggered()
	assert.True(t, s.IsForcedSleep())
	assert.Equal(t, 1, r.sleepStarted)

	s.Start()
	assert.True(t, s.IsForcedSleep())
	assert.False(t, s.IsRunning())
	assert.Equal(t, 2, r.sleepStarted)

	s.FinishNow()
	assert.True(t, s.IsForcedSleep())

	s.OnCurfewEnded()
	assert.Equal(t, restart.ModeIdle, s.Mode())
	assert.Equal(t, 1, r.sleepEnded)

	s.Start()
	assert.True(t, s.IsRunning())
}

func TestCurfewSuspendsRunningCountdown(t *testing.T) {
	st := shortSettings()
	st.Policy.CurfewEnabled = true
	s, _ := newTestScheduler(t, st)
	s.Start()
	ticks(s, 2)

	s.OnCurfewTriggered()
	ticks(s, 2)
	assert.Equal(t, 3, s.Remaining())
	assert.False(t, s.IsRunning())
}

func TestCurfewEndedOutsideForcedSleepNotifiesNothing(t *testing.T) {
	s, r := newTestScheduler(t, shortSettings())
	s.OnCurfewEnded()
	assert.Equal(t, 0, r.sleepEnded)
}

func TestUnlockExitsForcedSleepAfterCurfew(t *testing.T) {
	st := shortSettings()
	st.Policy.CurfewEnabled = true
	st.Policy.ScreenLockEnabled = true
	s, r := newTestScheduler(t, st)
	s.OnCurfewTriggered()

	s.OnScreenUnlocked()
	assert.True(t, s.IsForcedSleep())

	s.OnCurfewEnded()
	assert.Equal(t, 1, r.sleepEnded)
}

// ============================================================
// Settings
// ============================================================

func TestUpdateSettingsWhileIdleReloadsWork(t *testing.T) {
	s, r := newTestScheduler(t, shortSettings())
	st := shortSettings()
	st.Work = 90 * time.Second
	s.UpdateSettings(st)
	assert.Equal(t, 90, s.Remaining())
	assert.Equal(t, "01:30", r.lastDisplay())
}

func TestUpdateSettingsKeepsProgress(t *testing.T) {
	s, _ := newTestScheduler(t, shortSettings())
	s.Start()
	ticks(s, 2)

	st := shortSettings()
	st.Work = 90 * time.Second
	s.UpdateSettings(st)
	assert.Equal(t, 3, s.Remaining())
	assert.True(t, s.IsRunning())
}

func TestUpdateSettingsSwapsPolicy(t *testing.T) {
	s, _ := newTestScheduler(t, shortSettings())
	s.Start()
	s.OnIdleExceeded()
	assert.True(t, s.IsRunning())

	st := shortSettings()
	st.Policy.IdleEnabled = true
	s.UpdateSettings(st)
	s.OnIdleExceeded()
	assert.Equal(t, restart.ModeWorkPausedByIdle, s.Mode())
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(-5))
	assert.Equal(t, "00:09", FormatClock(9))
	assert.Equal(t, "25:00", FormatClock(1500))
	assert.Equal(t, "90:01", FormatClock(5401))
}

func TestSnapshot(t *testing.T) {
	s, _ := newTestScheduler(t, shortSettings())
	s.Start()
	s.Tick()
	snap := s.Snapshot()
	assert.Equal(t, restart.ModeWorkRunning, snap.Mode)
	assert.Equal(t, "work", snap.Interval)
	assert.Equal(t, 4, snap.RemainingSeconds)
	assert.Equal(t, "00:04", snap.Display)
	assert.True(t, snap.Running)
	assert.True(t, snap.CanResume)
}
