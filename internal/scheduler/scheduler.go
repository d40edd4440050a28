// Package scheduler runs the work/rest countdown on top of the restart
// machine. It advances one second per Tick, alternates work and rest
// intervals, and inserts a long rest every LongBreakCycle work intervals.
//
// A Scheduler is driven from a single goroutine. It does no locking.
package scheduler

import (
	"io"
	"log/slog"

	"github.com/sadopc/pomoscreen/internal/restart"
)

const warnAtSeconds = 30

type Scheduler struct {
	machine   *restart.Machine
	callbacks Callbacks
	logger    *slog.Logger

	workSeconds      int
	shortRestSeconds int
	longRestSeconds  int
	longBreakCycle   int
	autoStartNext    bool

	remaining  int
	kind       IntervalKind
	isLongRest bool
	completed  int
}

// New returns an idle scheduler loaded with a full work interval.
func New(settings Settings, callbacks Callbacks) *Scheduler {
	s := &Scheduler{
		machine:   restart.New(settings.Policy),
		callbacks: callbacks,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		kind:      Work,
	}
	s.applySettings(settings)
	s.remaining = s.workSeconds
	return s
}

func (s *Scheduler) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	s.logger = l
	s.machine.SetLogger(l)
}

// SetClock replaces the clock behind the unlock debounce window.
func (s *Scheduler) SetClock(c restart.Clock) { s.machine.SetClock(c) }

func (s *Scheduler) applySettings(st Settings) {
	s.workSeconds = seconds(st.Work)
	s.shortRestSeconds = seconds(st.ShortRest)
	s.longRestSeconds = seconds(st.LongRest)
	s.longBreakCycle = st.LongBreakCycle
	if s.longBreakCycle < 0 {
		s.longBreakCycle = 0
	}
	s.autoStartNext = st.AutoStartNextWork
	s.machine.SetPolicy(st.Policy)
}

// UpdateSettings swaps durations and policy. A countdown with progress keeps
// its remaining time. A fully idle scheduler reloads the new work duration.
func (s *Scheduler) UpdateSettings(st Settings) {
	untouched := !s.IsRunning() && !s.CanResume() && !s.IsInRest()
	s.applySettings(st)
	if untouched {
		s.kind = Work
		s.remaining = s.workSeconds
	}
	s.display()
}

// ---------------------------------------------------------------------------
// Commands
// ---------------------------------------------------------------------------

// Tick advances the countdown by one second. The interval finishes on the
// tick that observes zero remaining, never on the tick that reaches it.
func (s *Scheduler) Tick() {
	if !s.machine.IsRunning() {
		return
	}
	if s.remaining > 0 {
		s.remaining--
		if s.kind == Work {
			s.warn()
		}
		s.display()
		return
	}
	s.finishInterval()
}

// Start begins a full work interval, or enters forced sleep when the
// curfew is active.
func (s *Scheduler) Start() {
	if s.machine.IsInCurfewWindow() {
		s.OnCurfewTriggered()
		return
	}
	s.kind = Work
	s.isLongRest = false
	s.remaining = s.workSeconds
	s.apply(s.machine.Process(restart.EventWorkStarted))
	s.display()
}

// Stop is unconditional. The remaining time is kept.
func (s *Scheduler) Stop() {
	s.apply(s.machine.Process(restart.EventWorkStopped))
	s.display()
}

func (s *Scheduler) Pause() {
	if !s.machine.IsRunning() {
		return
	}
	s.apply(s.machine.Process(restart.EventWorkPaused))
	s.display()
}

// Resume re-enters the running mode for the current interval kind. A
// countdown that already hit zero restarts at its full duration.
func (s *Scheduler) Resume() {
	if !s.machine.IsPaused() {
		return
	}
	if s.remaining <= 0 {
		s.remaining = s.TotalSeconds()
	}
	event := restart.EventWorkStarted
	if s.kind.IsRest() {
		event = restart.EventRestStarted
	}
	s.apply(s.machine.Process(event))
	s.display()
}

// FinishNow ends the current interval immediately. Ignored in forced sleep.
func (s *Scheduler) FinishNow() {
	if s.machine.IsForcedSleep() {
		return
	}
	s.remaining = 0
	s.finishInterval()
}

// CancelRest skips the rest in progress and loads a full work interval
// without starting it.
func (s *Scheduler) CancelRest() {
	if !s.machine.IsInRest() {
		return
	}
	s.apply(s.machine.Process(restart.EventRestCancelled))
	s.kind = Work
	s.isLongRest = false
	s.remaining = s.workSeconds
	s.display()
}

// ---------------------------------------------------------------------------
// System signals
// ---------------------------------------------------------------------------

func (s *Scheduler) OnIdleExceeded() { s.dispatch(restart.EventIdleTimeExceeded) }

func (s *Scheduler) OnUserActivity() { s.dispatch(restart.EventUserActivityDetected) }

func (s *Scheduler) OnScreenLocked() { s.dispatch(restart.EventScreenLocked) }

func (s *Scheduler) OnScreenUnlocked() { s.dispatch(restart.EventScreenUnlocked) }

func (s *Scheduler) OnScreensaverStarted() { s.dispatch(restart.EventScreensaverStarted) }

// OnScreensaverStopped marks the debounce timestamp so a paired unlock
// notification is not handled twice.
func (s *Scheduler) OnScreensaverStopped() {
	s.machine.MarkExternalResumeNow()
	s.dispatch(restart.EventScreensaverStopped)
}

func (s *Scheduler) OnCurfewTriggered() {
	s.machine.SetCurfewActive(true)
	s.dispatch(restart.EventForcedSleepTriggered)
}

func (s *Scheduler) OnCurfewEnded() {
	s.machine.SetCurfewActive(false)
	s.dispatch(restart.EventForcedSleepEnded)
}

func (s *Scheduler) dispatch(e restart.Event) {
	s.apply(s.machine.Process(e))
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

func (s *Scheduler) IsRunning() bool { return s.machine.IsRunning() }

func (s *Scheduler) IsPaused() bool { return s.machine.IsPaused() }

// CanResume is true when paused, or when a countdown was interrupted
// without a formal pause.
func (s *Scheduler) CanResume() bool {
	return s.machine.IsPaused() || (s.remaining > 0 && s.remaining < s.TotalSeconds())
}

func (s *Scheduler) IsInRest() bool { return s.machine.IsInRest() }

func (s *Scheduler) IsRestRunning() bool { return s.machine.IsRestRunning() }

func (s *Scheduler) IsForcedSleep() bool { return s.machine.IsForcedSleep() }

func (s *Scheduler) Mode() restart.Mode { return s.machine.Mode() }

func (s *Scheduler) Policy() restart.Policy { return s.machine.Policy() }

func (s *Scheduler) Remaining() int { return s.remaining }

func (s *Scheduler) Display() string { return FormatClock(s.remaining) }

func (s *Scheduler) Kind() IntervalKind { return s.kind }

func (s *Scheduler) IsLongRest() bool { return s.isLongRest }

func (s *Scheduler) CompletedWorkIntervals() int { return s.completed }

func (s *Scheduler) LongBreakCycle() int { return s.longBreakCycle }

// TotalSeconds is the full duration of the current interval kind.
func (s *Scheduler) TotalSeconds() int {
	switch s.kind {
	case ShortRest:
		return s.shortRestSeconds
	case LongRest:
		return s.longRestSeconds
	}
	return s.workSeconds
}

// Snapshot is a read-only copy of the scheduler state.
type Snapshot struct {
	Mode                   restart.Mode `json:"mode"`
	Interval               string       `json:"interval"`
	RemainingSeconds       int          `json:"remaining_seconds"`
	TotalSeconds           int          `json:"total_seconds"`
	Display                string       `json:"display"`
	CompletedWorkIntervals int          `json:"completed_work_intervals"`
	Running                bool         `json:"running"`
	Paused                 bool         `json:"paused"`
	CanResume              bool         `json:"can_resume"`
	InRest                 bool         `json:"in_rest"`
	LongRest               bool         `json:"long_rest"`
	ForcedSleep            bool         `json:"forced_sleep"`
}

func (s *Scheduler) Snapshot() Snapshot {
	return Snapshot{
		Mode:                   s.Mode(),
		Interval:               s.kind.String(),
		RemainingSeconds:       s.remaining,
		TotalSeconds:           s.TotalSeconds(),
		Display:                s.Display(),
		CompletedWorkIntervals: s.completed,
		Running:                s.IsRunning(),
		Paused:                 s.IsPaused(),
		CanResume:              s.CanResume(),
		InRest:                 s.IsInRest(),
		LongRest:               s.isLongRest,
		ForcedSleep:            s.IsForcedSleep(),
	}
}
