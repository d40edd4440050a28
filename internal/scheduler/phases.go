package scheduler

import "github.com/sadopc/pomoscreen/internal/restart"

// finishInterval runs the phase-finished step and, when it asks for it,
// starts the next work interval. Start never finishes an interval, so this
// is the only place the continuation runs and it runs at most once.
func (s *Scheduler) finishInterval() {
	if s.completeInterval() {
		s.Start()
	}
}

// completeInterval closes the current interval and loads the next one.
// It reports whether the next work interval should start right away.
func (s *Scheduler) completeInterval() (startNext bool) {
	if !s.kind.IsRest() {
		s.completed++
		s.isLongRest = s.completed > 0 && s.longBreakCycle > 0 && s.completed%s.longBreakCycle == 0
		if s.isLongRest {
			s.kind = LongRest
			s.remaining = s.longRestSeconds
		} else {
			s.kind = ShortRest
			s.remaining = s.shortRestSeconds
		}
		s.logger.Info("work interval finished",
			"completed", s.completed, "rest", s.kind, "rest_seconds", s.remaining)

		s.apply(s.machine.Process(restart.EventWorkPhaseFinished))
		s.apply(s.machine.Process(restart.EventRestStarted))
		s.display()
		return false
	}

	finished, finishedSeconds := s.kind, s.TotalSeconds()
	action := s.machine.Process(restart.EventRestFinished)
	s.kind = Work
	s.isLongRest = false
	s.remaining = s.workSeconds
	s.logger.Info("rest interval finished", "rest", finished, "auto_start", s.autoStartNext)

	if s.callbacks.OnRestFinished != nil {
		s.callbacks.OnRestFinished(finished, finishedSeconds)
	}
	if action == restart.ActionBeginNextWorkInterval && s.autoStartNext {
		return true
	}
	s.display()
	return false
}

// apply carries out the countdown side of an action.
// ActionBeginNextWorkInterval is handled by completeInterval.
func (s *Scheduler) apply(a restart.Action) {
	switch a {
	case restart.ActionPauseCountdown, restart.ActionResumeCountdown:
		s.display()
	case restart.ActionRestartCountdown:
		s.remaining = s.TotalSeconds()
		s.display()
	case restart.ActionRequestRestOverlay:
		if s.callbacks.OnWorkIntervalFinished != nil {
			s.callbacks.OnWorkIntervalFinished()
		}
	case restart.ActionEnterForcedSleep:
		s.logger.Info("forced sleep started")
		if s.callbacks.OnForcedSleepStarted != nil {
			s.callbacks.OnForcedSleepStarted()
		}
	case restart.ActionExitForcedSleep:
		s.logger.Info("forced sleep ended")
		if s.callbacks.OnForcedSleepEnded != nil {
			s.callbacks.OnForcedSleepEnded()
		}
	}
}

func (s *Scheduler) display() {
	if s.callbacks.OnTimeDisplay != nil {
		s.callbacks.OnTimeDisplay(s.Display())
	}
}

func (s *Scheduler) warn() {
	if s.callbacks.OnCountdownWarning == nil {
		return
	}
	if s.remaining == warnAtSeconds || (s.remaining > 0 && s.remaining <= 10) {
		s.callbacks.OnCountdownWarning(s.remaining)
	}
}
