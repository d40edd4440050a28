package restart

// Inputs are the facts besides event and mode that a transition depends on.
type Inputs struct {
	Policy Policy
	// Debounced is true within DebounceWindow of the last external resume.
	Debounced bool
	// Curfew is true while the host reports the stay-up window as active.
	Curfew bool
}

// Transition computes the next mode and the action for event e in mode m.
// It is total: pairs that do not apply return m unchanged with ActionNone.
func Transition(e Event, m Mode, in Inputs) (Mode, Action) {
	p := in.Policy

	switch e {
	case EventWorkStarted:
		return ModeWorkRunning, ActionNone

	case EventWorkStopped:
		return ModeIdle, ActionNone

	case EventWorkPaused:
		if m.InRest() {
			return ModeRestPausedByUser, ActionNone
		}
		return ModeWorkPausedByUser, ActionNone

	case EventIdleTimeExceeded:
		if p.IdleEnabled && m == ModeWorkRunning {
			return ModeWorkPausedByIdle, ActionPauseCountdown
		}

	case EventUserActivityDetected:
		if p.IdleEnabled && m == ModeWorkPausedByIdle {
			return ModeWorkRunning, restartOrResume(p.IdleActionIsRestart)
		}

	case EventScreenLocked:
		if p.ScreenLockEnabled {
			return systemPause(m, p.ScreenLockActionIsRestart)
		}

	case EventScreensaverStarted:
		if p.ScreensaverEnabled {
			return systemPause(m, p.ScreensaverActionIsRestart)
		}

	case EventScreenUnlocked:
		if p.ScreenLockEnabled {
			return unlock(m, in)
		}

	case EventScreensaverStopped:
		if !p.ScreensaverEnabled {
			break
		}
		switch m {
		case ModeWorkPausedBySystem:
			return ModeWorkRunning, restartOrResume(p.ScreensaverActionIsRestart)
		case ModeRestPausedBySystem:
			// Rest time is never discarded because of a screensaver.
			return ModeRestRunning, ActionResumeCountdown
		case ModeWorkRunning:
			if p.ScreensaverActionIsRestart {
				return ModeWorkRunning, ActionRestartCountdown
			}
		}

	case EventWorkPhaseFinished:
		return ModeRestPending, ActionRequestRestOverlay

	case EventRestStarted:
		return ModeRestRunning, ActionNone

	case EventRestFinished:
		return ModeIdle, ActionBeginNextWorkInterval

	case EventRestCancelled:
		return ModeIdle, ActionNone

	case EventForcedSleepTriggered:
		if p.CurfewEnabled {
			return ModeForcedSleep, ActionEnterForcedSleep
		}

	case EventForcedSleepEnded:
		if m == ModeForcedSleep {
			return ModeIdle, ActionExitForcedSleep
		}
	}

	return m, ActionNone
}

func restartOrResume(restart bool) Action {
	if restart {
		return ActionRestartCountdown
	}
	return ActionResumeCountdown
}

// systemPause handles lock and screensaver start. With a restart policy the
// countdown keeps running and the restart happens when the signal ends.
func systemPause(m Mode, restart bool) (Mode, Action) {
	if restart {
		return m, ActionNone
	}
	switch m {
	case ModeWorkRunning:
		return ModeWorkPausedBySystem, ActionPauseCountdown
	case ModeRestRunning:
		return ModeRestPausedBySystem, ActionPauseCountdown
	}
	return m, ActionNone
}

func unlock(m Mode, in Inputs) (Mode, Action) {
	restart := in.Policy.ScreenLockActionIsRestart

	switch m {
	case ModeWorkPausedBySystem, ModeRestPausedBySystem, ModeWorkRunning:
		if in.Debounced {
			return m, ActionNone
		}
	}

	switch m {
	case ModeWorkPausedBySystem:
		return ModeWorkRunning, restartOrResume(restart)
	case ModeRestPausedBySystem:
		return ModeRestRunning, restartOrResume(restart)
	case ModeWorkRunning:
		if restart {
			return ModeWorkRunning, ActionRestartCountdown
		}
	case ModeForcedSleep:
		if !in.Curfew {
			return ModeIdle, ActionExitForcedSleep
		}
	}
	return m, ActionNone
}
