package restart

import (
	"errors"
	"fmt"
	"time"
)

// Mode is the timer's current state as seen by the restart machine.
type Mode string

const (
	ModeIdle               Mode = "idle"
	ModeWorkRunning        Mode = "work_running"
	ModeWorkPausedByUser   Mode = "work_paused_by_user"
	ModeWorkPausedByIdle   Mode = "work_paused_by_idle"
	ModeWorkPausedBySystem Mode = "work_paused_by_system"
	// ModeAwaitingRestart is reserved. No transition enters it.
	ModeAwaitingRestart    Mode = "awaiting_restart"
	ModeRestPending        Mode = "rest_pending"
	ModeRestRunning        Mode = "rest_running"
	ModeRestPausedByUser   Mode = "rest_paused_by_user"
	ModeRestPausedBySystem Mode = "rest_paused_by_system"
	ModeForcedSleep        Mode = "forced_sleep"
)

// InRest reports whether m belongs to a rest interval, pending or counting.
func (m Mode) InRest() bool {
	switch m {
	case ModeRestPending, ModeRestRunning, ModeRestPausedByUser, ModeRestPausedBySystem:
		return true
	}
	return false
}

// Paused reports whether m is any of the paused modes.
func (m Mode) Paused() bool {
	switch m {
	case ModeWorkPausedByUser, ModeWorkPausedByIdle, ModeWorkPausedBySystem,
		ModeRestPausedByUser, ModeRestPausedBySystem:
		return true
	}
	return false
}

// Running reports whether the countdown should advance in m.
func (m Mode) Running() bool {
	return m == ModeWorkRunning || m == ModeRestRunning
}

// Event is an input to the restart machine.
type Event string

const (
	EventWorkStarted          Event = "work_started"
	EventWorkStopped          Event = "work_stopped"
	EventWorkPaused           Event = "work_paused"
	EventIdleTimeExceeded     Event = "idle_time_exceeded"
	EventUserActivityDetected Event = "user_activity_detected"
	EventScreenLocked         Event = "screen_locked"
	EventScreenUnlocked       Event = "screen_unlocked"
	EventScreensaverStarted   Event = "screensaver_started"
	EventScreensaverStopped   Event = "screensaver_stopped"
	EventWorkPhaseFinished    Event = "work_phase_finished"
	EventRestStarted          Event = "rest_started"
	EventRestFinished         Event = "rest_finished"
	EventRestCancelled        Event = "rest_cancelled"
	EventForcedSleepTriggered Event = "forced_sleep_triggered"
	EventForcedSleepEnded     Event = "forced_sleep_ended"
)

var allEvents = []Event{
	EventWorkStarted, EventWorkStopped, EventWorkPaused,
	EventIdleTimeExceeded, EventUserActivityDetected,
	EventScreenLocked, EventScreenUnlocked,
	EventScreensaverStarted, EventScreensaverStopped,
	EventWorkPhaseFinished, EventRestStarted, EventRestFinished, EventRestCancelled,
	EventForcedSleepTriggered, EventForcedSleepEnded,
}

// ErrUnknownEvent is returned by ParseEvent for names it does not know.
var ErrUnknownEvent = errors.New("unknown event")

// ParseEvent maps an event name such as "screen_locked" to its Event.
func ParseEvent(name string) (Event, error) {
	for _, e := range allEvents {
		if string(e) == name {
			return e, nil
		}
	}
	return "", fmt.Errorf("parse event %q: %w", name, ErrUnknownEvent)
}

// Action tells the scheduler what to do with its countdown after an event.
type Action string

const (
	ActionNone                  Action = "none"
	ActionPauseCountdown        Action = "pause_countdown"
	ActionResumeCountdown       Action = "resume_countdown"
	ActionRestartCountdown      Action = "restart_countdown"
	ActionRequestRestOverlay    Action = "request_rest_overlay"
	ActionBeginNextWorkInterval Action = "begin_next_work_interval"
	ActionEnterForcedSleep      Action = "enter_forced_sleep"
	ActionExitForcedSleep       Action = "exit_forced_sleep"
)

// Policy configures how system signals are answered.
// Each detector has an enable flag and a restart flag. A false restart flag
// means pause while the signal lasts and resume afterwards.
type Policy struct {
	IdleEnabled                bool
	IdleActionIsRestart        bool
	ScreenLockEnabled          bool
	ScreenLockActionIsRestart  bool
	ScreensaverEnabled         bool
	ScreensaverActionIsRestart bool
	CurfewEnabled              bool
	CurfewHour                 int
	CurfewMinute               int
}

// DefaultPolicy has every detector off with restart responses, and a 23:00 curfew.
func DefaultPolicy() Policy {
	return Policy{
		IdleActionIsRestart:        true,
		ScreenLockActionIsRestart:  true,
		ScreensaverActionIsRestart: true,
		CurfewHour:                 23,
	}
}

// Clock abstracts wall-clock time for the debounce window.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
