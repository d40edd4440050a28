// Package curfew works out whether the nightly stay-up window is active.
// The window opens at a configured time of day and closes at 06:00.
package curfew

import (
	"fmt"
	"time"
)

const (
	EndHour   = 6
	EndMinute = 0
)

// Window is the start of the stay-up limit.
type Window struct {
	Hour   int
	Minute int
}

func (w Window) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", w.Hour, w.Minute, EndHour, EndMinute)
}

// Contains reports whether t falls inside the window in t's location.
// A start after 06:00 wraps past midnight. A start equal to 06:00 is empty.
func (w Window) Contains(t time.Time) bool {
	now := t.Hour()*60 + t.Minute()
	start := w.Hour*60 + w.Minute
	end := EndHour*60 + EndMinute

	switch {
	case start == end:
		return false
	case start < end:
		return now >= start && now < end
	default:
		return now >= start || now < end
	}
}

// Change is an edge reported by Monitor.
type Change int

const (
	None Change = iota
	Entered
	Left
)

func (c Change) String() string {
	switch c {
	case Entered:
		return "entered"
	case Left:
		return "left"
	}
	return "none"
}

// Monitor turns periodic checks into entered/left edges.
type Monitor struct {
	active bool
}

func (m *Monitor) Active() bool { return m.active }

// Check compares now against the window. A disabled curfew is never active,
// so disabling it inside the window reports Left.
func (m *Monitor) Check(now time.Time, enabled bool, w Window) Change {
	inside := enabled && w.Contains(now)
	switch {
	case inside && !m.active:
		m.active = true
		return Entered
	case !inside && m.active:
		m.active = false
		return Left
	}
	return None
}
