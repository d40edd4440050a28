// Package restart decides how the timer reacts to user commands and system
// signals. It holds the current mode and nothing else that changes over time
// except the debounce timestamp and the curfew flag.
package restart

import (
	"io"
	"log/slog"
	"time"
)

// DebounceWindow is how long after an external resume a screen unlock is
// treated as the same physical event.
const DebounceWindow = time.Second

// Machine is not safe for concurrent use. Callers serialize access.
type Machine struct {
	mode   Mode
	policy Policy

	curfew        bool
	lastResume    time.Time
	hasLastResume bool

	clock  Clock
	logger *slog.Logger
}

// New returns a machine in ModeIdle.
func New(policy Policy) *Machine {
	return &Machine{
		mode:   ModeIdle,
		policy: policy,
		clock:  SystemClock{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetClock replaces the clock used for the debounce window.
func (m *Machine) SetClock(c Clock) {
	if c != nil {
		m.clock = c
	}
}

func (m *Machine) SetLogger(l *slog.Logger) {
	if l != nil {
		m.logger = l
	}
}

// Process applies event e, commits the next mode and returns the action.
func (m *Machine) Process(e Event) Action {
	from := m.mode
	next, action := Transition(e, from, Inputs{
		Policy:    m.policy,
		Debounced: m.debounced(),
		Curfew:    m.curfew,
	})
	m.mode = next

	m.logger.Debug("restart transition",
		"event", e, "from", from, "to", next, "action", action)
	return action
}

func (m *Machine) debounced() bool {
	if !m.hasLastResume {
		return false
	}
	return m.clock.Now().Sub(m.lastResume) < DebounceWindow
}

// MarkExternalResumeNow records the debounce timestamp. Call it right before
// dispatching EventScreensaverStopped.
func (m *Machine) MarkExternalResumeNow() {
	m.lastResume = m.clock.Now()
	m.hasLastResume = true
}

// SetCurfewActive stores the host's view of the stay-up window.
func (m *Machine) SetCurfewActive(active bool) { m.curfew = active }

// SetPolicy takes effect on the next event.
func (m *Machine) SetPolicy(p Policy) { m.policy = p }

func (m *Machine) Policy() Policy { return m.policy }

func (m *Machine) Mode() Mode { return m.mode }

func (m *Machine) IsInRest() bool { return m.mode.InRest() }

func (m *Machine) IsRestRunning() bool { return m.mode == ModeRestRunning }

func (m *Machine) IsForcedSleep() bool { return m.mode == ModeForcedSleep }

func (m *Machine) IsPaused() bool { return m.mode.Paused() }

func (m *Machine) IsRunning() bool { return m.mode.Running() }

// IsInCurfewWindow returns the flag last set with SetCurfewActive.
func (m *Machine) IsInCurfewWindow() bool { return m.curfew }
