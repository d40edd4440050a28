// Package activity polls the system idle time and reports whether the user
// is away.
package activity

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// DefaultCheckInterval is how often the provider is asked at most.
const DefaultCheckInterval = 5 * time.Second

// Provider reports the duration since the last user input.
type Provider interface {
	IdleDuration() (time.Duration, error)
}

// Signal is the result of a check.
type Signal int

const (
	// SignalNone means no check ran.
	SignalNone Signal = iota
	SignalIdle
	SignalActive
)

func (s Signal) String() string {
	switch s {
	case SignalIdle:
		return "idle"
	case SignalActive:
		return "active"
	}
	return "none"
}

// Monitor rate-limits idle checks and compares them against a threshold.
// Signals are level based: every check reports the current state and the
// consumer decides whether it matters.
type Monitor struct {
	provider  Provider
	threshold time.Duration
	interval  time.Duration
	enabled   bool

	lastCheck   time.Time
	unsupported bool
	logger      *slog.Logger
}

func NewMonitor(provider Provider, threshold time.Duration) *Monitor {
	return &Monitor{
		provider:  provider,
		threshold: threshold,
		interval:  DefaultCheckInterval,
		enabled:   true,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func (m *Monitor) SetLogger(l *slog.Logger) {
	if l != nil {
		m.logger = l
	}
}

// SetInterval changes the minimum time between provider calls.
func (m *Monitor) SetInterval(d time.Duration) {
	if d > 0 {
		m.interval = d
	}
}

// Configure updates the threshold and enable flag, e.g. after a settings reload.
func (m *Monitor) Configure(enabled bool, threshold time.Duration) {
	m.enabled = enabled
	m.threshold = threshold
}

// Supported is false once the provider returned ErrIdleUnsupported.
func (m *Monitor) Supported() bool { return !m.unsupported }

// Check asks the provider for the idle time when the interval has elapsed.
// ErrIdleUnsupported disables the monitor for good and is returned once.
func (m *Monitor) Check(now time.Time) (Signal, error) {
	if !m.enabled || m.unsupported || m.provider == nil || m.threshold <= 0 {
		return SignalNone, nil
	}
	if !m.lastCheck.IsZero() && now.Sub(m.lastCheck) < m.interval {
		return SignalNone, nil
	}
	m.lastCheck = now

	idle, err := m.provider.IdleDuration()
	if err != nil {
		if errors.Is(err, ErrIdleUnsupported) {
			m.unsupported = true
			m.logger.Warn("idle detection disabled", "err", err)
		}
		return SignalNone, fmt.Errorf("check idle: %w", err)
	}

	if idle >= m.threshold {
		return SignalIdle, nil
	}
	return SignalActive, nil
}
