package activity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	idle  time.Duration
	err   error
	calls int
}

func (p *fakeProvider) IdleDuration() (time.Duration, error) {
	p.calls++
	return p.idle, p.err
}

var epoch = time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)

func TestCheckReportsIdleAndActive(t *testing.T) {
	p := &fakeProvider{idle: 2 * time.Minute}
	m := NewMonitor(p, 10*time.Minute)

	sig, err := m.Check(epoch)
	require.NoError(t, err)
	assert.Equal(t, SignalActive, sig)

	p.idle = 10 * time.Minute
	sig, err = m.Check(epoch.Add(DefaultCheckInterval))
	require.NoError(t, err)
	assert.Equal(t, SignalIdle, sig)
}

func TestCheckHonoursInterval(t *testing.T) {
	p := &fakeProvider{}
	m := NewMonitor(p, time.Minute)
	m.SetInterval(30 * time.Second)

	_, _ = m.Check(epoch)
	sig, _ := m.Check(epoch.Add(29 * time.Second))
	assert.Equal(t, SignalNone, sig)
	assert.Equal(t, 1, p.calls)

	_, _ = m.Check(epoch.Add(30 * time.Second))
	assert.Equal(t, 2, p.calls)
}

func TestUnsupportedDisablesMonitor(t *testing.T) {
	p := &fakeProvider{err: ErrIdleUnsupported}
	m := NewMonitor(p, time.Minute)

	_, err := m.Check(epoch)
	assert.ErrorIs(t, err, ErrIdleUnsupported)
	assert.False(t, m.Supported())

	sig, err := m.Check(epoch.Add(time.Hour))
	assert.NoError(t, err)
	assert.Equal(t, SignalNone, sig)
	assert.Equal(t, 1, p.calls)
}

func TestTransientErrorRetries(t *testing.T) {
	p := &fakeProvider{err: errors.New("xprintidle: exit status 1")}
	m := NewMonitor(p, time.Minute)

	_, err := m.Check(epoch)
	require.Error(t, err)
	assert.True(t, m.Supported())

	p.err = nil
	sig, err := m.Check(epoch.Add(DefaultCheckInterval))
	require.NoError(t, err)
	assert.Equal(t, SignalActive, sig)
}

func TestDisabledMonitorNeverCalls(t *testing.T) {
	p := &fakeProvider{}
	m := NewMonitor(p, time.Minute)
	m.Configure(false, time.Minute)

	sig, err := m.Check(epoch)
	assert.NoError(t, err)
	assert.Equal(t, SignalNone, sig)
	assert.Zero(t, p.calls)
}
