package curfew

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 5, 12, hour, minute, 0, 0, time.Local)
}

func TestWindowWrapsPastMidnight(t *testing.T) {
	w := Window{Hour: 23, Minute: 0}

	assert.False(t, w.Contains(at(22, 59)))
	assert.True(t, w.Contains(at(23, 0)))
	assert.True(t, w.Contains(at(0, 0)))
	assert.True(t, w.Contains(at(5, 59)))
	assert.False(t, w.Contains(at(6, 0)))
	assert.False(t, w.Contains(at(12, 0)))
}

func TestWindowAfterMidnight(t *testing.T) {
	w := Window{Hour: 0, Minute: 30}

	assert.False(t, w.Contains(at(23, 59)))
	assert.False(t, w.Contains(at(0, 29)))
	assert.True(t, w.Contains(at(0, 30)))
	assert.True(t, w.Contains(at(3, 0)))
	assert.False(t, w.Contains(at(6, 0)))
}

func TestWindowStartingAtEndIsEmpty(t *testing.T) {
	w := Window{Hour: EndHour, Minute: EndMinute}
	for h := 0; h < 24; h++ {
		assert.False(t, w.Contains(at(h, 0)))
	}
}

func TestWindowString(t *testing.T) {
	assert.Equal(t, "23:00-06:00", Window{Hour: 23}.String())
}

func TestMonitorReportsEdgesOnly(t *testing.T) {
	var m Monitor
	w := Window{Hour: 23}

	assert.Equal(t, None, m.Check(at(22, 0), true, w))
	assert.Equal(t, Entered, m.Check(at(23, 0), true, w))
	assert.Equal(t, None, m.Check(at(23, 1), true, w))
	assert.True(t, m.Active())
	assert.Equal(t, Left, m.Check(at(6, 0), true, w))
	assert.Equal(t, None, m.Check(at(6, 1), true, w))
	assert.False(t, m.Active())
}

func TestMonitorDisabledInsideWindow(t *testing.T) {
	var m Monitor
	w := Window{Hour: 23}

	assert.Equal(t, None, m.Check(at(23, 30), false, w))
	assert.Equal(t, Entered, m.Check(at(23, 31), true, w))
	assert.Equal(t, Left, m.Check(at(23, 32), false, w))
}
