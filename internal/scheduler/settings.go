package scheduler

import (
	"fmt"
	"time"

	"github.com/sadopc/pomoscreen/internal/restart"
)

// IntervalKind is the kind of countdown currently loaded.
type IntervalKind int

const (
	Work IntervalKind = iota
	ShortRest
	LongRest
)

var kindNames = map[IntervalKind]string{
	Work:      "work",
	ShortRest: "short_rest",
	LongRest:  "long_rest",
}

func (k IntervalKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("interval(%d)", int(k))
}

// IsRest reports whether k is a short or long rest.
func (k IntervalKind) IsRest() bool { return k == ShortRest || k == LongRest }

// Settings are the durations and cadence the scheduler runs with.
type Settings struct {
	Policy restart.Policy

	Work      time.Duration
	ShortRest time.Duration
	LongRest  time.Duration

	// LongBreakCycle is the number of work intervals per long rest. Zero
	// disables long rests.
	LongBreakCycle int

	AutoStartNextWork bool
}

// DefaultSettings: 25 minutes of work, 3 minute rests, a 15 minute rest
// every fourth interval.
func DefaultSettings() Settings {
	return Settings{
		Policy:            restart.DefaultPolicy(),
		Work:              25 * time.Minute,
		ShortRest:         3 * time.Minute,
		LongRest:          15 * time.Minute,
		LongBreakCycle:    4,
		AutoStartNextWork: true,
	}
}

func seconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / time.Second)
}

// Callbacks notify the host. Any of them may be nil.
type Callbacks struct {
	OnTimeDisplay          func(display string)
	OnWorkIntervalFinished func()
	OnRestFinished         func(kind IntervalKind, seconds int)
	OnForcedSleepStarted   func()
	OnForcedSleepEnded     func()
	// OnCountdownWarning fires at 30 seconds left and for each of the final
	// 10 seconds of a work interval.
	OnCountdownWarning func(secondsLeft int)
}

// FormatClock renders seconds as zero-padded "MM:SS". Minutes are not
// wrapped at 60.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
