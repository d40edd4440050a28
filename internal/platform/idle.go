package platform

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sadopc/pomoscreen/internal/activity"
)

// NewIdleProvider returns a platform-specific idle provider. Systems without
// a way to read input idle time get a provider that always returns
// activity.ErrIdleUnsupported.
func NewIdleProvider() activity.Provider {
	return newIdleProvider()
}

type unsupportedIdleProvider struct{}

func (unsupportedIdleProvider) IdleDuration() (time.Duration, error) {
	return 0, activity.ErrIdleUnsupported
}

// parseXprintidle reads the millisecond count printed by xprintidle.
func parseXprintidle(output string) (time.Duration, error) {
	value := strings.TrimSpace(output)
	idleMillis, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

// parseHIDIdleTime finds the first HIDIdleTime entry in `ioreg -c IOHIDSystem`
// output. The value is in nanoseconds.
func parseHIDIdleTime(output string) (time.Duration, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, `"HIDIdleTime"`) {
			continue
		}
		_, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		nanos, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse HIDIdleTime: %w", err)
		}
		if nanos < 0 {
			nanos = 0
		}
		return time.Duration(nanos), nil
	}
	return 0, fmt.Errorf("parse HIDIdleTime: %w", activity.ErrIdleUnsupported)
}
