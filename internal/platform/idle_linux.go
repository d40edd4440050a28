package platform

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/sadopc/pomoscreen/internal/activity"
)

type idleProvider struct {
	xprintidlePath string
}

func newIdleProvider() activity.Provider {
	path, err := exec.LookPath("xprintidle")
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &idleProvider{xprintidlePath: path}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.xprintidlePath).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseXprintidle(string(output))
}
