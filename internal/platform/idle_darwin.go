package platform

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/sadopc/pomoscreen/internal/activity"
)

type idleProvider struct {
	ioregPath string
}

func newIdleProvider() activity.Provider {
	path, err := exec.LookPath("ioreg")
	if err != nil {
		return unsupportedIdleProvider{}
	}
	return &idleProvider{ioregPath: path}
}

func (provider *idleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.ioregPath, "-c", "IOHIDSystem", "-d", "4").Output()
	if err != nil {
		return 0, fmt.Errorf("ioreg: %w", err)
	}
	return parseHIDIdleTime(string(output))
}
