//go:build !linux && !darwin && !windows

package platform

import "github.com/sadopc/pomoscreen/internal/activity"

func newIdleProvider() activity.Provider {
	return unsupportedIdleProvider{}
}
