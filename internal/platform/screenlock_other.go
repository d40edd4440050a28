//go:build !linux

package platform

import "context"

func WatchScreenLock(ctx context.Context, onChange LockHandler) error {
	return ErrScreenLockUnsupported
}
