package platform

import "errors"

// ErrScreenLockUnsupported is returned by WatchScreenLock where no lock
// notification source exists.
var ErrScreenLockUnsupported = errors.New("screen lock detection unsupported")

// LockHandler receives true when the screen locks and false when it unlocks.
type LockHandler func(locked bool)
