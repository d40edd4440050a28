package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

// Desktop environments emit ActiveChanged on one of these interfaces when
// the lock screen or screensaver comes up.
var screenSaverInterfaces = []string{
	"org.freedesktop.ScreenSaver",
	"org.gnome.ScreenSaver",
}

const activeChangedMember = "ActiveChanged"

// WatchScreenLock subscribes to the session bus and calls onChange for every
// lock state change until ctx is cancelled.
func WatchScreenLock(ctx context.Context, onChange LockHandler) error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	for _, iface := range screenSaverInterfaces {
		if err := conn.AddMatchSignal(
			dbus.WithMatchInterface(iface),
			dbus.WithMatchMember(activeChangedMember),
		); err != nil {
			return fmt.Errorf("add match %s: %w", iface, err)
		}
	}

	signals := make(chan *dbus.Signal, 8)
	conn.Signal(signals)
	defer conn.RemoveSignal(signals)

	for {
		select {
		case <-ctx.Done():
			return nil
		case sig, ok := <-signals:
			if !ok {
				return nil
			}
			if locked, ok := parseActiveChanged(sig); ok {
				onChange(locked)
			}
		}
	}
}

// parseActiveChanged extracts the boolean payload of an ActiveChanged signal.
func parseActiveChanged(sig *dbus.Signal) (locked bool, ok bool) {
	if sig == nil || !strings.HasSuffix(sig.Name, "."+activeChangedMember) {
		return false, false
	}
	if len(sig.Body) == 0 {
		return false, false
	}
	locked, ok = sig.Body[0].(bool)
	return locked, ok
}
