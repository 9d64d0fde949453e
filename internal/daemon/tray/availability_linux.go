//go:build linux

package tray

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const statusNotifierWatcher = "org.kde.StatusNotifierWatcher"

// probeTray reports ErrTrayUnavailable when no StatusNotifierItem host is
// registered on the session bus.
func probeTray() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTrayUnavailable, err)
	}
	defer conn.Close()

	var hasOwner bool
	err = conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, statusNotifierWatcher).Store(&hasOwner)
	if err != nil {
		return fmt.Errorf("%w: query %s: %v", ErrTrayUnavailable, statusNotifierWatcher, err)
	}
	if !hasOwner {
		return fmt.Errorf("%w: no %s on the session bus", ErrTrayUnavailable, statusNotifierWatcher)
	}
	return nil
}
