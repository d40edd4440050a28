package platform

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func TestParseActiveChanged(t *testing.T) {
	locked, ok := parseActiveChanged(&dbus.Signal{
		Name: "org.freedesktop.ScreenSaver.ActiveChanged",
		Body: []interface{}{true},
	})
	assert.True(t, ok)
	assert.True(t, locked)

	locked, ok = parseActiveChanged(&dbus.Signal{
		Name: "org.gnome.ScreenSaver.ActiveChanged",
		Body: []interface{}{false},
	})
	assert.True(t, ok)
	assert.False(t, locked)

	_, ok = parseActiveChanged(&dbus.Signal{Name: "org.gnome.ScreenSaver.WakeUpScreen"})
	assert.False(t, ok)

	_, ok = parseActiveChanged(&dbus.Signal{
		Name: "org.freedesktop.ScreenSaver.ActiveChanged",
		Body: []interface{}{"yes"},
	})
	assert.False(t, ok)
}
