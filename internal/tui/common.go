package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/pomoscreen/internal/config"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewReports
	viewSettings
)

var viewNames = []string{"Timer", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// ScreenLockMsg reports a lock state change from the desktop session.
type ScreenLockMsg struct {
	Locked bool
}

// SettingsMsg carries settings that were saved or reloaded from disk.
type SettingsMsg struct {
	Settings config.Settings
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSeconds(secs int64) string {
	return formatDuration(time.Duration(secs) * time.Second)
}

func formatHours(secs int64) string {
	h := float64(secs) / 3600
	return fmt.Sprintf("%.1fh", h)
}
