package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pomoscreen/internal/curfew"
)

// overlayView renders the full-screen rest or stay-up prompt.
func (p pomodoroModel) overlayView(width, height int) string {
	var box string
	if p.sched.IsForcedSleep() {
		box = p.renderSleepOverlay()
	} else {
		box = p.renderRestOverlay()
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func (p pomodoroModel) renderRestOverlay() string {
	heading := "Short break"
	if p.sched.IsLongRest() {
		heading = "Long break"
	}

	status := mutedStyle.Render("Step away from the screen")
	if p.sched.IsPaused() {
		status = warningStyle.Render("Break paused")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		successStyle.Bold(true).Render(heading),
		"",
		timerStyle.Render(p.sched.Display()),
		"",
		status,
		"",
		mutedStyle.Render("enter: skip break  space: pause/resume  x: stop"),
	)
	return restOverlayStyle.Render(content)
}

func (p pomodoroModel) renderSleepOverlay() string {
	window := p.settings.Curfew()
	content := lipgloss.JoinVertical(lipgloss.Center,
		highlightStyle.Bold(true).Render("Time to sleep"),
		"",
		fmt.Sprintf("Work is blocked until %02d:%02d", curfew.EndHour, curfew.EndMinute),
		mutedStyle.Render("Stay-up window "+window.String()),
		"",
		mutedStyle.Render("q: quit"),
	)
	return sleepOverlayStyle.Render(content)
}
